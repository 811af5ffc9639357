package bizzio

import "fmt"

// TransportError means the ERP could not be reached or answered with an
// unusable HTTP status.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("bizzio %s: unexpected HTTP status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("bizzio %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the response body was not the expected XML
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse XML response for %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// APIError is a domain failure reported inside a well-formed response.
// Raw keeps the full response for support diagnostics.
type APIError struct {
	Kind    Kind
	Code    string
	Type    string
	Message string
	Raw     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error fetching %s: %s (Code: %s)", e.Kind, e.Message, e.Code)
}
