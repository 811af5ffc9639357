package bizzio

import "regexp"

var credentialPattern = regexp.MustCompile(
	`(<(?:[\w-]+:)?(?:Database|Username|Password)\b[^>]*>)[^<]*(</(?:[\w-]+:)?(?:Database|Username|Password)>)`,
)

// RedactCredentials hides the authentication header values of an envelope
func RedactCredentials(payload string) string {
	return credentialPattern.ReplaceAllString(payload, "${1}[REDACTED]${2}")
}
