package bizzio

import "fmt"

// Kind selects the remote operation and how its response is parsed
type Kind int

const (
	KindProducts Kind = iota + 1
	KindCategories
	KindConnectionTest
)

// String returns the kind name used in storage keys, routes and messages
func (k Kind) String() string {
	switch k {
	case KindProducts:
		return "products"
	case KindCategories:
		return "categories"
	case KindConnectionTest:
		return "connection_test"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Operation is the remote SOAP operation name
func (k Kind) Operation() string {
	if k == KindProducts {
		return "GetArticles"
	}
	return "GetSiteGroups"
}

// SOAPAction is the value of the SOAPAction header
func (k Kind) SOAPAction() string {
	return "http://tempuri.org/IRiznShopExtService/" + k.Operation()
}

// Importable reports whether the kind has a snapshot to reconcile
func (k Kind) Importable() bool {
	return k == KindProducts || k == KindCategories
}

// ParseKind maps a kind name back to its value
func ParseKind(s string) (Kind, error) {
	switch s {
	case "products":
		return KindProducts, nil
	case "categories":
		return KindCategories, nil
	case "connection_test":
		return KindConnectionTest, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}
