// Package common contains constants and helpers shared by client packages.
package common

const (
	// AuthorizationHeaderName carries the raw bearer token on API requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName correlates client log lines with server logs.
	RequestIDHeaderName = "X-Request-ID"

	// DefaultStoreNamespace scopes the persisted credentials.
	DefaultStoreNamespace = "Mindeducation"
)
