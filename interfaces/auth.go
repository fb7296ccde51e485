package interfaces

//go:generate mockgen -destination=mocks/auth.go . AuthProvider

// AuthProvider supplies credentials to attach to a provider request
// immediately before calling out. The core never stores, encrypts or
// rotates secrets itself.
type AuthProvider interface {
	// GetAuthHeaders returns request headers for the named provider,
	// empty when the provider needs no authentication
	GetAuthHeaders(provider string) map[string]string

	// GetAuthParams returns query parameters for the named provider
	GetAuthParams(provider string) map[string]string
}
