package provider

import (
	"context"

	"github.com/SaganOrg/command-center-sub001/internal/auth"
)

// OAuthProvider defines the contract every external identity provider
// must implement. Implementations return identity facts only and must
// not perform profile creation, provisioning, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the one-time authorization code for
	// provider credentials and returns a normalized identity.
	ExchangeCode(
		ctx context.Context,
		code string,
		codeVerifier string,
	) (*auth.Identity, error)
}
