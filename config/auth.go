package config

import "fmt"

// AuthConfig configures bearer token verification for user scoped endpoints.
type AuthConfig struct {
	// JWTSecret is the HS256 signing key. Authentication is disabled when empty.
	JWTSecret string `json:"jwt_secret"`
	Issuer    string `json:"issuer"`
}

// Enabled reports whether tokens are required.
func (c AuthConfig) Enabled() bool { return c.JWTSecret != "" }

// Validate checks mandatory fields.
func (c AuthConfig) Validate() error {
	if c.Enabled() && len(c.JWTSecret) < 16 {
		return fmt.Errorf("auth.jwt_secret must be at least 16 characters")
	}
	return nil
}
