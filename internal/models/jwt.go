package models

// TokenClaims represents the claims extracted from a verified bearer token.
// For self-issued tokens Sub holds the internal user ID; for tokens minted
// by the external identity provider it holds the provider subject.
type TokenClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
	Iss   string `json:"iss"`
	Aud   string `json:"aud"`

	// SelfIssued is true when the token was signed by this service rather
	// than the external identity provider.
	SelfIssued bool `json:"-"`
}
