package models

// AppleTokenResponse is the decoded body of Apple's token endpoint reply
// after an authorization-code exchange.
type AppleTokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
}

// AppleJWK is one RSA public signing key from Apple's JWKS endpoint.
type AppleJWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// AppleJWKSet is the document served at Apple's well-known keys endpoint.
type AppleJWKSet struct {
	Keys []AppleJWK `json:"keys"`
}
