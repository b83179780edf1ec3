package crypto

import (
	"crypto/sha256"
	"encoding/base64"
)

// Defined in RFC 7636 (PKCE). Allowed characters: A-Z, a-z, 0-9, and the
// symbols -, ., _, ~.
const pkceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// PKCECodeChallengeMethod is the only challenge method supported (RFC 7636).
const PKCECodeChallengeMethod = "S256"

// The OAuth2 specification (RFC 6749) doesn't mandate a specific state
// length, only a random unguessable string; 32 characters is common.
const Oauth2StateLength = 32

// Defined in RFC 7636 (PKCE). Its length must be between 43 and 128 characters.
const OauthCodeVerifierLength = 43

// Oauth2State creates the CSRF-binding state parameter for an authorization
// request.
func Oauth2State() string {
	return RandomString(Oauth2StateLength, alphanumericAlphabet)
}

func Oauth2CodeVerifier() string {
	return RandomString(OauthCodeVerifierLength, pkceAlphabet)
}

// S256Challenge derives the PKCE code challenge from a code verifier:
// base64url(no padding) of the verifier's SHA-256 digest.
func S256Challenge(codeVerifier string) string {
	sum := sha256.Sum256([]byte(codeVerifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
