package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// MinKeyLength is the minimum required length for JWT signing keys.
	// 32 bytes (256 bits) is the minimum recommended length for HMAC-SHA256
	// keys to provide sufficient security against brute force attacks.
	MinKeyLength = 32

	// Standard claim keys
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"

	// Custom claim keys
	ClaimUserID = "user_id"
	ClaimEmail  = "email"
	ClaimType   = "type"

	// Values for the type claim, one per token purpose. A token minted for
	// one purpose is never accepted for another.
	ClaimSessionValue           = "session"
	ClaimEmailVerificationValue = "email_verification"
)

var (
	// ErrJwtTokenExpired is returned when the token has expired
	ErrJwtTokenExpired = errors.New("token expired")
	// ErrJwtInvalidToken is returned when the token is invalid
	ErrJwtInvalidToken = errors.New("invalid token")
	// ErrJwtInvalidSigningMethod is returned when the signing method is not HS256
	ErrJwtInvalidSigningMethod = errors.New("unexpected signing method")
	// ErrJwtInvalidSecretLength is returned for invalid secret lengths
	ErrJwtInvalidSecretLength = errors.New("invalid secret length")
)

// ParseJwt verifies and parses a JWT and returns its claims as a
// map[string]any.
func ParseJwt(token string, verificationKey []byte) (jwt.MapClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	parsedToken, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return verificationKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrJwtTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrJwtInvalidSigningMethod
		}
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}

	if claims, ok := parsedToken.Claims.(jwt.MapClaims); ok && parsedToken.Valid {
		return claims, nil
	}

	return nil, ErrJwtInvalidToken
}

// ParseJwtUnverified extracts the claims of a JWT without checking the
// signature. Used to read the user id out of a session token before the
// credential-derived verification key can be looked up.
func ParseJwtUnverified(token string) (jwt.MapClaims, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}
	return claims, nil
}

// NewJwt generates a new JWT with the provided claims plus iat and exp.
func NewJwt(payload jwt.MapClaims, signingKey []byte, duration time.Duration) (string, time.Time, error) {
	if len(signingKey) < MinKeyLength {
		return "", time.Time{}, ErrJwtInvalidSecretLength
	}

	now := time.Now()
	expirationTime := now.Add(duration)
	payload[ClaimIssuedAt] = now.Unix()
	payload[ClaimExpiresAt] = expirationTime.Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenString, err := token.SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expirationTime, nil
}

// oauth2PasswordPlaceholder stands in for the password hash in the key
// derivation of accounts that have none (oauth2-origin sign-in). Their
// sessions still die on email change or secret rotation.
const oauth2PasswordPlaceholder = "oauth2"

// NewJwtSessionSigningKey derives the signing key for a user's session
// tokens. Password-less accounts use a fixed placeholder for the hash input.
func NewJwtSessionSigningKey(email, passwordHash, secret string) ([]byte, error) {
	if passwordHash == "" {
		passwordHash = oauth2PasswordPlaceholder
	}
	return NewJwtSigningKeyWithCredentials(email, passwordHash, []byte(secret))
}

// NewJwtSessionToken mints the durable session token for a user.
func NewJwtSessionToken(userID, email, passwordHash, secret string, duration time.Duration) (string, time.Time, error) {
	signingKey, err := NewJwtSessionSigningKey(email, passwordHash, secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return NewJwt(jwt.MapClaims{
		ClaimUserID: userID,
		ClaimEmail:  email,
		ClaimType:   ClaimSessionValue,
	}, signingKey, duration)
}

// NewJwtSigningKeyWithCredentials creates a JWT signing key using HMAC-SHA256.
//
// It derives a unique key by combining user-specific data (email,
// passwordHash) with a server secret. Tokens are invalidated when the user's
// email or password changes, or globally by rotating the secret.
//
// Using HMAC prevents length-extension attacks, unlike simple hash
// concatenation. A null byte delimits email and passwordHash to prevent
// collisions between the two inputs.
func NewJwtSigningKeyWithCredentials(email, passwordHash string, secret []byte) ([]byte, error) {
	if email == "" || passwordHash == "" {
		return nil, ErrJwtInvalidSecretLength
	}

	if len(secret) < MinKeyLength {
		return nil, ErrJwtInvalidSecretLength
	}

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(email))
	h.Write([]byte{0})
	h.Write([]byte(passwordHash))

	return h.Sum(nil), nil
}
