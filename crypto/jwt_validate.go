package crypto

import (
	"fmt"
)

// The parser validates format, signature and the exp claim when present, but
// it does not enforce the PRESENCE of claims. These helpers check that every
// claim the application relies on actually exists in the parsed map.

func claimString(claims map[string]any, key string) (string, error) {
	v, ok := claims[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s claim", ErrJwtInvalidToken, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: invalid %s claim", ErrJwtInvalidToken, key)
	}
	return s, nil
}

// ValidateSessionClaims checks a parsed session token and returns the user id.
func ValidateSessionClaims(claims map[string]any) (string, error) {
	if _, ok := claims[ClaimIssuedAt]; !ok {
		return "", fmt.Errorf("%w: missing iat claim", ErrJwtInvalidToken)
	}
	typ, err := claimString(claims, ClaimType)
	if err != nil {
		return "", err
	}
	if typ != ClaimSessionValue {
		return "", fmt.Errorf("%w: unexpected type claim %q", ErrJwtInvalidToken, typ)
	}
	return claimString(claims, ClaimUserID)
}

// ValidateEmailVerificationClaims checks a parsed email verification token
// and returns the user id and email it was minted for.
func ValidateEmailVerificationClaims(claims map[string]any) (userID, email string, err error) {
	if _, ok := claims[ClaimIssuedAt]; !ok {
		return "", "", fmt.Errorf("%w: missing iat claim", ErrJwtInvalidToken)
	}
	typ, err := claimString(claims, ClaimType)
	if err != nil {
		return "", "", err
	}
	if typ != ClaimEmailVerificationValue {
		return "", "", fmt.Errorf("%w: unexpected type claim %q", ErrJwtInvalidToken, typ)
	}
	userID, err = claimString(claims, ClaimUserID)
	if err != nil {
		return "", "", err
	}
	email, err = claimString(claims, ClaimEmail)
	if err != nil {
		return "", "", err
	}
	return userID, email, nil
}
