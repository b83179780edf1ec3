package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

const alphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// codeAlphabet is the alphabet for short verification codes typed by users.
// Uppercase only, so codes can be matched case-insensitively after
// normalization without ambiguity.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TwoFactorCodeLength is the length of short-lived login verification codes.
const TwoFactorCodeLength = 6

// SecureTokenLength is the number of random bytes in an opaque bridge or
// reset token; the hex encoding doubles the character count.
const SecureTokenLength = 32

// RandomString returns a string of length n drawn uniformly from alphabet
// using crypto/rand. It panics if the entropy source fails, which is
// unrecoverable anyway.
func RandomString(n int, alphabet string) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto: entropy source failure: " + err.Error())
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b)
}

// NewTwoFactorCode generates a short uppercase verification code.
func NewTwoFactorCode() string {
	return RandomString(TwoFactorCodeLength, codeAlphabet)
}

// NewSecureToken creates a cryptographically secure opaque token, used for
// password reset tokens and the pre/post verification session bridge.
func NewSecureToken() string {
	b := make([]byte, SecureTokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto: entropy source failure: " + err.Error())
	}
	return hex.EncodeToString(b)
}
