package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword hashes a plain text password with bcrypt.
// New accounts always get bcrypt; the legacy digest is never produced here.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a stored hash with a plaintext password.
//
// Rows imported from the previous tracker carry a hex sha256 of
// password+sharedSecret instead of bcrypt. Those hashes must keep verifying,
// so non-bcrypt values fall through to the legacy comparison.
func CheckPassword(hash, plain, legacySecret string) error {
	if strings.HasPrefix(hash, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	}

	if legacyDigestMatches(hash, plain, legacySecret) {
		return nil
	}

	return ErrPasswordMismatch
}

// NeedsRehash reports whether a stored hash uses the legacy scheme and should
// be upgraded to bcrypt after a successful login.
func NeedsRehash(hash string) bool {
	return !strings.HasPrefix(hash, "$2")
}

func legacyDigestMatches(hash, plain, secret string) bool {
	sum := sha256.Sum256([]byte(plain + secret))
	digest := hex.EncodeToString(sum[:])

	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(hash))) == 1
}
