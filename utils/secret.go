package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyDigest is compared against when the stored digest is unusable, so a malformed
// digest costs the same bcrypt work as a wrong secret.
var dummyDigest, _ = bcrypt.GenerateFromPassword([]byte("gallery-dummy-secret"), bcrypt.DefaultCost)

// HashSecret returns a one-way bcrypt digest of secret
func HashSecret(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifySecret reports whether secret matches digest. Any failure, including a malformed
// digest or an over-long secret, is just false.
func VerifySecret(secret, digest string) bool {
	if _, err := bcrypt.Cost([]byte(digest)); err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(secret))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
