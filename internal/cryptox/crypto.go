package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SecretCost is the bcrypt cost used for the owner unlock secret.
const SecretCost = bcrypt.DefaultCost

// HashSecret derives a bcrypt hash of secret suitable for the
// owner_unlock_hash configuration value.
//
// Parameters:
//   - secret: the plaintext; the caller may wipe it afterwards.
//   - cost: bcrypt cost; values below bcrypt.MinCost are raised to it.
//
// Returns:
//   - the encoded hash ("$2a$..." form).
//   - err: non-nil if the secret is empty or longer than 72 bytes.
//
// Example:
//
//	hash, err := cryptox.HashSecret([]byte("open sesame"), cryptox.SecretCost)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(hash)
func HashSecret(secret []byte, cost int) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("cryptox: empty secret")
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	h, err := bcrypt.GenerateFromPassword(secret, cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash secret: %w", err)
	}
	return string(h), nil
}

// VerifySecret reports whether secret matches hash. A malformed hash is an
// error, a plain mismatch is not.
func VerifySecret(hash string, secret []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), secret)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("cryptox: verify secret: %w", err)
	}
}
