package util

import "golang.org/x/crypto/bcrypt"

// Cost applies to newly minted hashes only; stored hashes verify with the
// cost they were created at, so raising it never invalidates accounts.
const passwordHashCost = 12

// HashPassword returns the bcrypt hash of a customer password. bcrypt
// rejects inputs over 72 bytes; the register endpoint does not cap
// password length, so the error must be surfaced, not ignored.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
