package security

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the fixed bcrypt work factor applied to every stored credential.
const HashCost = 10

var tempPasswordCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// HashPassword returns a salted bcrypt hash for the provided password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword returns true when the password matches the encoded hash.
// A malformed hash is reported as an error; a plain mismatch is not.
func VerifyPassword(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err == nil {
		return true, nil
	}
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	return false, err
}

// GenerateTempPassword produces a random string suitable for temporary credentials.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(tempPasswordCharset))
		if err != nil {
			return "", err
		}
		result[i] = tempPasswordCharset[idx]
	}
	return string(result), nil
}

// randInt returns a uniform value in [0, max). Bytes beyond the largest
// multiple of max are redrawn so no residue class is favored.
func randInt(max int) (int, error) {
	if max <= 0 || max > 256 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	limit := 256 - 256%max
	buff := make([]byte, 1)
	for {
		if _, err := rand.Read(buff); err != nil {
			return 0, err
		}
		if int(buff[0]) < limit {
			return int(buff[0]) % max, nil
		}
	}
}
