package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// DefaultCodeLength is the number of digits in a generated code.
const DefaultCodeLength = 6

// GenerateCode returns a random numeric code of the given length. Bytes in
// the 250..255 range are discarded so every digit is equally likely.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	digits := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(digits) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		for _, b := range buf {
			if b >= 250 {
				continue
			}
			digits = append(digits, '0'+b%10)
			if len(digits) == length {
				break
			}
		}
	}

	return string(digits), nil
}

// HashCode returns the stored form of a code. Plaintext codes are never
// persisted.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// CompareCode checks a supplied code against a stored hash in constant time.
func CompareCode(storedHash, suppliedCode string) bool {
	supplied := HashCode(suppliedCode)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(supplied)) == 1
}
