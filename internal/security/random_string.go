package security

import (
	"crypto/rand"
	"errors"
	"fmt"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errAlphabetSize   = errors.New("alphabet must not exceed 256 characters")
)

// RandomString draws length characters uniformly from alphabet using
// crypto/rand. Bytes outside the largest multiple of len(alphabet) are
// rejected, so no character is favored.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}
	if len(alphabet) > 256 {
		return "", errAlphabetSize
	}

	// Largest byte value usable without modulo bias.
	ceiling := 256 - 256%len(alphabet)

	out := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buffer {
			if int(b) >= ceiling {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
