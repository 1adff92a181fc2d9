package code

import (
	"crypto/rand"
	"strings"
)

// Length of generated access codes.
const Length = 6

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a short shareable access code: 6 uppercase alphanumeric
// characters drawn from crypto/rand. The entropy makes blind guessing
// impractical for casual misuse, but a 6-character code is not a security
// boundary against a determined attacker. Uniqueness is not checked here;
// the registry insert is the sole guard.
func Generate() string {
	// Bytes at or above the largest multiple of the alphabet size are
	// rejected so every character is equally likely.
	const limit = 256 - 256%len(alphabet)
	out := make([]byte, 0, Length)
	buf := make([]byte, Length)
	for {
		if _, err := rand.Read(buf); err != nil {
			panic("code: crypto/rand unavailable: " + err.Error())
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				return string(out)
			}
		}
	}
}

// Normalize canonicalizes a user-chosen code for storage and lookup.
func Normalize(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
