package utils

import (
	"crypto/rand"
	"math/big"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeHandle lowercases usernames, emails and guild tags the same way at
// every boundary, so the policy layer can compare exact strings.
func NormalizeHandle(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ValidHandle reports whether s is non-empty, at most max characters, and
// entirely letters and digits.
func ValidHandle(s string, max int) bool {
	runes := []rune(s)
	if len(runes) == 0 || len(runes) > max {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

const tokenLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RandomLetters returns an n-character token drawn uniformly from A-Z a-z,
// used for registration-confirmation and password-reset links.
func RandomLetters(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(tokenLetters))))
		if err != nil {
			return "", err
		}
		b[i] = tokenLetters[idx.Int64()]
	}
	return string(b), nil
}
