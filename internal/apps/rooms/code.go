package rooms

import (
	"crypto/rand"
	"strings"
)

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CodeLength   = 6
)

// largest multiple of len(codeAlphabet) that fits in a byte
const codeRejectAbove = 256 - 256%len(codeAlphabet)

// NewJoinCode draws a CodeLength upper-case base-36 code. Uniqueness is not
// guaranteed here; the store's unique index decides.
func NewJoinCode() (string, error) {
	var sb strings.Builder
	sb.Grow(CodeLength)
	buf := make([]byte, 16)
	for sb.Len() < CodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= codeRejectAbove {
				continue
			}
			sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
			if sb.Len() == CodeLength {
				break
			}
		}
	}
	return sb.String(), nil
}

// NormalizeCode makes user-typed codes comparable with stored ones.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func ValidCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
