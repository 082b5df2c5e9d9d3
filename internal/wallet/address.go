package wallet

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ChecksumAddress renders a hex address in EIP-55 mixed-case form for
// display. The input may be any casing, with or without the 0x prefix.
func ChecksumAddress(addr string) string {
	lower := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X"))

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	hash := hex.EncodeToString(h.Sum(nil))

	var result strings.Builder
	result.WriteString("0x")
	for i, c := range lower {
		if c >= '0' && c <= '9' {
			result.WriteByte(byte(c))
			continue
		}
		// Uppercase when the corresponding nibble in the hash is >= 8.
		if hash[i] >= '8' {
			result.WriteByte(byte(c - 32))
		} else {
			result.WriteByte(byte(c))
		}
	}
	return result.String()
}
