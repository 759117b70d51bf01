package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// VerificationCodeLength is the number of decimal digits in a one-time
// verification code.
const VerificationCodeLength = 5

// GenerateVerificationCode produces a fixed-length numeric one-time code.
// Each digit is drawn independently and uniformly from crypto/rand, so
// leading zeros are possible and significant: "00042" is a valid code and
// must be compared as an exact string, never as a number.
func GenerateVerificationCode() (string, error) {
	code := make([]byte, VerificationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		code[i] = '0' + byte(n.Int64())
	}
	return string(code), nil
}
