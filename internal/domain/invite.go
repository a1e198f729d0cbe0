package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	InviteCodeLength   = 6
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewInviteCode returns a random code of InviteCodeLength characters from [A-Z0-9].
func NewInviteCode() (string, error) {
	var sb strings.Builder
	sb.Grow(InviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := 0; i < InviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("invite code: %w", err)
		}
		sb.WriteByte(inviteCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeInviteCode trims and upper-cases user input so "ab12cd " matches "AB12CD".
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
