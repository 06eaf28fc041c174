package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	walletAddressPrefix = "0x"
	walletAddressHexLen = 40
	sessionTokenPrefix  = "token-"
)

// NewWalletAddress returns "0x" followed by 40 lowercase hex characters.
func NewWalletAddress() (string, error) {
	b := make([]byte, walletAddressHexLen/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("wallet address entropy: %w", err)
	}
	return walletAddressPrefix + hex.EncodeToString(b), nil
}

// IsWalletAddress checks the shape produced by NewWalletAddress.
func IsWalletAddress(s string) bool {
	if !strings.HasPrefix(s, walletAddressPrefix) {
		return false
	}
	h := s[len(walletAddressPrefix):]
	if len(h) != walletAddressHexLen {
		return false
	}
	_, err := hex.DecodeString(h)
	return err == nil
}

// NewSessionToken returns an opaque bearer token.
func NewSessionToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token entropy: %w", err)
	}
	return sessionTokenPrefix + hex.EncodeToString(b), nil
}

// ExtractBearer takes the token out of an Authorization header value. Without
// the "Bearer " prefix the whole value is the token.
func ExtractBearer(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
