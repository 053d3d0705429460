// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSignature = errors.New("invalid session signature")
	ErrInvalidToken     = errors.New("invalid token format")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func sign(value, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(value))
	sum := h.Sum(nil)
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// SignSession creates the token handed to a visitor: "<id>.<hmac>".
// Sessions are verifiable without being stored anywhere but memory.
func SignSession(sessionID, salt string) string {
	return sessionID + "." + sign(sessionID, salt)
}

// ValidateSessionToken checks a token's signature and returns the session ID
func ValidateSessionToken(token, salt string) (string, error) {
	id, mac, ok := strings.Cut(token, ".")
	if !ok || id == "" || mac == "" {
		return "", ErrInvalidToken
	}
	expected := sign(id, salt)
	if !hmac.Equal([]byte(mac), []byte(expected)) {
		return "", ErrInvalidSignature
	}
	return id, nil
}

// OrderCode creates a short, deterministic code customers can quote for an
// order. Uses HMAC for determinism and base62 for readability.
func OrderCode(orderID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(orderID))
	sum := h.Sum(nil)

	// first 8 bytes are plenty for a lookup code
	return base62Encode(sum[:8])
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// HashPhone creates a one-way digest of a phone number for logs
func HashPhone(phone, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(phone))
	sum := h.Sum(nil)
	// 16 hex chars is enough to correlate log lines
	return hex.EncodeToString(sum[:8])
}
