// File: internal/infra/security/cipher.go
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// sealedPrefix marks values produced by TurnCipher.Seal.
const sealedPrefix = "v1:"

var ErrMalformed = errors.New("malformed sealed value")

// TextCipher protects conversation text at rest. The owner id is bound as
// additional data so a value copied to another user's row will not open.
type TextCipher interface {
	Seal(owner, plaintext string) (string, error)
	Open(owner, sealed string) (string, error)
}

// TurnCipher is AES-256-GCM with a random nonce per value.
// Format: "v1:" + base64(nonce || ciphertext).
type TurnCipher struct {
	gcm cipher.AEAD
}

// NewTurnCipher requires a 32-byte key.
func NewTurnCipher(key string) (*TurnCipher, error) {
	k := []byte(key)
	if len(k) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes; got %d", len(k))
	}
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return &TurnCipher{gcm: gcm}, nil
}

func (c *TurnCipher) Seal(owner, plaintext string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}
	ct := c.gcm.Seal(nonce, nonce, []byte(plaintext), []byte(owner))
	return sealedPrefix + base64.StdEncoding.EncodeToString(ct), nil
}

// Open reverses Seal. Values without the version prefix are returned as is,
// so rows written before encryption was enabled stay readable.
func (c *TurnCipher) Open(owner, sealed string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefix) {
		return sealed, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: base64: %v", ErrMalformed, err)
	}
	ns := c.gcm.NonceSize()
	if len(data) < ns {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}
	pt, err := c.gcm.Open(nil, data[:ns], data[ns:], []byte(owner))
	if err != nil {
		return "", fmt.Errorf("gcm open: %w", err)
	}
	return string(pt), nil
}

// PlainCipher stores text unchanged; used when no key is configured.
type PlainCipher struct{}

func (PlainCipher) Seal(_, plaintext string) (string, error) { return plaintext, nil }
func (PlainCipher) Open(_, sealed string) (string, error)    { return sealed, nil }

var (
	_ TextCipher = (*TurnCipher)(nil)
	_ TextCipher = PlainCipher{}
)
