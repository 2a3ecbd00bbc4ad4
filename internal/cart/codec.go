package cart

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecode marks ciphertext that cannot be decrypted with the
// configured key. Callers treat such a line as absent, never as a
// request failure.
var ErrDecode = errors.New("cart item decode failed")

// Codec encrypts product identifiers before they are persisted as
// cart lines. Encryption uses AES-256-GCM with a fresh nonce per call,
// so two ciphertexts of the same product are never byte-equal and
// lookups must decode before comparing.
type Codec struct {
	gcm cipher.AEAD
}

// NewCodec derives a 32-byte AES key from the configured secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("cart item secret is required")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Codec{gcm: gcm}, nil
}

// Encode encrypts a product id into its base64 storage form.
func (c *Codec) Encode(productID string) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := c.gcm.Seal(nonce, nonce, []byte(productID), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decode recovers the product id from its storage form.
func (c *Codec) Decode(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	nonceSize := c.gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecode)
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return string(plaintext), nil
}
