// Package crypto encrypts portal passwords at rest with an AEAD cipher.
// Ciphertexts are self-contained strings safe to store in a text column.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrInvalidCiphertext indicates the stored value is truncated, corrupt
	// or was produced with a different secret.
	ErrInvalidCiphertext = errors.New("crypto: invalid ciphertext")
)

// Cryptor performs symmetric authenticated encryption with a key derived
// from a configured secret. XChaCha20-Poly1305 with a random nonce, so the
// same plaintext encrypts to a different ciphertext every time.
type Cryptor struct {
	key []byte
}

// NewCryptor derives the cipher key from the secret.
func NewCryptor(secret string) (*Cryptor, error) {
	if secret == "" {
		return nil, errors.New("crypto: secret is required")
	}
	key := sha256.Sum256([]byte(secret))
	return &Cryptor{key: key[:]}, nil
}

// Encrypt seals the plaintext and returns a base64 string carrying the
// nonce and ciphertext.
func (c *Cryptor) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("crypto: init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("crypto: generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Fails with ErrInvalidCiphertext on any
// tampering or key mismatch.
func (c *Cryptor) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("crypto: init cipher: %w", err)
	}

	if len(raw) < aead.NonceSize() {
		return "", ErrInvalidCiphertext
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(plaintext), nil
}
