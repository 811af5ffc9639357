package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ParseEncKey decodes a hex AES key (16, 24 or 32 bytes)
func ParseEncKey(encKeyHex string) ([]byte, error) {
	if encKeyHex == "" {
		return nil, errors.New("ENC_KEY is empty")
	}
	key, err := hex.DecodeString(encKeyHex)
	if err != nil {
		return nil, errors.New("invalid ENC_KEY format")
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	}
	return nil, fmt.Errorf("ENC_KEY must be 16, 24 or 32 bytes, got %d", len(key))
}

// EncryptString seals plaintext with AES-GCM and returns hex(nonce || ciphertext)
func EncryptString(key []byte, plaintext string) (string, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString
func DecryptString(key []byte, encoded string) (string, error) {
	aesGCM, err := newGCM(key)
	if err != nil {
		return "", err
	}

	data, err := hex.DecodeString(encoded)
	if err != nil {
		return "", errors.New("invalid ciphertext encoding")
	}
	if len(data) < aesGCM.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:aesGCM.NonceSize()], data[aesGCM.NonceSize():]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.New("decryption failed: invalid auth tag or corrupted data")
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
