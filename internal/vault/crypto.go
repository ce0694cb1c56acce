package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/mnemoslabs/mnemos/internal/model"
)

// soulCipher encrypts soul-domain values with AES-256-GCM. The key is derived
// from a process-wide passphrase with SHA-256; it is configuration, not
// request state.
type soulCipher struct {
	aead cipher.AEAD
}

func newSoulCipher(passphrase string) (*soulCipher, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty soul passphrase", model.ErrCrypto)
	}
	key := sha256.Sum256([]byte(passphrase))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCrypto, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCrypto, err)
	}
	return &soulCipher{aead: aead}, nil
}

// seal returns nonce||ciphertext. Empty plaintexts are valid and round-trip.
func (c *soulCipher) seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: nonce: %w", model.ErrCrypto, err)
	}
	return c.aead.Seal(nonce, nonce, plain, nil), nil
}

func (c *soulCipher) open(sealed []byte) ([]byte, error) {
	ns := c.aead.NonceSize()
	if len(sealed) < ns {
		return nil, fmt.Errorf("%w: sealed value too short", model.ErrCrypto)
	}
	plain, err := c.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCrypto, err)
	}
	return plain, nil
}
