// Package cipher provides the at-rest encryption of the stored birthday
// collection.
//
// Security model, stated honestly: this is obfuscation against casual
// inspection of the database file, not a secrecy boundary. The default
// passphrase is embedded in the binary, so anyone with the application
// (or its source) can derive the key. Users who want more can store
// their own passphrase in the OS keyring; it transparently replaces the
// embedded one.
package cipher

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"

	"github.com/tartampluch/go-wishly/internal/config"
)

// Cipher seals and opens payloads with AES-256-GCM. The key is the
// SHA-256 of a passphrase.
type Cipher struct {
	key [sha256.Size]byte
}

// New builds a Cipher using the keyring passphrase when one is set, and
// the embedded default otherwise. Keyring errors (no backend, no entry)
// only downgrade to the embedded key; they are never fatal.
func New() *Cipher {
	log := slog.With(config.LogKeyComponent, config.CompCipher)

	pass, err := keyring.Get(config.KeyringService, config.KeyringUser)
	if err != nil || pass == "" {
		log.Debug(config.MsgPassphraseNone)
		return NewWithPassphrase(config.EmbeddedPassphrase)
	}

	log.Debug(config.MsgPassphraseSet)
	return NewWithPassphrase(pass)
}

// NewWithPassphrase builds a Cipher from an explicit passphrase.
func NewWithPassphrase(passphrase string) *Cipher {
	return &Cipher{key: sha256.Sum256([]byte(passphrase))}
}

// Encrypt serializes v to JSON, seals it with a random nonce and returns
// the base64 form suitable for a string-valued store.
func (c *Cipher) Encrypt(v any) (string, error) {
	plain, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrEncrypt, err)
	}

	gcm, err := c.gcm()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrEncrypt, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrEncrypt, err)
	}

	sealed := gcm.Seal(nonce, nonce, plain, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It returns nil on any failure (bad base64,
// truncated input, authentication failure, non-JSON plaintext) instead of
// an error: a nil result tells the caller to fall back to treating the
// input as legacy plaintext.
func (c *Cipher) Decrypt(ciphertext string) json.RawMessage {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil
	}

	gcm, err := c.gcm()
	if err != nil {
		return nil
	}

	if len(sealed) < gcm.NonceSize() {
		return nil
	}

	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return nil
	}

	if !json.Valid(plain) {
		return nil
	}
	return plain
}

func (c *Cipher) gcm() (gocipher.AEAD, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return nil, err
	}
	return gocipher.NewGCM(block)
}
