package cipher

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-wishly/internal/config"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := NewWithPassphrase(config.EmbeddedPassphrase)

	payload := map[string]any{"name": "Alice", "day": 15}
	sealed, err := c.Encrypt(payload)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "Alice", "the ciphertext must not leak the plaintext")

	plain := c.Decrypt(sealed)
	require.NotNil(t, plain)

	var got map[string]any
	require.NoError(t, json.Unmarshal(plain, &got))
	assert.Equal(t, "Alice", got["name"])
	assert.Equal(t, float64(15), got["day"])
}

// TestEncrypt_NonDeterministic: a fresh nonce per call means equal inputs
// never produce equal ciphertexts.
func TestEncrypt_NonDeterministic(t *testing.T) {
	c := NewWithPassphrase("pass")

	first, err := c.Encrypt("same input")
	require.NoError(t, err)
	second, err := c.Encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, c.Decrypt(first), c.Decrypt(second), "both still open to the same plaintext")
}

func TestDecrypt_FailsSafe(t *testing.T) {
	c := NewWithPassphrase("pass")

	tests := []struct {
		name  string
		input string
	}{
		{"Not base64", "%%% not base64 %%%"},
		{"Valid base64, too short for a nonce", base64.StdEncoding.EncodeToString([]byte("tiny"))},
		{"Valid base64, garbage body", base64.StdEncoding.EncodeToString(make([]byte, 64))},
		{"Empty string", ""},
		{"Legacy plaintext JSON", `[{"name":"Alice"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, c.Decrypt(tt.input), "any failure must yield nil, never panic or garbage")
		})
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	c := NewWithPassphrase("pass")

	sealed, err := c.Encrypt("payload")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	assert.Nil(t, c.Decrypt(base64.StdEncoding.EncodeToString(raw)), "GCM must reject a flipped bit")
}

func TestDecrypt_WrongPassphrase(t *testing.T) {
	sealed, err := NewWithPassphrase("right").Encrypt("secret")
	require.NoError(t, err)

	assert.Nil(t, NewWithPassphrase("wrong").Decrypt(sealed))
}
