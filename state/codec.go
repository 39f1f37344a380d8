package state

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/MrEthical07/merchantauth/internal"
)

// KeySize is the number of secret bytes used as the AES-256 key.
const KeySize = 32

// ErrSecretTooShort is returned by [NewCodec] for secrets under [KeySize] bytes.
var ErrSecretTooShort = errors.New("state secret must be at least 32 bytes")

// Codec encrypts and decrypts state envelopes. It is safe for concurrent use.
type Codec struct {
	block cipher.Block
}

// NewCodec builds a codec keyed by the first [KeySize] bytes of secret.
// Longer secrets are truncated, not hashed.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < KeySize {
		return nil, ErrSecretTooShort
	}
	key := make([]byte, KeySize)
	copy(key, secret[:KeySize])

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Codec{block: block}, nil
}

// Encrypt seals sessionID under a fresh random IV and returns the wire form.
// The only failure is an unavailable randomness source.
func (c *Codec) Encrypt(sessionID string) (string, error) {
	iv, err := internal.NewIV()
	if err != nil {
		return "", fmt.Errorf("state iv: %w", err)
	}

	plain := pad([]byte(sessionID), aes.BlockSize)
	ct := make([]byte, len(plain))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ct, plain)

	return Envelope{IV: iv, Ciphertext: ct}.String(), nil
}

// Decrypt recovers the session identifier from envelope. Any parse, decrypt
// or padding failure reports ("", false).
func (c *Codec) Decrypt(envelope string) (string, bool) {
	env, err := ParseEnvelope(envelope)
	if err != nil {
		return "", false
	}

	plain := make([]byte, len(env.Ciphertext))
	cipher.NewCBCDecrypter(c.block, env.IV).CryptBlocks(plain, env.Ciphertext)

	out, ok := unpad(plain, aes.BlockSize)
	if !ok {
		return "", false
	}
	return string(out), true
}

func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, false
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
