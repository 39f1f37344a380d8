package state

import (
	"crypto/aes"
	"encoding/hex"
	"errors"
	"strings"
)

const separator = ":"

var (
	errEnvelopeFormat = errors.New("state envelope must have exactly two parts")
	errEnvelopeIV     = errors.New("state envelope iv must be one block")
	errEnvelopeBody   = errors.New("state envelope ciphertext must be whole blocks")
)

// Envelope is the parsed form of an encrypted state parameter.
type Envelope struct {
	IV         []byte
	Ciphertext []byte
}

// String renders the envelope in its wire form.
func (e Envelope) String() string {
	return hex.EncodeToString(e.IV) + separator + hex.EncodeToString(e.Ciphertext)
}

// ParseEnvelope parses the wire form. It requires exactly one separator, two
// hex parts, a 16-byte IV and a non-empty ciphertext that is a multiple of the
// block size.
func ParseEnvelope(s string) (Envelope, error) {
	parts := strings.Split(s, separator)
	if len(parts) != 2 {
		return Envelope{}, errEnvelopeFormat
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return Envelope{}, err
	}
	if len(iv) != aes.BlockSize {
		return Envelope{}, errEnvelopeIV
	}

	ct, err := hex.DecodeString(parts[1])
	if err != nil {
		return Envelope{}, err
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return Envelope{}, errEnvelopeBody
	}

	return Envelope{IV: iv, Ciphertext: ct}, nil
}
