package internal

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
)

const (
	// SessionIDSize is the number of random bytes behind a session identifier.
	SessionIDSize = 32
	// IVSize is the AES block size used for state envelopes.
	IVSize = 16
)

// Reader is the randomness source. Tests swap it to force entropy failures.
var Reader io.Reader = rand.Reader

// NewSessionID returns a fresh hex-encoded session identifier.
func NewSessionID() (string, error) {
	var raw [SessionIDSize]byte
	if _, err := io.ReadFull(Reader, raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}

// NewIV returns a fresh initialization vector.
func NewIV() ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(Reader, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// Truncate shortens an identifier for log output.
func Truncate(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

var errShortRead = errors.New("short random read")

// FailingReader is an io.Reader that always fails.
type FailingReader struct{}

func (FailingReader) Read([]byte) (int, error) {
	return 0, errShortRead
}
