package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

const (
	// CurrentSchemaVersion is the leading byte written by [Encode].
	CurrentSchemaVersion = 1

	maxFieldLen = 1<<16 - 1
)

var errFieldTooLong = errors.New("session field too long")

// Encode serializes a [Session] into the compact binary form stored in Redis.
//
// Layout: version byte, uint16-prefixed UserID, uint16-prefixed Email,
// big-endian unix-nano LoginTime and ExpiresAt.
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}

	var buf bytes.Buffer
	buf.Grow(1 + 2 + len(s.UserID) + 2 + len(s.Email) + 16)
	buf.WriteByte(CurrentSchemaVersion)

	if err := writeString(&buf, s.UserID); err != nil {
		return nil, fmt.Errorf("userID: %w", err)
	}
	if err := writeString(&buf, s.Email); err != nil {
		return nil, fmt.Errorf("email: %w", err)
	}

	var ts [16]byte
	binary.BigEndian.PutUint64(ts[0:8], uint64(s.LoginTime.UnixNano()))
	binary.BigEndian.PutUint64(ts[8:16], uint64(s.ExpiresAt.UnixNano()))
	buf.Write(ts[:])

	return buf.Bytes(), nil
}

// Decode parses a blob produced by [Encode]. Trailing bytes are rejected.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported session schema version %d", version)
	}

	s := &Session{}
	if s.UserID, err = readString(reader); err != nil {
		return nil, err
	}
	if s.Email, err = readString(reader); err != nil {
		return nil, err
	}

	var loginNano, expiresNano int64
	if err := binary.Read(reader, binary.BigEndian, &loginNano); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &expiresNano); err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes in session blob")
	}

	s.LoginTime = time.Unix(0, loginNano).UTC()
	s.ExpiresAt = time.Unix(0, expiresNano).UTC()
	return s, nil
}

func writeString(buf *bytes.Buffer, v string) error {
	if len(v) > maxFieldLen {
		return errFieldTooLong
	}
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(v)))
	buf.Write(n[:])
	buf.WriteString(v)
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if int(n) > r.Len() {
		return "", io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
