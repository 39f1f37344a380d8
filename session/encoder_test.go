package session

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	login := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	in := &Session{
		SessionID: "ignored",
		UserID:    "merchant-42",
		Email:     "owner@shop.example",
		LoginTime: login,
		ExpiresAt: login.Add(TTL),
	}

	blob, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if blob[0] != CurrentSchemaVersion {
		t.Fatalf("expected schema byte %d, got %d", CurrentSchemaVersion, blob[0])
	}

	out, err := Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SessionID != "" {
		t.Fatalf("session id must not be encoded, got %q", out.SessionID)
	}
	if out.UserID != in.UserID || out.Email != in.Email {
		t.Fatalf("identity mismatch: %+v", out)
	}
	if !out.LoginTime.Equal(in.LoginTime) || !out.ExpiresAt.Equal(in.ExpiresAt) {
		t.Fatalf("timestamps mismatch: %+v", out)
	}
}

func TestDecodeRejectsUnsupportedSchemaVersion(t *testing.T) {
	_, err := Decode([]byte{99})
	if err == nil || !strings.Contains(err.Error(), "unsupported session schema version") {
		t.Fatalf("expected unsupported schema version error, got %v", err)
	}
}

func TestDecodeRejectsTruncatedAndTrailing(t *testing.T) {
	blob, err := Encode(&Session{UserID: "u", Email: "e", LoginTime: time.Unix(0, 1), ExpiresAt: time.Unix(0, 2)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	for i := 0; i < len(blob); i++ {
		if _, err := Decode(blob[:i]); err == nil {
			t.Fatalf("expected truncation at %d to fail", i)
		}
	}
	if _, err := Decode(append(append([]byte{}, blob...), 0)); err == nil {
		t.Fatal("expected trailing byte to fail")
	}
}

func TestEncodeRejectsOversizedField(t *testing.T) {
	if _, err := Encode(&Session{UserID: strings.Repeat("x", maxFieldLen+1)}); err == nil {
		t.Fatal("expected oversized user id to fail")
	}
}

// FuzzSessionDecode exercises the binary session decoder with arbitrary inputs.
func FuzzSessionDecode(f *testing.F) {
	encoded, err := Encode(&Session{
		UserID:    "user1",
		Email:     "user1@example.com",
		LoginTime: time.Unix(1700000000, 0),
		ExpiresAt: time.Unix(1700000000, 0).Add(TTL),
	})
	if err == nil {
		f.Add(encoded)
		f.Add(encoded[:10])
	}
	f.Add([]byte{})
	f.Add([]byte{CurrentSchemaVersion})
	f.Add([]byte{CurrentSchemaVersion, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := Decode(data)
		if err != nil {
			return
		}
		if _, err := Encode(s); err != nil {
			t.Fatalf("re-encode of decoded session failed: %v", err)
		}
	})
}
