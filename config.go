package merchantauth

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/merchantauth/session"
	"github.com/MrEthical07/merchantauth/state"
)

// DefaultSessionHeader is the request header that carries a session identifier.
const DefaultSessionHeader = "X-Session-ID"

// Config holds every Engine setting. Build it from [DefaultConfig] and
// override the fields that differ.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	JWT     JWTConfig
	Session SessionConfig
	State   StateConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the built-in bearer token verifier. It is ignored when
// a verifier is supplied through [Builder.WithTokenVerifier].
type JWTConfig struct {
	SigningMethod string // "hs256" (default) or "ed25519"
	Secret        []byte
	PublicKey     []byte
	PrivateKey    []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
	AccessTTL     time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig configures the session store and its wire header.
//
// The session lifetime is fixed at [session.TTL] and is not configurable.
type SessionConfig struct {
	RedisPrefix string
	Header      string
}

/*
====================================
STATE CONFIG
====================================
*/

// StateConfig configures the OAuth state codec. An empty Secret falls back to
// JWT.Secret. Only the first 32 bytes are used as the key.
type StateConfig struct {
	Secret []byte
}

/*
====================================
OBSERVABILITY CONFIG
====================================
*/

// AuditConfig controls asynchronous audit dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters and the authenticate latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns a Config with every non-secret field populated.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SigningMethod: "hs256",
			Leeway:        5 * time.Second,
			AccessTTL:     15 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix: session.DefaultPrefix,
			Header:      DefaultSessionHeader,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.State.Secret = cloneBytes(cfg.State.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// stateSecret returns the secret the state codec is keyed with.
func (c *Config) stateSecret() []byte {
	if len(c.State.Secret) > 0 {
		return c.State.Secret
	}
	return c.JWT.Secret
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks settings that do not depend on injected collaborators.
// Key material for the built-in verifier is checked by [Builder.Build].
func (c *Config) Validate() error {
	// JWT
	switch c.JWT.SigningMethod {
	case "hs256", "ed25519":
	default:
		return errors.New("unsupported JWT signing method")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be within [0, 2m]")
	}
	if c.JWT.AccessTTL < 0 {
		return errors.New("JWT AccessTTL must be >= 0")
	}

	// Session
	if strings.TrimSpace(c.Session.RedisPrefix) == "" {
		return errors.New("Session RedisPrefix must be set")
	}
	if strings.ContainsAny(c.Session.RedisPrefix, " \t\r\n") {
		return errors.New("Session RedisPrefix must not contain whitespace")
	}
	if !validHeaderName(c.Session.Header) {
		return errors.New("Session Header must be a valid HTTP header name")
	}
	if strings.EqualFold(c.Session.Header, "Authorization") {
		return errors.New("Session Header must differ from Authorization")
	}

	// State
	if len(c.stateSecret()) < state.KeySize {
		return errors.New("State Secret (or JWT Secret fallback) must be at least 32 bytes")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}

func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case strings.IndexByte("!#$%&'*+-.^_`|~", ch) >= 0:
		default:
			return false
		}
	}
	return true
}
