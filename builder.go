package merchantauth

import (
	"errors"
	"io"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/merchantauth/internal/audit"
	"github.com/MrEthical07/merchantauth/internal/flows"
	"github.com/MrEthical07/merchantauth/session"
	"github.com/MrEthical07/merchantauth/state"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. A Builder can be built once.
type Builder struct {
	config   Config
	redis    redis.UniversalClient
	verifier TokenVerifier
	logger   *slog.Logger
	now      func() time.Time

	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration. Byte slices are copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the session store client. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithTokenVerifier replaces the built-in JWT verifier.
func (b *Builder) WithTokenVerifier(v TokenVerifier) *Builder {
	b.verifier = v
	return b
}

// WithLogger sets the structured logger for degraded store operations.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithClock overrides the session store time source.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithAuditSink sets the audit destination and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the Engine.
//
// Build may return an error when the Redis client is missing, the
// configuration is invalid, or the built-in verifier cannot be constructed.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// -------- TOKEN VERIFIER --------
	verifier := b.verifier
	if verifier == nil {
		manager, err := newJWTManager(cfg.JWT)
		if err != nil {
			return nil, err
		}
		verifier = NewJWTVerifier(manager)
	}

	// -------- STATE CODEC --------
	codec, err := state.NewCodec(cfg.stateSecret())
	if err != nil {
		return nil, err
	}

	metrics := NewMetrics(cfg.Metrics)

	// -------- SESSION STORE --------
	storeOpts := []session.Option{
		session.WithLogger(logger),
		session.WithDegradedHook(func(string, error) {
			metrics.Inc(MetricStoreDegraded)
		}),
	}
	if b.now != nil {
		storeOpts = append(storeOpts, session.WithClock(b.now))
	}
	store := session.NewStore(b.redis, cfg.Session.RedisPrefix, storeOpts...)

	e := &Engine{
		config:   cfg,
		store:    store,
		codec:    codec,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger,
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}

	// -------- FLOWS --------
	e.flows = flows.New(flows.Deps{
		Authenticate: flows.AuthenticateDeps{
			VerifyToken:  e.verifyToken,
			SessionStore: store,
		},
		Logout: flows.LogoutDeps{
			SessionStore: store,
		},
		Restore: flows.RestoreDeps{
			DecryptState: codec.Decrypt,
			SessionStore: store,
		},
	})

	b.built = true
	return e, nil
}
