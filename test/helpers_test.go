//go:build integration
// +build integration

package test

import (
	"context"
	"net"
	"sync/atomic"
	"testing"

	"github.com/MrEthical07/merchantauth"
	"github.com/MrEthical07/merchantauth/jwt"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const integrationSecret = "integration-suite-secret-0123456789abcdef"

// cmdCounter is a go-redis Hook counting Redis commands.
type cmdCounter struct {
	commands atomic.Int64
	names    atomic.Value
}

func (h *cmdCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *cmdCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.commands.Add(1)
		h.names.Store(cmd.Name())
		return next(ctx, cmd)
	}
}

func (h *cmdCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		h.commands.Add(int64(len(cmds)))
		return next(ctx, cmds)
	}
}

func (h *cmdCounter) Reset()          { h.commands.Store(0) }
func (h *cmdCounter) Commands() int64 { return h.commands.Load() }

// Last returns the name of the most recent command.
func (h *cmdCounter) Last() string {
	name, _ := h.names.Load().(string)
	return name
}

func newIntegrationEngine(t *testing.T, rdb redis.UniversalClient) (*merchantauth.Engine, *jwt.Manager) {
	t.Helper()

	cfg := merchantauth.DefaultConfig()
	cfg.JWT.Secret = []byte(integrationSecret)
	engine, err := merchantauth.New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	tokens, err := jwt.NewManager(jwt.Config{Secret: cfg.JWT.Secret})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	return engine, tokens
}

// newCountedEngine returns an engine over miniredis with a command counter
// installed after connection warmup.
func newCountedEngine(t *testing.T) (*merchantauth.Engine, *jwt.Manager, *miniredis.Miniredis, *cmdCounter) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	counter := &cmdCounter{}
	rdb.AddHook(counter)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("warmup ping: %v", err)
	}
	counter.Reset()

	engine, tokens := newIntegrationEngine(t, rdb)
	return engine, tokens, mr, counter
}
