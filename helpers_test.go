package merchantauth

import (
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/merchantauth/jwt"
	"github.com/alicebob/miniredis/v2"
	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var testSecret = []byte("merchant-platform-shared-secret-0123456789")

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type engineFixture struct {
	engine *Engine
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	clock  *testClock
	tokens *jwt.Manager
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = testSecret
	cfg.JWT.Issuer = "merchant-test"
	return cfg
}

func newEngineFixture(t *testing.T, configure ...func(*Builder)) *engineFixture {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	clock := &testClock{now: time.Now()}

	b := New().WithConfig(testConfig()).WithRedis(rdb).WithClock(clock.Now)
	for _, fn := range configure {
		fn(b)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	tokens, err := jwt.NewManager(jwt.Config{Secret: testSecret, Issuer: "merchant-test"})
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	t.Cleanup(func() {
		engine.Close()
		rdb.Close()
		mr.Close()
	})
	return &engineFixture{engine: engine, mr: mr, rdb: rdb, clock: clock, tokens: tokens}
}

func (f *engineFixture) issue(t *testing.T, uid, email, sid string) string {
	t.Helper()
	tok, err := f.tokens.IssueAccess(uid, email, sid)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

// signUnbound signs a token carrying no session id.
func signUnbound(t *testing.T, uid, email string) string {
	t.Helper()
	tok, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, jwt.AccessClaims{
		UID:   uid,
		Email: email,
		RegisteredClaims: gjwt.RegisteredClaims{
			Issuer:    "merchant-test",
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}
