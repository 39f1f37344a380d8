package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/merchantauth"
	"github.com/MrEthical07/merchantauth/jwt"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const loadSecret = "merchantauth-loadtest-secret-0123456789abcdef"

type seeded struct {
	sid   string
	token string
	state string
}

type operation func(ctx context.Context, s seeded) bool

func main() {
	var (
		sessions    = flag.Int("sessions", 10000, "number of sessions to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "ms", "session key prefix")
	)
	flag.Parse()

	if *sessions <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := merchantauth.DefaultConfig()
	cfg.JWT.Secret = []byte(loadSecret)
	cfg.Session.RedisPrefix = *prefix
	engine, err := merchantauth.New().WithConfig(cfg).WithRedis(client).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	tokens, err := jwt.NewManager(jwt.Config{Secret: cfg.JWT.Secret, AccessTTL: time.Hour})
	if err != nil {
		fmt.Fprintf(os.Stderr, "token manager: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seeding %d sessions...\n", *sessions)
	startSeed := time.Now()
	states, err := seed(ctx, engine, tokens, *sessions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	sessionOp := func(ctx context.Context, s seeded) bool {
		_, err := engine.Authenticate(ctx, merchantauth.Credentials{SessionID: s.sid})
		return err == nil
	}
	tokenOp := func(ctx context.Context, s seeded) bool {
		_, err := engine.Authenticate(ctx, merchantauth.Credentials{Authorization: "Bearer " + s.token})
		return err == nil
	}
	stateOp := func(ctx context.Context, s seeded) bool {
		_, ok := engine.RestoreFromState(ctx, s.state)
		return ok
	}

	results := []struct {
		name  string
		stats phaseStats
	}{
		{"session", runPhase(ctx, states, *ops, *concurrency, sessionOp)},
		{"token", runPhase(ctx, states, *ops, *concurrency, tokenOp)},
		{"state", runPhase(ctx, states, *ops, *concurrency, stateOp)},
	}

	fmt.Println("---- results ----")
	for _, r := range results {
		printStats(r.name, r.stats)
	}

	snap := engine.MetricsSnapshot()
	fmt.Printf("engine: token_ok=%d session_ok=%d store_degraded=%d\n",
		snap.Counters[merchantauth.MetricAuthTokenSuccess],
		snap.Counters[merchantauth.MetricAuthSessionSuccess],
		snap.Counters[merchantauth.MetricStoreDegraded],
	)
}

func seed(ctx context.Context, engine *merchantauth.Engine, tokens *jwt.Manager, n int) ([]seeded, error) {
	out := make([]seeded, n)
	for i := 0; i < n; i++ {
		uid := fmt.Sprintf("u%d", i)
		sid, err := engine.CreateSession(ctx, uid, uid+"@example.com")
		if err != nil {
			return nil, err
		}
		token, err := tokens.IssueAccess(uid, uid+"@example.com", sid)
		if err != nil {
			return nil, err
		}
		state, err := engine.EncryptState(sid)
		if err != nil {
			return nil, err
		}
		out[i] = seeded{sid: sid, token: token, state: state}
	}
	return out, nil
}

func runPhase(ctx context.Context, states []seeded, ops, concurrency int, op operation) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			local := make([]time.Duration, 0, ops/concurrency+1)
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					break
				}
				s := states[r.Intn(len(states))]
				t0 := time.Now()
				ok := op(ctx, s)
				local = append(local, time.Since(t0))
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
			}
			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
