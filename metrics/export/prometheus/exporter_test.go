package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/merchantauth"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeSource struct {
	snapshot merchantauth.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() merchantauth.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                          { return f.dropped }

func newSource() fakeSource {
	return fakeSource{
		snapshot: merchantauth.MetricsSnapshot{
			Counters: map[merchantauth.MetricID]uint64{
				merchantauth.MetricSessionCreated:     3,
				merchantauth.MetricAuthTokenSuccess:   2,
				merchantauth.MetricAuthSessionSuccess: 1,
			},
			Histograms: map[merchantauth.MetricID]merchantauth.HistogramSnapshot{
				merchantauth.MetricAuthenticateLatency: {
					Buckets: []uint64{1, 0, 1, 0, 0, 0, 0, 1},
					Sum:     250 * time.Millisecond,
				},
			},
		},
		dropped: 4,
	}
}

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	srv := httptest.NewServer(Handler(c))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestCollectorExposesCounters(t *testing.T) {
	c := NewCollectorFromSource(newSource())

	if n := testutil.CollectAndCount(c, "merchantauth_session_created_total"); n != 1 {
		t.Fatalf("expected one session_created series, got %d", n)
	}

	body := scrape(t, c)
	for _, want := range []string{
		"merchantauth_session_created_total 3",
		"merchantauth_auth_token_success_total 2",
		"merchantauth_auth_session_success_total 1",
		"merchantauth_logout_total 0",
		"merchantauth_audit_dropped_total 4",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}

func TestCollectorExposesHistogram(t *testing.T) {
	body := scrape(t, NewCollectorFromSource(newSource()))
	for _, want := range []string{
		"# TYPE merchantauth_authenticate_latency_seconds histogram",
		`merchantauth_authenticate_latency_seconds_bucket{le="0.001"} 1`,
		`merchantauth_authenticate_latency_seconds_bucket{le="0.005"} 2`,
		`merchantauth_authenticate_latency_seconds_bucket{le="0.1"} 2`,
		`merchantauth_authenticate_latency_seconds_bucket{le="+Inf"} 3`,
		"merchantauth_authenticate_latency_seconds_sum 0.25",
		"merchantauth_authenticate_latency_seconds_count 3",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	c := NewCollectorFromSource(fakeSource{snapshot: merchantauth.MetricsSnapshot{}})
	if n := testutil.CollectAndCount(c); n == 0 {
		t.Fatal("expected zero-valued series for an empty snapshot")
	}
}

func TestCollectorNilSource(t *testing.T) {
	c := NewCollectorFromSource(nil)
	if n := testutil.CollectAndCount(c); n != 0 {
		t.Fatalf("expected no series, got %d", n)
	}
}
