package internaldefs

import (
	"strings"
	"testing"

	"github.com/MrEthical07/merchantauth"
)

func TestCounterDefsUnique(t *testing.T) {
	names := map[string]bool{}
	ids := map[merchantauth.MetricID]bool{}
	for _, def := range CounterDefs {
		if !strings.HasPrefix(def.Name, "merchantauth_") || !strings.HasSuffix(def.Name, "_total") {
			t.Fatalf("bad counter name %q", def.Name)
		}
		if names[def.Name] || ids[def.ID] {
			t.Fatalf("duplicate counter %q", def.Name)
		}
		if def.ID == merchantauth.MetricAuthenticateLatency {
			t.Fatal("latency histogram exported as counter")
		}
		names[def.Name] = true
		ids[def.ID] = true
	}
}

func TestBuckets(t *testing.T) {
	bounds := UpperBounds()
	if len(bounds) != BucketCount-1 || bounds[0] != 0.001 || bounds[len(bounds)-1] != 0.1 {
		t.Fatalf("unexpected bounds %v", bounds)
	}

	norm := NormalizeBuckets([]uint64{1, 2, 3})
	if norm[0] != 1 || norm[2] != 3 || norm[BucketCount-1] != 0 {
		t.Fatalf("unexpected normalized buckets %v", norm)
	}
	cum := CumulativeBuckets(norm)
	if cum[BucketCount-1] != 6 || cum[1] != 3 {
		t.Fatalf("unexpected cumulative buckets %v", cum)
	}
}
