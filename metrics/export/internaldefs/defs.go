package internaldefs

import (
	"github.com/MrEthical07/merchantauth"
)

// CounterDef binds an Engine counter to its exported name.
type CounterDef struct {
	ID   merchantauth.MetricID
	Name string
	Help string
}

// HistogramDef binds an Engine histogram to its exported name.
type HistogramDef struct {
	ID   merchantauth.MetricID
	Name string
	Help string
}

// BucketCount is the number of histogram buckets, +Inf included.
const BucketCount = len(merchantauth.LatencyBucketBounds) + 1

// AuditDroppedName is the exported name of the audit backpressure counter.
const AuditDroppedName = "merchantauth_audit_dropped_total"

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: merchantauth.MetricSessionCreated, Name: "merchantauth_session_created_total", Help: "Created sessions."},
	{ID: merchantauth.MetricSessionCreateFailed, Name: "merchantauth_session_create_failed_total", Help: "Session creations that failed to persist."},
	{ID: merchantauth.MetricLogout, Name: "merchantauth_logout_total", Help: "Logout operations."},
	{ID: merchantauth.MetricAuthTokenSuccess, Name: "merchantauth_auth_token_success_total", Help: "Requests authenticated by bearer token."},
	{ID: merchantauth.MetricAuthSessionSuccess, Name: "merchantauth_auth_session_success_total", Help: "Requests authenticated by session header."},
	{ID: merchantauth.MetricAuthRequired, Name: "merchantauth_auth_required_total", Help: "Requests rejected for missing credentials."},
	{ID: merchantauth.MetricAuthInvalidToken, Name: "merchantauth_auth_invalid_token_total", Help: "Requests rejected for an invalid bearer token."},
	{ID: merchantauth.MetricAuthInvalidSessionState, Name: "merchantauth_auth_invalid_session_state_total", Help: "Requests rejected for a token without a session binding."},
	{ID: merchantauth.MetricAuthInvalidOrExpiredSession, Name: "merchantauth_auth_invalid_or_expired_session_total", Help: "Requests rejected for an absent, expired or mismatched session."},
	{ID: merchantauth.MetricOptionalAnonymous, Name: "merchantauth_optional_anonymous_total", Help: "Optional-mode requests that proceeded anonymously."},
	{ID: merchantauth.MetricStateEncrypted, Name: "merchantauth_state_encrypted_total", Help: "OAuth state envelopes produced."},
	{ID: merchantauth.MetricStateEncryptFailed, Name: "merchantauth_state_encrypt_failed_total", Help: "OAuth state envelopes that could not be produced."},
	{ID: merchantauth.MetricStateDecrypted, Name: "merchantauth_state_decrypted_total", Help: "OAuth state envelopes decrypted."},
	{ID: merchantauth.MetricStateRejected, Name: "merchantauth_state_rejected_total", Help: "OAuth state envelopes rejected."},
	{ID: merchantauth.MetricStateRestored, Name: "merchantauth_state_restored_total", Help: "Sessions restored from OAuth state."},
	{ID: merchantauth.MetricStoreDegraded, Name: "merchantauth_store_degraded_total", Help: "Session reads and deletes that absorbed a store fault."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: merchantauth.MetricAuthenticateLatency, Name: "merchantauth_authenticate_latency_seconds", Help: "Authenticate latency."},
}

// HistogramBoundSuffix names each bucket in instrument names that cannot
// carry labels.
var HistogramBoundSuffix = [BucketCount]string{
	"0_001",
	"0_002",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"inf",
}

// UpperBounds returns the finite bucket bounds in seconds.
func UpperBounds() []float64 {
	out := make([]float64, len(merchantauth.LatencyBucketBounds))
	for i, b := range merchantauth.LatencyBucketBounds {
		out[i] = b.Seconds()
	}
	return out
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling or
// truncating as needed.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
