// Package session provides the Redis-backed session store and the compact
// binary session encoding used on the authentication hot path.
//
// # Expiry
//
// Records are written with SET EX [TTL] and also carry an ExpiresAt timestamp.
// [Store.Verify] enforces both: a key the store already evicted reads as absent,
// and a record whose timestamp has passed is deleted on first sight.
//
// # Failure model
//
// Writes fail loudly with [ErrStoreUnavailable]. Reads and deletes degrade:
// an unreachable store, a corrupt blob or a missing key all read as absent.
//
// # What this package must NOT do
//
//   - Import merchantauth, jwt or state (no upward imports).
//   - Interpret tokens or apply authentication policy.
//   - Extend a record's lifetime on read.
package session
