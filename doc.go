// Package merchantauth authenticates merchant-platform requests by either a
// signed bearer token or a server-side session identifier, and carries the
// session across OAuth redirects inside an encrypted state parameter.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Resolution order
//
// A request is resolved by exactly one credential. An Authorization header
// starting with "Bearer " always selects the token path, even when the token
// fails. Otherwise a non-empty session header selects the session path. A
// token must name a live session owned by the same user.
//
// # Architecture boundaries
//
// merchantauth is the public surface. It exposes [Engine], [Builder], [Config]
// and value types (Principal, AuthResult, MetricsSnapshot). Flow orchestration
// and audit dispatch live under internal/; Redis persistence lives in session/,
// state encryption in state/ and token verification in jwt/.
//
// # What this package must NOT do
//
//   - Expose Redis clients or encoded session blobs in its public API.
//   - Retry store operations or fall back to another credential.
//   - Extend a session's lifetime on read.
package merchantauth
