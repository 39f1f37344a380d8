// Package middleware exposes net/http middleware for mandatory and optional
// request authentication built on merchantauth.Engine.
//
// # Middleware
//
//   - [Require]: rejects with 401 {"error":"unauthorized","reason":...} on failure.
//   - [Optional]: always continues, attaching the principal only on success.
//   - [ClientIP]: records the remote address for audit events.
//
// Handlers read the result with merchantauth.AuthResultFromContext or
// merchantauth.PrincipalFromContext. Gin users should use the ginauth
// sub-package.
//
// # What this package must NOT do
//
//   - Parse tokens or session ids itself (delegates to Engine).
//   - Access Redis.
//   - Reveal the rejection reason in optional mode.
package middleware
