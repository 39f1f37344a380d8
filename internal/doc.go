// Package internal contains helpers that are private to merchantauth,
// including secure random generation for session identifiers and state IVs.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - flows: pure-function resolvers for authenticate, logout and state restore
//
// # What this package must NOT do
//
//   - Export types that appear in the public merchantauth API.
//   - Be imported by any package outside the merchantauth module.
package internal
