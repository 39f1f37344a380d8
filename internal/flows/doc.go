// Package flows contains pure-function orchestrators for Engine operations.
//
// Each flow function (RunAuthenticate, RunLogout, RunRestore) accepts a typed
// dependency struct and returns a result value without side-effects beyond
// those dependencies. Failures are returned as a kind, not an error, so the
// Engine decides how to surface them.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the session store, the token verifier and
// the state codec. They do NOT own any of these resources; ownership stays
// with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import merchantauth (to avoid import cycles).
//   - Perform I/O directly. All I/O is mediated through dependency interfaces.
package flows
