// Package audit implements async event dispatching for session and
// authentication outcomes.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, slog, fan-out, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full or block-if-full semantics.
//   - [Event]: audit record with id, timestamp, type, user, truncated session, IP, reason.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which
// events to emit; that belongs to the Engine.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import merchantauth or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
