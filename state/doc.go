// Package state carries a session identifier across an external OAuth
// redirect by encrypting it into the opaque state parameter.
//
// The envelope is AES-256-CBC with PKCS#7 padding, written as
// hex(iv) + ":" + hex(ciphertext). There is no MAC: tamper detection relies on
// padding validation and on the recovered identifier having to match a live
// session record.
//
// [Codec.Decrypt] is fail-soft. Every malformed, truncated or undecryptable
// envelope reports absent and never panics.
package state
