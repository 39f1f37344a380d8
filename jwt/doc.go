// Package jwt verifies merchant access tokens and issues them for login flows.
//
// Tokens carry the user id, email and the session id they are bound to. The
// package validates signatures, algorithm, expiry, issuer and audience; it
// does not consult the session store.
package jwt
