package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/MrEthical07/merchantauth"
)

// Authenticator is the subset of [merchantauth.Engine] the middleware uses.
type Authenticator interface {
	Authenticate(ctx context.Context, creds merchantauth.Credentials) (*merchantauth.AuthResult, error)
	TryAuthenticate(ctx context.Context, creds merchantauth.Credentials) (*merchantauth.AuthResult, bool)
	SessionHeader() string
}

// UnauthorizedBody is the JSON body written on mandatory-mode rejection.
type UnauthorizedBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Require rejects requests that do not authenticate with 401 and a JSON
// reason, and attaches the result to the request context otherwise.
func Require(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				WriteUnauthorized(w, merchantauth.ErrEngineNotReady)
				return
			}

			creds := merchantauth.CredentialsFromRequest(r, auth.SessionHeader())
			res, err := auth.Authenticate(r.Context(), creds)
			if err != nil {
				WriteUnauthorized(w, err)
				return
			}

			ctx := merchantauth.WithAuthResult(r.Context(), res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional attaches the result when the request authenticates and always
// continues the chain.
func Optional(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth == nil {
				next.ServeHTTP(w, r)
				return
			}

			creds := merchantauth.CredentialsFromRequest(r, auth.SessionHeader())
			if res, ok := auth.TryAuthenticate(r.Context(), creds); ok {
				r = r.WithContext(merchantauth.WithAuthResult(r.Context(), res))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WriteUnauthorized writes the 401 rejection for err.
func WriteUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(UnauthorizedBody{
		Error:  "unauthorized",
		Reason: merchantauth.ReasonOf(err),
	})
}

// ClientIP stores the request's remote address on the context for audit
// events. Deployments behind a proxy should install their own resolver.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(merchantauth.WithClientIP(r.Context(), ip)))
	})
}
