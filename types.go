package merchantauth

import (
	"net/http"
	"strings"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID    string
	Email string
}

// AuthResult is a resolved principal together with the session it rides on.
type AuthResult struct {
	Principal Principal
	SessionID string
}

// Credentials are the raw request inputs used for authentication.
type Credentials struct {
	// Authorization is the full Authorization header value.
	Authorization string
	// SessionID is the session header value.
	SessionID string
}

// CredentialsFromRequest reads the Authorization header and the named session
// header. The header values are used as sent, except that surrounding
// whitespace on the session id is trimmed.
func CredentialsFromRequest(r *http.Request, sessionHeader string) Credentials {
	if r == nil {
		return Credentials{}
	}
	if sessionHeader == "" {
		sessionHeader = DefaultSessionHeader
	}
	return Credentials{
		Authorization: r.Header.Get("Authorization"),
		SessionID:     strings.TrimSpace(r.Header.Get(sessionHeader)),
	}
}

// TokenClaim is the verified payload of a bearer token. An empty SessionID
// means the token is not bound to a session.
type TokenClaim struct {
	UserID    string
	Email     string
	SessionID string
}

// TokenVerifier validates bearer tokens. Implementations must be safe for
// concurrent use. Any error is treated as an invalid token.
type TokenVerifier interface {
	VerifyToken(token string) (TokenClaim, error)
}

// TokenVerifierFunc adapts a function to [TokenVerifier].
type TokenVerifierFunc func(token string) (TokenClaim, error)

func (f TokenVerifierFunc) VerifyToken(token string) (TokenClaim, error) {
	return f(token)
}
