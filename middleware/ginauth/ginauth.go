// Package ginauth adapts merchantauth authentication to gin handlers.
package ginauth

import (
	"net/http"

	"github.com/MrEthical07/merchantauth"
	"github.com/MrEthical07/merchantauth/middleware"
	"github.com/gin-gonic/gin"
)

// ResultKey is the gin context key holding *merchantauth.AuthResult.
const ResultKey = "merchantauth_result"

// Require aborts with 401 {"error":"unauthorized","reason":...} unless the
// request authenticates.
func Require(auth middleware.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil {
			abort(c, merchantauth.ErrEngineNotReady)
			return
		}

		creds := merchantauth.CredentialsFromRequest(c.Request, auth.SessionHeader())
		res, err := auth.Authenticate(c.Request.Context(), creds)
		if err != nil {
			abort(c, err)
			return
		}

		attach(c, res)
		c.Next()
	}
}

// Optional attaches the result when the request authenticates and always
// continues.
func Optional(auth middleware.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth != nil {
			creds := merchantauth.CredentialsFromRequest(c.Request, auth.SessionHeader())
			if res, ok := auth.TryAuthenticate(c.Request.Context(), creds); ok {
				attach(c, res)
			}
		}
		c.Next()
	}
}

// Result returns the authentication result stored by Require or Optional.
func Result(c *gin.Context) (*merchantauth.AuthResult, bool) {
	val, exists := c.Get(ResultKey)
	if !exists {
		return nil, false
	}
	res, ok := val.(*merchantauth.AuthResult)
	return res, ok && res != nil
}

func attach(c *gin.Context, res *merchantauth.AuthResult) {
	c.Set(ResultKey, res)
	c.Request = c.Request.WithContext(merchantauth.WithAuthResult(c.Request.Context(), res))
}

func abort(c *gin.Context, err error) {
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.UnauthorizedBody{
		Error:  "unauthorized",
		Reason: merchantauth.ReasonOf(err),
	})
}
