package middleware

// identity.go defines the context keys set by JWTAuth and the helpers
// that read them back.  Handlers and the rate limiter share these so the
// caller's identity has a single representation: a uint64 user id.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Context keys populated by JWTAuth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextRegNo  = "reg_no"
)

// UserID returns the authenticated user's id.  The boolean is false when
// the request carries no identity.
func UserID(c echo.Context) (uint64, bool) {
	switch t := c.Get(ContextUserID).(type) {
	case uint64:
		return t, t != 0
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil && n != 0 {
			return n, true
		}
	}
	return 0, false
}

// Role returns the authenticated user's role, or "" for guests.
func Role(c echo.Context) string {
	r, _ := c.Get(ContextRole).(string)
	return r
}

// currentUserID renders the caller for rate-limit keys.  It returns "anon"
// when no user is authenticated.
func currentUserID(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
