package common

// DefaultTokenCookieName is the cookie that carries the signed access token.
const DefaultTokenCookieName = "token"

// RequestIDHeaderName is echoed on every HTTP response and attached to log lines.
const RequestIDHeaderName = "X-Request-ID"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
