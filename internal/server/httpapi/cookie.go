package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieOptions are the attributes of the session cookie.
type CookieOptions struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

// CookieCarrier puts the signed token on the response and takes it off again.
type CookieCarrier struct {
	opts CookieOptions
}

func NewCookieCarrier(opts CookieOptions) *CookieCarrier {
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteStrictMode
	}
	return &CookieCarrier{opts: opts}
}

// Attach sets the token cookie: HttpOnly, Path=/, expiring with the token.
func (cc *CookieCarrier) Attach(c *gin.Context, token string) {
	c.SetSameSite(cc.opts.SameSite)
	c.SetCookie(cc.opts.Name, token, int(cc.opts.MaxAge.Seconds()), "/", cc.opts.Domain, cc.opts.Secure, true)
}

// Clear expires the token cookie in the browser.
func (cc *CookieCarrier) Clear(c *gin.Context) {
	c.SetSameSite(cc.opts.SameSite)
	c.SetCookie(cc.opts.Name, "", -1, "/", cc.opts.Domain, cc.opts.Secure, true)
}

// Read returns the token sent by the client, or "" when there is none.
func (cc *CookieCarrier) Read(c *gin.Context) string {
	v, err := c.Cookie(cc.opts.Name)
	if err != nil {
		return ""
	}
	return v
}
