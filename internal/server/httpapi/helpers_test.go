package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUserService struct {
	signupOut *models.PublicUser
	signupErr error
	gotSignup services.SignupInput

	authOut *models.PublicUser
	authErr error
}

func (s *stubUserService) Signup(ctx context.Context, in services.SignupInput) (*models.PublicUser, error) {
	s.gotSignup = in
	return s.signupOut, s.signupErr
}

func (s *stubUserService) Authenticate(ctx context.Context, creds services.Credentials) (*models.PublicUser, error) {
	return s.authOut, s.authErr
}

func newTestIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	ti, err := auth.NewTokenIssuer("test-secret", "authkeeper", time.Hour)
	require.NoError(t, err)
	return ti
}

func newTestCarrier() *CookieCarrier {
	return NewCookieCarrier(CookieOptions{Name: "token", MaxAge: time.Hour})
}

func newTestRouter(t *testing.T, us UserService, tokens Tokens) *gin.Engine {
	t.Helper()
	h := NewHandler(us, tokens, newTestCarrier(), logging.Nop())
	return NewRouter(h, nil, logging.Nop())
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
