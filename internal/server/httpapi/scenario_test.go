package httpapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newStackRouter wires the real service, bcrypt, JWT and an in-memory SQLite.
func newStackRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()

	db, m, err := repomanager.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, m.RunMigrations(ctx, db))

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	us := services.NewUserService(db, m, hasher, logging.Nop())
	return NewRouter(NewHandler(us, newTestIssuer(t), newTestCarrier(), logging.Nop()), nil, logging.Nop())
}

// TestScenario_Ana drives the full stack (gin, service, bcrypt, JWT, SQLite).
func TestScenario_Ana(t *testing.T) {
	r := newStackRouter(t)

	ana := map[string]string{"name": "Ana", "email": "a@x.com", "password": "secret1"}

	w := doJSON(t, r, http.MethodPost, "/api/auth/sign-up", ana)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Ana", user["name"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")

	w = doJSON(t, r, http.MethodPost, "/api/auth/sign-up", ana)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Email already exist"}`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	session := findCookie(w, "token")
	require.NotNil(t, session)
	require.NotEmpty(t, session.Value)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user["id"], decode(t, w)["user"].(map[string]any)["id"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "a@x.com", "password": "wrong-pw"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	wrongBody := w.Body.String()

	w = doJSON(t, r, http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "nobody@x.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongBody, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/sign-out", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := findCookie(w, "token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)
}

func TestSignIn_PasswordWithExtraSuffixIsRejected(t *testing.T) {
	r := newStackRouter(t)

	pw := strings.Repeat("p", auth.MaxPasswordBytes)
	w := doJSON(t, r, http.MethodPost, "/api/auth/sign-up", map[string]string{"name": "Ana", "email": "a@x.com", "password": pw})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "a@x.com", "password": pw})
	require.Equal(t, http.StatusOK, w.Code)

	for _, candidate := range []string{pw + "x", pw + "-anything-at-all"} {
		w = doJSON(t, r, http.MethodPost, "/api/auth/sign-in", map[string]string{"email": "a@x.com", "password": candidate})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%d-byte password", len(candidate))
		assert.JSONEq(t, `{"error":"Invalid email or password"}`, w.Body.String())
		assert.Nil(t, findCookie(w, "token"))
	}
}
