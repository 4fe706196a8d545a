package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PublicDropsPasswordHash(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{ID: "id-1", Name: "Ana", Email: "a@x.com", PasswordHash: "$2a$10$hash", Role: "user", CreatedAt: created}

	p := u.Public()
	assert.Equal(t, &PublicUser{ID: "id-1", Name: "Ana", Email: "a@x.com", Role: "user", CreatedAt: created}, p)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
	assert.NotContains(t, string(b), "password")
}
