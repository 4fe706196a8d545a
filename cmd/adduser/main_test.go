package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	o, err := parseOptions([]string{"-d", "sqlite://x.db", "-email", "ana@x.com", "-role", "admin"})
	require.NoError(t, err)
	assert.Equal(t, options{name: "ana", email: "ana@x.com", role: "admin"}, o)

	o, err = parseOptions([]string{"--name=Ana Lima", "--email=a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", o.name)
	assert.Equal(t, "user", o.role)

	_, err = parseOptions([]string{"-name", "Ana"})
	assert.Error(t, err)
}

func TestReadPassword_FromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	w.Close()

	// a pipe is not a terminal, so the reader is used
	got, err := readPassword(int(r.Fd()), strings.NewReader("s3cret!\nignored\n"), &strings.Builder{})
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", got)

	got, err = readPassword(int(r.Fd()), strings.NewReader("no-newline"), &strings.Builder{})
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)
}
