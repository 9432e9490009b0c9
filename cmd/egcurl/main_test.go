package main

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circumventures/edgegrid-curl/edgegrid"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "egrc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestAuthOnly(t *testing.T) {
	config := writeConfig(t,
		"[default]\nhost:api.example.com client_token:ct access_token:at secret:s3cr3t max-body:2048\n")

	t.Run("prints a header for the resolved credential", func(t *testing.T) {
		out, err := execute(t, "--config", config, "--auth-only", "https://api.example.com/v1/items")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(out, "EG1-HMAC-SHA256 client_token=ct;access_token=at;timestamp="), "got %q", out)
		assert.Contains(t, out, ";signature=")
	})

	t.Run("unmatched host fails", func(t *testing.T) {
		_, err := execute(t, "--config", config, "--auth-only", "https://other.example.net/")
		assert.ErrorIs(t, err, edgegrid.ErrNoHostMatch)
	})

	t.Run("unknown section fails", func(t *testing.T) {
		_, err := execute(t, "--config", config, "--section", "staging", "--auth-only", "https://api.example.com/")
		assert.ErrorIs(t, err, edgegrid.ErrSectionNotFound)
	})
}

func TestUsageErrors(t *testing.T) {
	config := writeConfig(t,
		"[default]\nhost:api.example.com client_token:ct access_token:at secret:s3cr3t max-body:2048\n")

	t.Run("conflicting methods", func(t *testing.T) {
		_, err := execute(t, "--config", config, "--auth-only",
			"-X", "PUT", "-X", "DELETE", "https://api.example.com/")
		assert.ErrorIs(t, err, edgegrid.ErrConflictingMethod)
	})

	t.Run("conflicting body sources", func(t *testing.T) {
		_, err := execute(t, "--config", config, "--auth-only",
			"-d", "a=1", "--data-binary", "raw", "https://api.example.com/")
		assert.ErrorIs(t, err, edgegrid.ErrConflictingBody)
	})

	t.Run("missing body file fails before dispatch", func(t *testing.T) {
		_, err := execute(t, "--config", config,
			"-d", "@"+filepath.Join(t.TempDir(), "nope"), "https://api.example.com/")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestBodyFromFlags(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		body, err := bodyFromFlags(&options{})
		require.NoError(t, err)
		assert.Nil(t, body)
	})

	t.Run("data flags select ascii mode", func(t *testing.T) {
		body, err := bodyFromFlags(&options{data: []string{"a=1"}})
		require.NoError(t, err)
		assert.Equal(t, edgegrid.BodyASCII, body.Mode)
	})

	t.Run("data-binary selects binary mode", func(t *testing.T) {
		body, err := bodyFromFlags(&options{dataBinary: []string{"raw"}})
		require.NoError(t, err)
		assert.Equal(t, edgegrid.BodyBinary, body.Mode)
	})

	t.Run("repeated data flags conflict", func(t *testing.T) {
		_, err := bodyFromFlags(&options{data: []string{"a=1", "b=2"}})
		assert.ErrorIs(t, err, edgegrid.ErrConflictingBody)
	})
}

func TestMethodFromFlags(t *testing.T) {
	t.Run("defaults to GET without a body", func(t *testing.T) {
		method, err := methodFromFlags(&options{}, nil)
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, method)
	})

	t.Run("defaults to POST with a body", func(t *testing.T) {
		method, err := methodFromFlags(&options{}, &edgegrid.Body{Data: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, method)
	})

	t.Run("upper-cases an explicit method", func(t *testing.T) {
		method, err := methodFromFlags(&options{methods: []string{"put"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, method)
	})
}

func TestParseHeaders(t *testing.T) {
	t.Run("splits name and value", func(t *testing.T) {
		headers, err := parseHeaders([]string{"X-Account: acct-1", "Accept: application/json"})
		require.NoError(t, err)
		assert.Equal(t, "acct-1", headers.Get("X-Account"))
		assert.Equal(t, "application/json", headers.Get("Accept"))
	})

	t.Run("missing colon", func(t *testing.T) {
		_, err := parseHeaders([]string{"not-a-header"})
		assert.Error(t, err)
	})
}

func TestLoadStore(t *testing.T) {
	t.Run("yaml extension selects the yaml parser", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "egrc.yaml")
		content := "sections:\n  default:\n    - host: h\n      client_token: c\n      access_token: a\n      secret: x\n      max_body: 1\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		store, err := loadStore(path)
		require.NoError(t, err)

		_, err = store.Resolve("default", "h")
		assert.NoError(t, err)
	})
}
