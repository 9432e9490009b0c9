package edgegrid

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredential() Credential {
	return Credential{
		Host:        "example.com",
		ClientToken: "akab-client",
		AccessToken: "akab-access",
		Secret:      []byte("secret-key"),
		MaxBody:     2048,
	}
}

func TestCanonicalRequest(t *testing.T) {
	t.Run("minimal POST request", func(t *testing.T) {
		canonical, err := canonicalRequest(testCredential(), &Request{
			Method: "POST",
			Scheme: "http",
			Host:   "example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "POST\thttp\texample.com\t/\t\t", canonical)
	})

	t.Run("method is upper-cased", func(t *testing.T) {
		canonical, err := canonicalRequest(testCredential(), &Request{
			Method: "get",
			Scheme: "https",
			Host:   "example.com",
			Path:   "/v1",
		})
		require.NoError(t, err)
		assert.Equal(t, "GET\thttps\texample.com\t/v1\t\t", canonical)
	})

	t.Run("empty path becomes root", func(t *testing.T) {
		canonical, err := canonicalRequest(testCredential(), &Request{
			Method: "GET",
			Scheme: "https",
			Host:   "example.com",
		})
		require.NoError(t, err)
		assert.Contains(t, canonical, "\texample.com\t/\t")
	})

	t.Run("missing method is inferred from body", func(t *testing.T) {
		withBody, err := canonicalRequest(testCredential(), &Request{
			Scheme: "https",
			Host:   "example.com",
			Body:   &Body{Data: []byte("x")},
		})
		require.NoError(t, err)
		assert.True(t, len(withBody) > 4 && withBody[:5] == "POST\t")

		withoutBody, err := canonicalRequest(testCredential(), &Request{
			Scheme: "https",
			Host:   "example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "GET\thttps\texample.com\t/\t\t", withoutBody)
	})

	t.Run("content hash is appended for POST", func(t *testing.T) {
		canonical, err := canonicalRequest(testCredential(), &Request{
			Method: "POST",
			Scheme: "https",
			Host:   "example.com",
			Body:   &Body{Data: []byte("hello")},
		})
		require.NoError(t, err)
		assert.Equal(t, "POST\thttps\texample.com\t/\t\t"+helloHash, canonical)
	})

	t.Run("body file errors propagate", func(t *testing.T) {
		_, err := canonicalRequest(testCredential(), &Request{
			Method: "POST",
			Scheme: "https",
			Host:   "example.com",
			Body:   &Body{File: "/nonexistent/payload"},
		})
		assert.Error(t, err)
	})
}

func TestCanonicalHeaders(t *testing.T) {
	t.Run("follows the credential's header order", func(t *testing.T) {
		headers := make(http.Header)
		headers.Set("X-B", "2")
		headers.Set("X-A", "1")

		got := canonicalHeaders([]string{"x-a", "x-b"}, headers)
		assert.Equal(t, "x-a:1\tx-b:2\t", got)
	})

	t.Run("lookup is case-insensitive, output uses the configured name", func(t *testing.T) {
		headers := make(http.Header)
		headers.Set("X-Account", "acct-1")

		got := canonicalHeaders([]string{"x-account"}, headers)
		assert.Equal(t, "x-account:acct-1\t", got)
	})

	t.Run("absent headers are skipped, not emitted empty", func(t *testing.T) {
		headers := make(http.Header)
		headers.Set("X-B", "2")

		got := canonicalHeaders([]string{"x-a", "x-b", "x-c"}, headers)
		assert.Equal(t, "x-b:2\t", got)
	})

	t.Run("no signed headers yields a single empty field", func(t *testing.T) {
		got := canonicalHeaders(nil, make(http.Header))
		assert.Equal(t, "", got)
	})

	t.Run("whitespace runs collapse to single spaces", func(t *testing.T) {
		headers := make(http.Header)
		headers.Set("X-Test", "  some \t  value ")

		got := canonicalHeaders([]string{"x-test"}, headers)
		assert.Equal(t, "x-test:some value\t", got)
	})
}

func TestCollapseWhitespace(t *testing.T) {
	t.Run("trims and collapses", func(t *testing.T) {
		assert.Equal(t, "a b c", collapseWhitespace("  a \t b \n c  "))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := collapseWhitespace("  a \t b   c ")
		assert.Equal(t, once, collapseWhitespace(once))
	})
}
