package edgegrid

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"golang.org/x/net/idna"
)

// Transport is an http.RoundTripper that resolves a credential for each
// outgoing request's host, signs the request and injects the Authorization
// header before delegating to its base transport.
type Transport struct {
	base    http.RoundTripper
	store   *Store
	section string
}

// NewTransport creates a signing Transport resolving credentials from the
// named section of store. When base is nil, a clone of
// http.DefaultTransport is used, giving an independent connection pool
// with default proxy, TLS and timeout settings.
func NewTransport(base *http.Transport, store *Store, section string) *Transport {
	var rt http.RoundTripper
	if base != nil {
		rt = base
	} else {
		rt = http.DefaultTransport.(*http.Transport).Clone()
	}

	return &Transport{
		base:    rt,
		store:   store,
		section: section,
	}
}

// RoundTrip signs the request and then delegates to the base transport.
// The original request is cloned before the Authorization header is set.
// When GetBody is available, the clone receives its own body copy so that
// hashing does not consume the caller's body.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if clone.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}

		clone.Body = body
	}

	host, err := NormalizeHost(requestHost(clone))
	if err != nil {
		return nil, err
	}

	cred, err := t.store.Resolve(t.section, host)
	if err != nil {
		return nil, err
	}

	signReq, err := fromHTTPRequest(clone, host)
	if err != nil {
		return nil, err
	}

	header, err := Sign(signReq, SignConfig{Credential: cred})
	if err != nil {
		return nil, err
	}

	clone.Header.Set("Authorization", header)

	return t.base.RoundTrip(clone)
}

// fromHTTPRequest builds the signing view of an http.Request. The body is
// read in full for hashing and replaced with a fresh reader so the base
// transport can still send it.
func fromHTTPRequest(r *http.Request, host string) (*Request, error) {
	var body *Body
	if r.Body != nil && r.Body != http.NoBody {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}

		r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(data))

		if len(data) > 0 {
			body = &Body{Data: data}
		}
	}

	path := r.URL.Path
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}

	return &Request{
		Method:  r.Method,
		Scheme:  strings.ToLower(r.URL.Scheme),
		Host:    host,
		Path:    path,
		Headers: r.Header,
		Body:    body,
	}, nil
}

// requestHost returns the host the request targets, preferring the Host
// header field over the URL.
func requestHost(r *http.Request) string {
	if r.Host != "" {
		return r.Host
	}

	return r.URL.Host
}

// NormalizeHost lowercases host, strips any port, and converts
// internationalized names to their ASCII (punycode) form, so that
// credential resolution and canonicalization always see the wire-format
// host. The prefix match in Store.Resolve stays byte-literal.
func NormalizeHost(host string) (string, error) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	host = strings.ToLower(host)
	if isASCII(host) {
		return host, nil
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("edgegrid: normalizing host %q: %w", host, err)
	}

	return ascii, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}

	return true
}
