package edgegrid

import (
	"net/http"
	"strings"
)

// Request is the read-only view of the HTTP request being signed.
type Request struct {
	// Method is the HTTP method. When empty it is inferred: POST when a
	// body is present, GET otherwise.
	Method string

	// Scheme and Host identify the request target.
	Scheme string
	Host   string

	// Path is the request path, including any query string the caller
	// wants covered by the signature. The root path is assumed when
	// empty.
	Path string

	// Headers carries the request headers consulted for the credential's
	// signed headers. Lookup is case-insensitive; populate with
	// http.Header.Set or Add so keys are in canonical form.
	Headers http.Header

	// Body is the request payload, if any.
	Body *Body
}

// method returns the effective request method, upper-cased.
func (r *Request) method() string {
	if r.Method == "" {
		if r.Body != nil {
			return http.MethodPost
		}

		return http.MethodGet
	}

	return strings.ToUpper(r.Method)
}

// canonicalRequest builds the tab-separated canonical representation of a
// request: method, scheme, host, path, the credential's signed headers and
// the content hash. This string is the message covered by the signature.
func canonicalRequest(cred Credential, req *Request) (string, error) {
	method := req.method()

	hash, err := contentHash(method, req.Body, cred.MaxBody)
	if err != nil {
		return "", err
	}

	path := req.Path
	if path == "" {
		path = "/"
	}

	fields := []string{
		method,
		req.Scheme,
		req.Host,
		path,
		canonicalHeaders(cred.SignedHeaders, req.Headers),
		hash,
	}

	return strings.Join(fields, "\t"), nil
}

// canonicalHeaders serializes the signed headers in the credential's
// order. Headers absent from the request or carrying an empty value are
// skipped rather than emitted empty. Emitted values have surrounding
// whitespace trimmed and internal whitespace runs collapsed to single
// spaces. The result carries a trailing empty field, so it always ends in
// a tab once joined into the canonical request.
func canonicalHeaders(signed []string, headers http.Header) string {
	entries := make([]string, 0, len(signed)+1)
	for _, name := range signed {
		value := headers.Get(name)
		if value == "" {
			continue
		}

		entries = append(entries, name+":"+collapseWhitespace(value))
	}

	entries = append(entries, "")

	return strings.Join(entries, "\t")
}

// collapseWhitespace trims value and replaces every internal run of
// whitespace with a single space. Idempotent: collapsing an already
// collapsed value returns it unchanged.
func collapseWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
