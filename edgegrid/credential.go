package edgegrid

import (
	"fmt"
	"strconv"
)

// Credential identifies the party signing a request and controls how its
// requests are canonicalized. A Credential is immutable once resolved;
// exactly one is active per signing operation.
type Credential struct {
	// Host is the literal host prefix this credential applies to.
	Host string

	// ClientToken and AccessToken are the token pair issued alongside the
	// signing secret.
	ClientToken string
	AccessToken string

	// Secret is the shared signing secret. The signing key derivation
	// uses these bytes directly as the HMAC key.
	Secret []byte

	// MaxBody is the largest number of request body bytes covered by the
	// content hash. Longer bodies are truncated to MaxBody bytes before
	// hashing. Always positive.
	MaxBody int

	// SignedHeaders lists the request headers included in the canonical
	// request, in canonicalization order.
	SignedHeaders []string
}

// Field keys recognized on a credential configuration line.
const (
	fieldHost         = "host"
	fieldClientToken  = "client_token"
	fieldAccessToken  = "access_token"
	fieldSecret       = "secret"
	fieldMaxBody      = "max-body"
	fieldSignedHeader = "signed-header"
)

// credentialRecord accumulates the fields of a single credential line.
// Scalar fields may be set at most once; signed-header repeats. Required
// fields are checked by build, not at parse time, so an incomplete record
// only fails once it is actually selected for a host.
type credentialRecord struct {
	host        string
	clientToken string
	accessToken string
	secret      string
	maxBody     string
	headers     []string
}

// set merges one key:value field into the record.
func (r *credentialRecord) set(key, value string) error {
	switch key {
	case fieldHost:
		return setOnce(&r.host, key, value)

	case fieldClientToken:
		return setOnce(&r.clientToken, key, value)

	case fieldAccessToken:
		return setOnce(&r.accessToken, key, value)

	case fieldSecret:
		return setOnce(&r.secret, key, value)

	case fieldMaxBody:
		return setOnce(&r.maxBody, key, value)

	case fieldSignedHeader:
		r.headers = append(r.headers, value)
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
}

func setOnce(dst *string, key, value string) error {
	if *dst != "" {
		return fmt.Errorf("%w: %q", ErrDuplicateField, key)
	}

	*dst = value

	return nil
}

// build validates that every required field is present and assembles the
// Credential. Each missing field is reported by name.
func (r *credentialRecord) build() (Credential, error) {
	required := []struct {
		key, value string
	}{
		{fieldHost, r.host},
		{fieldClientToken, r.clientToken},
		{fieldAccessToken, r.accessToken},
		{fieldSecret, r.secret},
		{fieldMaxBody, r.maxBody},
	}

	for _, f := range required {
		if f.value == "" {
			return Credential{}, fmt.Errorf("%w: %q", ErrMissingField, f.key)
		}
	}

	maxBody, err := strconv.Atoi(r.maxBody)
	if err != nil || maxBody <= 0 {
		return Credential{}, fmt.Errorf("%w: max-body must be a positive integer, got %q", ErrMalformedField, r.maxBody)
	}

	return Credential{
		Host:          r.host,
		ClientToken:   r.clientToken,
		AccessToken:   r.accessToken,
		Secret:        []byte(r.secret),
		MaxBody:       maxBody,
		SignedHeaders: r.headers,
	}, nil
}
