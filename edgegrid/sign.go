package edgegrid

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// authScheme is the authentication scheme identifier carried in the
// produced header.
const authScheme = "EG1-HMAC-SHA256"

// timestampFormat renders the signing time in UTC with second precision,
// e.g. 20130101T00:00:00+0000.
const timestampFormat = "20060102T15:04:05+0000"

// SignConfig configures a single signing operation.
type SignConfig struct {
	// Credential signs the request. Required; must be fully resolved
	// (Store.Resolve guarantees this).
	Credential Credential

	// Timestamp overrides the signing time. When zero, time.Now() is
	// used. Mostly useful for reproducing signatures in tests.
	Timestamp time.Time

	// Nonce overrides the generated nonce. When empty, a fresh random
	// UUIDv4 is generated. A nonce must never be reused across requests.
	Nonce string
}

// Sign produces the Authorization header value for req:
//
//	EG1-HMAC-SHA256 client_token=<>;access_token=<>;timestamp=<>;nonce=<>;signature=<base64>
//
// Every call is independent and safe to invoke concurrently: a fresh
// timestamp and nonce are generated unless the config pins them, and no
// state is shared between calls.
func Sign(req *Request, cfg SignConfig) (string, error) {
	if len(cfg.Credential.Secret) == 0 {
		return "", fmt.Errorf("%w: %q", ErrMissingField, fieldSecret)
	}

	ts := cfg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	timestamp := ts.UTC().Format(timestampFormat)

	nonce := cfg.Nonce
	if nonce == "" {
		nonce = uuid.New().String()
	}

	authData := authScheme + " " +
		"client_token=" + cfg.Credential.ClientToken + ";" +
		"access_token=" + cfg.Credential.AccessToken + ";" +
		"timestamp=" + timestamp + ";" +
		"nonce=" + nonce + ";"

	canonical, err := canonicalRequest(cfg.Credential, req)
	if err != nil {
		return "", err
	}

	stringToSign := canonical + "\t" + authData

	// The second HMAC is keyed on the base64 text of the first digest,
	// not the decoded bytes. Other EdgeGrid implementations do the same;
	// changing this breaks interoperability.
	signingKey := base64HMAC(cfg.Credential.Secret, timestamp)
	signature := base64HMAC([]byte(signingKey), stringToSign)

	return authData + "signature=" + signature, nil
}

// base64HMAC computes HMAC-SHA256 over message with key and encodes the
// digest as standard base64.
func base64HMAC(key []byte, message string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(message))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
