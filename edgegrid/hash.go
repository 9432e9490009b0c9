package edgegrid

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// BodyMode selects how body bytes are normalized before hashing and
// sending.
type BodyMode int

const (
	// BodyBinary uses the payload bytes exactly as supplied.
	BodyBinary BodyMode = iota

	// BodyASCII strips all line-break characters from the payload,
	// joining the lines with no separator.
	BodyASCII
)

// bodyFileMarker prefixes a payload argument that references a file.
const bodyFileMarker = "@"

// Body is a request payload: an inline payload or a reference to a file
// holding it. At most one of Data and File is set.
type Body struct {
	// Data is the inline payload.
	Data []byte

	// File is the path of a file to read the payload from. When set,
	// Data is ignored.
	File string

	// Mode selects line-break normalization.
	Mode BodyMode
}

// ParseBodyArg interprets a curl-style data argument: an argument starting
// with "@" names a file holding the payload, anything else is the payload
// itself.
func ParseBodyArg(arg string, mode BodyMode) *Body {
	if strings.HasPrefix(arg, bodyFileMarker) {
		return &Body{File: arg[len(bodyFileMarker):], Mode: mode}
	}

	return &Body{Data: []byte(arg), Mode: mode}
}

// Bytes returns the payload with mode normalization applied. A file
// reference is opened, fully read and closed within the call; no handle
// is retained.
func (b *Body) Bytes() ([]byte, error) {
	data := b.Data
	if b.File != "" {
		read, err := os.ReadFile(b.File)
		if err != nil {
			return nil, fmt.Errorf("edgegrid: reading body file: %w", err)
		}

		data = read
	}

	if b.Mode == BodyASCII {
		data = stripLineBreaks(data)
	}

	return data, nil
}

func stripLineBreaks(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, c := range data {
		if c == '\n' || c == '\r' {
			continue
		}

		out = append(out, c)
	}

	return out
}

// contentHash computes the base64 SHA-256 content hash covering at most
// maxBody bytes of the body. Only POST requests carry a content hash:
// every other method yields an empty hash even when a body is supplied,
// as does an absent or empty body.
func contentHash(method string, body *Body, maxBody int) (string, error) {
	if method != http.MethodPost || body == nil {
		return "", nil
	}

	data, err := body.Bytes()
	if err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", nil
	}

	if len(data) > maxBody {
		log.Warnf("edgegrid: request body of %d bytes exceeds max-body %d, hash covers the first %d bytes only", len(data), maxBody, maxBody)
		data = data[:maxBody]
	}

	digest := sha256.Sum256(data)

	return base64.StdEncoding.EncodeToString(digest[:]), nil
}
