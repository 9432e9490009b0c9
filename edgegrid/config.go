package edgegrid

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Store holds the credential sections parsed from a configuration source.
// Entry order within a section follows the source and is significant:
// resolution selects the first matching entry.
type Store struct {
	sections map[string][]credentialRecord
}

// ParseConfig parses a line-oriented credential configuration.
//
// A line of the form [name] opens a section; all following credential
// lines belong to it until the next section marker. Blank lines and lines
// starting with # are skipped. Every other line is whitespace-tokenized
// into key:value fields describing one credential: host, client_token,
// access_token, secret and max-body may each appear at most once per line,
// signed-header may repeat. An unrecognized key, a duplicated scalar field
// or a token without a colon is a parse error.
func ParseConfig(r io.Reader) (*Store, error) {
	store := &Store{sections: make(map[string][]credentialRecord)}

	scanner := bufio.NewScanner(r)
	section := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		var rec credentialRecord
		for _, token := range strings.Fields(line) {
			key, value, ok := strings.Cut(token, ":")
			if !ok {
				return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrMalformedField, token)
			}

			if err := rec.set(key, value); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}

		store.sections[section] = append(store.sections[section], rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("edgegrid: reading configuration: %w", err)
	}

	return store, nil
}

// LoadConfig reads and parses the credential configuration file at path.
func LoadConfig(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("edgegrid: opening configuration: %w", err)
	}
	defer f.Close()

	return ParseConfig(f)
}

// Resolve selects the credential applicable to host within the named
// section and validates that it is complete.
//
// Matching is a literal prefix comparison in source order: the first entry
// whose host value is a leading substring of the request host wins, and
// later, possibly more specific, entries are never consulted. The
// comparison is not DNS-label aware: a configured host of "example.com"
// also matches "example.com.attacker.net". This is long-standing behavior
// that existing configurations depend on; callers should configure full
// hostnames and treat the prefix semantics as a known risk.
func (s *Store) Resolve(section, host string) (Credential, error) {
	records, ok := s.sections[section]
	if !ok {
		return Credential{}, fmt.Errorf("%w: %q", ErrSectionNotFound, section)
	}

	for i := range records {
		if !strings.HasPrefix(host, records[i].host) {
			continue
		}

		cred, err := records[i].build()
		if err != nil {
			return Credential{}, fmt.Errorf("section %q, host %q: %w", section, host, err)
		}

		return cred, nil
	}

	return Credential{}, fmt.Errorf("%w: %q in section %q", ErrNoHostMatch, host, section)
}
