package edgegrid

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors the YAML credential file layout:
//
//	sections:
//	  default:
//	    - host: api.example.com
//	      client_token: akab-ct
//	      access_token: akab-at
//	      secret: s3cr3t
//	      max_body: 2048
//	      signed_headers: [x-account]
type yamlConfig struct {
	Sections map[string][]yamlCredential `yaml:"sections"`
}

type yamlCredential struct {
	Host          string   `yaml:"host"`
	ClientToken   string   `yaml:"client_token"`
	AccessToken   string   `yaml:"access_token"`
	Secret        string   `yaml:"secret"`
	MaxBody       int      `yaml:"max_body"`
	SignedHeaders []string `yaml:"signed_headers"`
}

// ParseYAMLConfig parses a YAML credential configuration. It accepts the
// same credential fields as the line-oriented format and produces an
// equivalent Store: entry order within a section is preserved, unknown
// fields are rejected, and required-field validation happens at resolution
// time, exactly as with ParseConfig.
func ParseYAMLConfig(r io.Reader) (*Store, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg yamlConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("edgegrid: decoding yaml configuration: %w", err)
	}

	store := &Store{sections: make(map[string][]credentialRecord)}
	for name, entries := range cfg.Sections {
		records := make([]credentialRecord, 0, len(entries))
		for _, e := range entries {
			rec := credentialRecord{
				host:        e.Host,
				clientToken: e.ClientToken,
				accessToken: e.AccessToken,
				secret:      e.Secret,
				headers:     e.SignedHeaders,
			}
			if e.MaxBody != 0 {
				rec.maxBody = strconv.Itoa(e.MaxBody)
			}

			records = append(records, rec)
		}

		store.sections[name] = records
	}

	return store, nil
}

// LoadYAMLConfig reads and parses the YAML credential configuration file
// at path.
func LoadYAMLConfig(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("edgegrid: opening configuration: %w", err)
	}
	defer f.Close()

	return ParseYAMLConfig(f)
}
