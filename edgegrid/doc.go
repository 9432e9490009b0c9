// Package edgegrid produces EG1-HMAC-SHA256 bearer authentication headers
// for HMAC-signed HTTP APIs and resolves, per target host, which of several
// configured credential sets signs a request.
//
// # Credentials
//
// Credentials live in a line-oriented configuration file split into named
// sections. Each non-comment line describes one credential as
// whitespace-separated key:value fields:
//
//	[default]
//	# production credentials
//	host:api.example.com client_token:akab-ct access_token:akab-at secret:s3cr3t max-body:2048 signed-header:x-account
//
// Load the file and resolve the credential for a host:
//
//	store, err := edgegrid.LoadConfig("/home/user/.egcurl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cred, err := store.Resolve("default", "api.example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Resolution scans the section in file order and selects the first entry
// whose host value is a literal prefix of the request host. See
// [Store.Resolve] for the security implications of prefix matching.
//
// An equivalent YAML configuration format is supported via [LoadYAMLConfig].
//
// # Signing
//
// Sign computes the Authorization header value for a request:
//
//	header, err := edgegrid.Sign(&edgegrid.Request{
//	    Method: "GET",
//	    Scheme: "https",
//	    Host:   "api.example.com",
//	    Path:   "/v1/items",
//	}, edgegrid.SignConfig{Credential: cred})
//
// Every call generates a fresh timestamp and random nonce; signatures are
// never reusable across requests.
//
// # Client Transport
//
// NewTransport wraps an http.RoundTripper so that every outgoing request
// is signed automatically:
//
//	client := &http.Client{
//	    Transport: edgegrid.NewTransport(nil, store, "default"),
//	}
//
//	resp, err := client.Get("https://api.example.com/v1/items")
package edgegrid
