// Command egcurl signs HTTP requests with EdgeGrid authentication and
// sends them, streaming the response body to stdout. It understands a
// small subset of curl's flags so existing invocations carry over.
package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/circumventures/edgegrid-curl/edgegrid"
)

// defaultConfigName is the credential file looked up in the user's home
// directory when --config is not given.
const defaultConfigName = ".egcurl"

type options struct {
	configPath string
	section    string
	methods    []string
	headers    []string
	data       []string
	dataASCII  []string
	dataBinary []string
	authOnly   bool
	verbose    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "egcurl [flags] URL",
		Short:        "Send HTTP requests signed with EdgeGrid authentication.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			}

			return run(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "credential configuration file (default ~/"+defaultConfigName+")")
	flags.StringVarP(&opts.section, "section", "s", "default", "configuration section to resolve credentials from")
	flags.StringArrayVarP(&opts.methods, "request", "X", nil, "request method")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "request header, may be repeated")
	flags.StringArrayVarP(&opts.data, "data", "d", nil, "request body, @file to read it from a file")
	flags.StringArrayVar(&opts.dataASCII, "data-ascii", nil, "request body with line breaks stripped")
	flags.StringArrayVar(&opts.dataBinary, "data-binary", nil, "request body sent byte for byte")
	flags.BoolVar(&opts.authOnly, "auth-only", false, "print the Authorization header instead of sending the request")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func run(cmd *cobra.Command, opts *options, rawURL string) error {
	body, err := bodyFromFlags(opts)
	if err != nil {
		return err
	}

	method, err := methodFromFlags(opts, body)
	if err != nil {
		return err
	}

	headers, err := parseHeaders(opts.headers)
	if err != nil {
		return err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}

	store, err := loadStore(opts.configPath)
	if err != nil {
		return err
	}

	if opts.authOnly {
		return printAuthHeader(cmd, opts, store, u, method, headers, body)
	}

	return dispatch(opts, store, rawURL, method, headers, body)
}

// bodyFromFlags collects the request body from the data flags. Supplying
// more than one body source is a usage error.
func bodyFromFlags(opts *options) (*edgegrid.Body, error) {
	var bodies []*edgegrid.Body
	for _, arg := range append(opts.data, opts.dataASCII...) {
		bodies = append(bodies, edgegrid.ParseBodyArg(arg, edgegrid.BodyASCII))
	}
	for _, arg := range opts.dataBinary {
		bodies = append(bodies, edgegrid.ParseBodyArg(arg, edgegrid.BodyBinary))
	}

	switch len(bodies) {
	case 0:
		return nil, nil
	case 1:
		return bodies[0], nil
	default:
		return nil, edgegrid.ErrConflictingBody
	}
}

// methodFromFlags returns the effective request method. Supplying more
// than one method is a usage error; supplying none infers POST when a body
// is present and GET otherwise.
func methodFromFlags(opts *options, body *edgegrid.Body) (string, error) {
	switch len(opts.methods) {
	case 0:
		if body != nil {
			return http.MethodPost, nil
		}

		return http.MethodGet, nil
	case 1:
		return strings.ToUpper(opts.methods[0]), nil
	default:
		return "", edgegrid.ErrConflictingMethod
	}
}

func parseHeaders(args []string) (http.Header, error) {
	headers := make(http.Header)
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header %q, expected name: value", arg)
		}

		headers.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return headers, nil
}

// loadStore loads the credential configuration, falling back to
// ~/.egcurl. YAML files are recognized by extension.
func loadStore(path string) (*edgegrid.Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}

		path = filepath.Join(home, defaultConfigName)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return edgegrid.LoadYAMLConfig(path)
	default:
		return edgegrid.LoadConfig(path)
	}
}

// printAuthHeader resolves the credential once, signs the described
// request and prints the resulting Authorization header value.
func printAuthHeader(cmd *cobra.Command, opts *options, store *edgegrid.Store, u *url.URL, method string, headers http.Header, body *edgegrid.Body) error {
	host, err := edgegrid.NormalizeHost(u.Host)
	if err != nil {
		return err
	}

	cred, err := store.Resolve(opts.section, host)
	if err != nil {
		return err
	}

	path := u.Path
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	header, err := edgegrid.Sign(&edgegrid.Request{
		Method:  method,
		Scheme:  strings.ToLower(u.Scheme),
		Host:    host,
		Path:    path,
		Headers: headers,
		Body:    body,
	}, edgegrid.SignConfig{Credential: cred})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), header)

	return nil
}

// dispatch performs the request through the signing transport and streams
// the response body to stdout.
func dispatch(opts *options, store *edgegrid.Store, rawURL, method string, headers http.Header, body *edgegrid.Body) error {
	var reader io.Reader
	if body != nil {
		// Materialize the payload up front so the bytes sent are the
		// bytes hashed: file references are read here, line-break
		// stripping applied here. A missing body file fails before any
		// request is made.
		payload, err := body.Bytes()
		if err != nil {
			return err
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	for name, values := range headers {
		req.Header[name] = values
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	client := &http.Client{Transport: edgegrid.NewTransport(nil, store, opts.section)}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	log.Debugf("%s %s -> %s", req.Method, req.URL, resp.Status)

	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	return nil
}
