// Package fetch reads the raw manifest byte buffer from its source: a local
// file or an http(s) URL. The pipeline itself is origin-agnostic; this is
// the single read at the process boundary.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// DefaultMaxBytes caps how much of a manifest source is read. Manifests are
// tens of thousands of characters; anything beyond this is not a manifest.
const DefaultMaxBytes = 16 << 20

// DefaultAttempts is the retry budget for transient network failures.
const DefaultAttempts = 3

// Options configures a fetch.
type Options struct {
	// MaxBytes caps the read size (default DefaultMaxBytes).
	MaxBytes int64
	// Attempts is the HTTP retry budget (default DefaultAttempts).
	Attempts uint
	// Timeout bounds each HTTP attempt (default 30s).
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.Attempts == 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}

// Read returns the raw bytes of source, which is either a local file path
// or an http(s) URL.
func Read(ctx context.Context, source string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if IsURL(source) {
		return readURL(ctx, source, opts)
	}
	return readFile(source, opts)
}

// IsURL reports whether source should be fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func readFile(path string, opts Options) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	data, err := readCapped(f, opts.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return data, nil
}

// readURL fetches the manifest over HTTP, retrying transient failures.
// 4xx responses are permanent and not retried.
func readURL(ctx context.Context, url string, opts Options) ([]byte, error) {
	client := &http.Client{Timeout: opts.Timeout}

	var data []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return retry.Unrecoverable(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
			}

			data, err = readCapped(resp.Body, opts.MaxBytes)
			return err
		},
		retry.Attempts(opts.Attempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	return data, nil
}

var errTooLarge = errors.New("manifest exceeds size cap")

func readCapped(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, errTooLarge
	}
	return data, nil
}
