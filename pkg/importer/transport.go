package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Transport is the outbound HTTPS collaborator adapters call through. It
// issues a single synchronous GET and returns the raw body, or fails with
// an error wrapping ErrTransportFailure. Retries, TLS details and
// connection pooling live behind this boundary, never in the core.
type Transport interface {
	Get(ctx context.Context, host, path string, query url.Values, header http.Header) ([]byte, error)
}

type httpTransport struct {
	client *http.Client
}

// NewHTTPTransport returns the default Transport backed by net/http. Every
// call is bounded by the given timeout; zero means 10 seconds. A timeout is
// reported as a transport failure, not a retry trigger.
func NewHTTPTransport(timeout time.Duration) Transport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpTransport{
		client: &http.Client{Timeout: timeout},
	}
}

func (t *httpTransport) Get(ctx context.Context, host, path string, query url.Values, header http.Header) ([]byte, error) {
	u := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     path,
		RawQuery: query.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", host, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s%s returned status %d", ErrTransportFailure, host, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrTransportFailure, err)
	}
	return body, nil
}
