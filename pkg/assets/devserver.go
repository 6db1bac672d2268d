package assets

import (
	"context"
	"net/http"
	"time"
)

// DefaultProbeTimeout bounds the dev-server reachability probe.
const DefaultProbeTimeout = 5 * time.Second

// Prober checks whether a dev server answers at url.
//
// An error means the server could not be asked at all (refused connection,
// timeout); the Resolver treats it as an inactive server.
type Prober interface {
	Probe(ctx context.Context, url string) (bool, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, url string) (bool, error)

func (f ProberFunc) Probe(ctx context.Context, url string) (bool, error) {
	return f(ctx, url)
}

// HTTPProber probes with a HEAD request.
// Any response below 500 counts as a running server.
type HTTPProber struct {
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPProber returns a prober with its own client bounded by timeout.
// A zero timeout uses DefaultProbeTimeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{
		Client:  &http.Client{Timeout: timeout},
		Timeout: timeout,
	}
}

func (p *HTTPProber) Probe(ctx context.Context, url string) (bool, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, err
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError, nil
}
