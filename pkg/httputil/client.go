package httputil

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/matzehuels/snapshare/pkg/observability"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 60 * time.Second

// NewClient returns a client with the given timeout (DefaultTimeout when
// zero) and an instrumented transport.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(hookTransport{next: http.DefaultTransport}),
	}
}

// hookTransport reports each round trip to the registered HTTP hooks.
type hookTransport struct {
	next http.RoundTripper
}

func (t hookTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
