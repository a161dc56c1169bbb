// Package probe implements network probes for [uri.URI.Exists].
package probe

//go:generate errtrace -w .

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"braces.dev/errtrace"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/log"
	"github.com/ghettovoice/gouri/uri"
)

const (
	defMethod  = http.MethodHead
	defTimeout = 10 * time.Second
)

// HTTPProberOptions are the options for a [HTTPProber].
type HTTPProberOptions struct {
	// Method is the request method.
	// If empty, HEAD is used.
	Method string
	// Timeout is the timeout of a single probe including retries.
	// If zero, defaults to 10 seconds.
	Timeout time.Duration
	// RetryMax is the maximum number of retries on connection errors and 5xx responses.
	// If zero, the request is not retried.
	RetryMax int
	// Client is the underlying HTTP client.
	// If nil, a new client with the default transport is used.
	Client *http.Client
	// Log is the logger.
	// If nil, the [log.Default] is used.
	Log *slog.Logger
}

func (o *HTTPProberOptions) method() string {
	if o == nil || o.Method == "" {
		return defMethod
	}
	return o.Method
}

func (o *HTTPProberOptions) timeout() time.Duration {
	if o == nil || o.Timeout <= 0 {
		return defTimeout
	}
	return o.Timeout
}

func (o *HTTPProberOptions) retryMax() int {
	if o == nil || o.RetryMax < 0 {
		return 0
	}
	return o.RetryMax
}

func (o *HTTPProberOptions) client() *http.Client {
	if o == nil || o.Client == nil {
		return &http.Client{}
	}
	return o.Client
}

func (o *HTTPProberOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

// HTTPProber probes targets with a single HTTP request and reports the response status.
// Redirects are not followed, so 301 and 302 statuses are reported as is.
//
// HTTPProber is safe for concurrent use.
type HTTPProber struct {
	method  string
	timeout time.Duration
	client  *retryablehttp.Client
	log     *slog.Logger
}

var _ uri.Prober = (*HTTPProber)(nil)

// NewHTTPProber creates a new HTTP prober. Options are optional, nil options are the defaults.
func NewHTTPProber(opts *HTTPProberOptions) *HTTPProber {
	hc := *opts.client()
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.retryMax()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = nil
	rc.HTTPClient = &hc
	rc.ErrorHandler = lastResponse

	return &HTTPProber{
		method:  opts.method(),
		timeout: opts.timeout(),
		client:  rc,
		log:     opts.log(),
	}
}

// lastResponse returns the last response when retries are exhausted,
// so that 5xx statuses are reported to the caller instead of an error.
func lastResponse(res *http.Response, err error, _ int) (*http.Response, error) {
	if res != nil {
		return res, nil
	}
	return nil, errtrace.Wrap(err)
}

// Probe sends the request to the target and returns the response status code.
func (p *HTTPProber) Probe(ctx context.Context, target string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, p.method, target, nil)
	if err != nil {
		p.log.LogAttrs(ctx, slog.LevelDebug, "failed to build probe request",
			slog.Any("target", log.StringValue(target)),
			slog.Any("error", err),
		)
		return 0, errtrace.Wrap(err)
	}

	res, err := p.client.Do(req)
	if err != nil {
		p.log.LogAttrs(ctx, slog.LevelDebug, "probe failed",
			slog.Any("request", req.Request),
			slog.Bool("timeout", errorutil.IsTimeoutErr(err)),
			slog.Any("error", err),
		)
		return 0, errtrace.Wrap(err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))

	p.log.LogAttrs(ctx, slog.LevelDebug, "probe done",
		slog.Any("request", req.Request),
		slog.Any("response", res),
	)
	return res.StatusCode, nil
}

// Default returns a prober with the default options.
func Default() *HTTPProber { return NewHTTPProber(nil) }
