// Package upstream builds the HTTP clients used to talk to third-party
// providers and classifies their failures into serrors kinds.
package upstream

import (
	"context"
	"errors"
	"net/http"
	"proplookup/pkg/logger"
	"proplookup/pkg/metrics"
	"proplookup/pkg/serrors"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a provider call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// UnknownError is the message used when a provider rejects a request without
// saying why.
const UnknownError = "unknown error"

// Options configure a provider client.
type Options struct {
	// Provider names the upstream in logs, metrics and error messages.
	Provider string
	// BaseURL is prefixed to every request path.
	BaseURL string
	// Timeout bounds each call end to end. Zero means DefaultTimeout.
	Timeout time.Duration
	// HTTPClient is copied, so its Timeout is never modified. Nil means a
	// fresh client with the default transport.
	HTTPClient *http.Client
	// Metrics receives one observation per finished call. May be nil.
	Metrics *metrics.Metrics
}

// New returns a resty client that performs exactly one attempt per request
// and records every call in the configured metrics.
func New(opts Options) *resty.Client {
	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := resty.NewWithClient(hc).
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Get(context.Background()).Sugar().With(zap.String("provider", opts.Provider)))

	m := opts.Metrics
	provider := opts.Provider
	c.OnSuccess(func(_ *resty.Client, r *resty.Response) {
		m.ProviderRequest(r.Request.Context(), provider, strconv.Itoa(r.StatusCode()), r.Time())
	})
	c.OnError(func(req *resty.Request, err error) {
		outcome := "error"
		var respErr *resty.ResponseError
		if errors.As(err, &respErr) && respErr.Response != nil {
			outcome = strconv.Itoa(respErr.Response.StatusCode())
		}
		m.ProviderRequest(req.Context(), provider, outcome, time.Since(req.Time))
	})

	return c
}

// NetworkError classifies a failed call (no usable response) as ErrNetwork.
// Context cancellation by the caller is passed through unchanged.
func NetworkError(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	return serrors.Wrap(serrors.ErrNetwork, err, "could not reach %s", provider)
}

// ProviderError builds the ErrProvider returned when a provider answers with
// a non-success status. An empty message becomes UnknownError.
func ProviderError(provider string, status int, message string) error {
	if message == "" {
		message = UnknownError
	}

	return serrors.Wrap(serrors.ErrProvider,
		errors.New(provider+" responded with status "+strconv.Itoa(status)),
		"%s", message)
}
