// Package batchdata provides a skiptrace.Client implementation backed by the
// BatchData property skip-trace API.
package batchdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"proplookup/pkg/domain"
	"proplookup/pkg/logger"
	"proplookup/pkg/metrics"
	"proplookup/pkg/serrors"
	"proplookup/pkg/skiptrace"
	"proplookup/pkg/upstream"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// Provider is the name used in logs, metrics and error messages.
	Provider = "batchdata"
	// DefaultBaseURL is the public BatchData API.
	DefaultBaseURL = "https://api.batchdata.com"

	skipTracePath = "/api/v1/property/skip-trace"
)

// Options configure the BatchData client.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	// TracerProvider creates the client's spans. Nil means the global provider.
	TracerProvider trace.TracerProvider
}

// Client talks to the BatchData REST API and fulfills the skiptrace.Client
// interface. It is safe for concurrent use.
type Client struct {
	http   *resty.Client
	token  string
	tracer trace.Tracer
}

type propertyAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type skipTraceRequest struct {
	Requests []struct {
		PropertyAddress propertyAddress `json:"propertyAddress"`
	} `json:"requests"`
}

// skipTraceResponse is the envelope around the persons tree. Results is kept
// raw and handed to domain.ParseSkipTraceResult.
type skipTraceResponse struct {
	Status *struct {
		Code    int    `json:"code"`
		Text    string `json:"text"`
		Message string `json:"message"`
	} `json:"status"`
	Results json.RawMessage `json:"results"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// errorMessage digs the provider's explanation out of a failed response.
func (r skipTraceResponse) errorMessage() string {
	if r.Status != nil && r.Status.Message != "" {
		return r.Status.Message
	}
	if r.Message != "" {
		return r.Message
	}
	if len(r.Error) > 0 {
		var s string
		if err := json.Unmarshal(r.Error, &s); err == nil {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(r.Error, &obj); err == nil {
			return obj.Message
		}
	}
	if r.Status != nil {
		return r.Status.Text
	}

	return ""
}

// LookupProperty submits one skip-trace request for addr. Exactly one HTTP
// call is made.
func (c *Client) LookupProperty(ctx context.Context, addr domain.StructuredAddress) (*domain.SkipTraceResult, error) {
	ctx, span := c.tracer.Start(ctx, "batchdata.LookupProperty")
	defer span.End()
	span.SetAttributes(attribute.String("address.state", addr.State))

	res, err := c.lookup(ctx, addr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, serrors.KindOf(err).Error())
	}

	return res, err
}

func (c *Client) lookup(ctx context.Context, addr domain.StructuredAddress) (*domain.SkipTraceResult, error) {
	var body skipTraceRequest
	body.Requests = make([]struct {
		PropertyAddress propertyAddress `json:"propertyAddress"`
	}, 1)
	body.Requests[0].PropertyAddress = propertyAddress{
		Street: addr.Street,
		City:   addr.City,
		State:  addr.State,
		Zip:    addr.Zip,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(skipTracePath)
	if err != nil {
		logger.Warn(ctx, "skip-trace request failed", zap.Error(err))

		return nil, upstream.NetworkError(Provider, err)
	}

	var envelope skipTraceResponse
	decodeErr := json.Unmarshal(resp.Body(), &envelope)

	status := resp.StatusCode()
	if envelope.Status != nil && envelope.Status.Code >= http.StatusMultipleChoices {
		status = envelope.Status.Code
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		msg := ""
		if decodeErr == nil {
			msg = envelope.errorMessage()
		}
		logger.Warn(ctx, "skip-trace rejected",
			zap.Int("status", status),
			zap.String("message", msg),
			zap.String("body", strings.TrimSpace(resp.String())))

		return nil, upstream.ProviderError(Provider, status, msg)
	}
	if decodeErr != nil {
		return nil, serrors.Wrap(serrors.ErrProvider, decodeErr, "malformed response")
	}

	results := envelope.Results
	if len(results) == 0 || string(results) == "null" {
		results = json.RawMessage(`{"persons":[]}`)
	}
	out, err := domain.ParseSkipTraceResult(results)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrProvider, err, "malformed response")
	}
	logger.Debug(ctx, "skip-trace completed", zap.Int("persons", len(out.Persons)))

	return out, nil
}

// Ensure Client conforms to the skiptrace.Client interface at compile time.
var _ skiptrace.Client = (*Client)(nil)

// New constructs a Client from opts. An empty BaseURL means DefaultBaseURL.
func New(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("could not create %s client: %w", Provider,
			serrors.With(serrors.ErrBadRequest, "missing API token"))
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Client{
		http: upstream.New(upstream.Options{
			Provider:   Provider,
			BaseURL:    base,
			Timeout:    opts.Timeout,
			HTTPClient: opts.HTTPClient,
			Metrics:    opts.Metrics,
		}),
		token:  opts.Token,
		tracer: tp.Tracer(Provider),
	}, nil
}
