// Package numverify validates phone numbers with the apilayer numverify API.
package numverify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"proplookup/pkg/domain"
	"proplookup/pkg/logger"
	"proplookup/pkg/metrics"
	"proplookup/pkg/serrors"
	"proplookup/pkg/upstream"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// Provider is the name used in logs, metrics and error messages.
	Provider = "numverify"
	// DefaultBaseURL is the public numverify API.
	DefaultBaseURL = "https://apilayer.net"

	validatePath = "/api/validate"
)

// Options configure the numverify client.
type Options struct {
	BaseURL string
	APIKey  string
	// CountryCode is the ISO country assumed for national-format numbers.
	CountryCode string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Metrics     *metrics.Metrics
}

// Client is safe for concurrent use.
type Client struct {
	http        *resty.Client
	apiKey      string
	countryCode string
}

// validateResponse is the numverify payload. Failed calls come back with
// HTTP 200, success=false and an error block.
type validateResponse struct {
	Success     *bool  `json:"success"`
	Valid       bool   `json:"valid"`
	Number      string `json:"number"`
	CountryCode string `json:"country_code"`
	Location    string `json:"location"`
	Carrier     string `json:"carrier"`
	LineType    string `json:"line_type"`
	Error       *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
}

func (r validateResponse) failed() bool {
	return r.Error != nil || (r.Success != nil && !*r.Success)
}

func (r validateResponse) errorMessage() string {
	if r.Error == nil {
		return ""
	}
	if r.Error.Info != "" {
		return r.Error.Info
	}

	return r.Error.Type
}

// Validate looks phone up. Disconnected and suspended are never reported by
// numverify and stay unknown.
func (c *Client) Validate(ctx context.Context, phone string) (domain.PhoneValidation, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"access_key":   c.apiKey,
			"number":       domain.Digits(phone),
			"country_code": c.countryCode,
			"format":       "1",
		}).
		Get(validatePath)
	if err != nil {
		logger.Warn(ctx, "phone validation request failed", zap.String("provider", Provider), zap.Error(err))

		return domain.PhoneValidation{}, upstream.NetworkError(Provider, err)
	}

	var body validateResponse
	decodeErr := json.Unmarshal(resp.Body(), &body)
	if !resp.IsSuccess() {
		msg := ""
		if decodeErr == nil {
			msg = body.errorMessage()
		}

		return domain.PhoneValidation{}, upstream.ProviderError(Provider, resp.StatusCode(), msg)
	}
	if decodeErr != nil {
		return domain.PhoneValidation{}, serrors.Wrap(serrors.ErrProvider, decodeErr, "malformed response")
	}
	if body.failed() {
		return domain.PhoneValidation{}, upstream.ProviderError(Provider, resp.StatusCode(), body.errorMessage())
	}

	return domain.PhoneValidation{
		Valid:    body.Valid,
		Carrier:  domain.StringOrUnknown(body.Carrier),
		LineType: domain.StringOrUnknown(body.LineType),
		Country:  domain.StringOrUnknown(body.CountryCode),
		Location: domain.StringOrUnknown(body.Location),
		Raw:      json.RawMessage(resp.Body()),
	}, nil
}

// New constructs a Client from opts. An empty BaseURL means DefaultBaseURL.
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("could not create %s client: %w", Provider,
			serrors.With(serrors.ErrBadRequest, "missing API key"))
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	return &Client{
		http: upstream.New(upstream.Options{
			Provider:   Provider,
			BaseURL:    base,
			Timeout:    opts.Timeout,
			HTTPClient: opts.HTTPClient,
			Metrics:    opts.Metrics,
		}),
		apiKey:      opts.APIKey,
		countryCode: opts.CountryCode,
	}, nil
}
