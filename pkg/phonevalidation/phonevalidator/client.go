// Package phonevalidator validates phone numbers with the phonevalidator.com
// search API.
package phonevalidator

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
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// Provider is the name used in logs, metrics and error messages.
	Provider = "phonevalidator"
	// DefaultBaseURL is the public phonevalidator.com API.
	DefaultBaseURL = "https://api.phonevalidator.com"

	searchPath = "/api/v3/phonesearch"
)

// Options configure the phonevalidator client.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// Client is safe for concurrent use.
type Client struct {
	http   *resty.Client
	apiKey string
}

// searchResponse is the "basic" search payload. Flags are "YES"/"NO" strings.
type searchResponse struct {
	StatusCode  string `json:"StatusCode"`
	StatusMsg   string `json:"StatusMessage"`
	PhoneNumber string `json:"PhoneNumber"`
	PhoneBasic  *struct {
		PhoneNumber   string `json:"PhoneNumber"`
		ReportDate    string `json:"ReportDate"`
		LineType      string `json:"LineType"`
		PhoneCompany  string `json:"PhoneCompany"`
		PhoneLocation string `json:"PhoneLocation"`
		FakeNumber    string `json:"FakeNumber"`
		FakeReason    string `json:"FakeNumberReason"`
		ErrorCode     string `json:"ErrorCode"`
		ErrorDesc     string `json:"ErrorDescription"`
	} `json:"PhoneBasic"`
}

func (r searchResponse) errorMessage() string {
	switch {
	case r.PhoneBasic != nil && r.PhoneBasic.ErrorDesc != "":
		return r.PhoneBasic.ErrorDesc
	case r.StatusMsg != "":
		return r.StatusMsg
	case r.PhoneBasic != nil && r.PhoneBasic.ErrorCode != "":
		return "error code " + r.PhoneBasic.ErrorCode
	default:
		return ""
	}
}

// failed reports a rejection carried inside a 2xx response.
func (r searchResponse) failed() bool {
	if r.StatusCode != "" && r.StatusCode != "200" {
		return true
	}

	return r.PhoneBasic == nil || r.PhoneBasic.ErrorCode != ""
}

// yes maps the provider's "YES"/"NO" flags; anything else is unknown.
func yes(s string) *bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "Y", "TRUE":
		v := true

		return &v
	case "NO", "N", "FALSE":
		v := false

		return &v
	default:
		return nil
	}
}

// Validate looks phone up. A number is valid unless the provider flags it as
// fake. Country, disconnected and suspended are not part of the basic search
// and stay unknown.
func (c *Client) Validate(ctx context.Context, phone string) (domain.PhoneValidation, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey": c.apiKey,
			"phone":  domain.Digits(phone),
			"type":   "basic",
		}).
		Get(searchPath)
	if err != nil {
		logger.Warn(ctx, "phone validation request failed", zap.String("provider", Provider), zap.Error(err))

		return domain.PhoneValidation{}, upstream.NetworkError(Provider, err)
	}

	var body searchResponse
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
		status := resp.StatusCode()
		if code, err := strconv.Atoi(body.StatusCode); err == nil {
			status = code
		}

		return domain.PhoneValidation{}, upstream.ProviderError(Provider, status, body.errorMessage())
	}

	basic := body.PhoneBasic
	fake := yes(basic.FakeNumber)

	return domain.PhoneValidation{
		Valid:    fake != nil && !*fake,
		Carrier:  domain.StringOrUnknown(basic.PhoneCompany),
		LineType: domain.StringOrUnknown(basic.LineType),
		Location: domain.StringOrUnknown(basic.PhoneLocation),
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
		apiKey: opts.APIKey,
	}, nil
}
