package phonevalidation

import (
	"fmt"
	"net/http"
	"proplookup/pkg/metrics"
	"proplookup/pkg/phonevalidation/numverify"
	"proplookup/pkg/phonevalidation/phonevalidator"
	"proplookup/pkg/serrors"
	"time"
)

// Providers lists the provider names New accepts.
var Providers = []string{numverify.Provider, phonevalidator.Provider} //nolint: gochecknoglobals

// Options select and configure a validation provider.
type Options struct {
	// Provider is one of Providers.
	Provider    string
	BaseURL     string
	APIKey      string
	CountryCode string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Metrics     *metrics.Metrics
}

// New returns the Validator implementation named by opts.Provider.
func New(opts Options) (Validator, error) {
	switch opts.Provider {
	case numverify.Provider:
		c, err := numverify.New(numverify.Options{
			BaseURL:     opts.BaseURL,
			APIKey:      opts.APIKey,
			CountryCode: opts.CountryCode,
			Timeout:     opts.Timeout,
			HTTPClient:  opts.HTTPClient,
			Metrics:     opts.Metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create validator: %w", err)
		}

		return c, nil
	case phonevalidator.Provider:
		c, err := phonevalidator.New(phonevalidator.Options{
			BaseURL:    opts.BaseURL,
			APIKey:     opts.APIKey,
			Timeout:    opts.Timeout,
			HTTPClient: opts.HTTPClient,
			Metrics:    opts.Metrics,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create validator: %w", err)
		}

		return c, nil
	default:
		return nil, serrors.With(serrors.ErrBadRequest, "unknown phone validation provider %q", opts.Provider)
	}
}

// Ensure the providers conform to the Validator interface at compile time.
var (
	_ Validator = (*numverify.Client)(nil)
	_ Validator = (*phonevalidator.Client)(nil)
)
