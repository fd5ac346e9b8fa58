// Package lookup implements the owner lookup pipeline: it normalizes an
// address, asks the skip-trace provider who owns the property, and validates
// every phone number it returns.
package lookup

import (
	"context"
	"proplookup/internal/config"
	"proplookup/pkg/domain"
	"proplookup/pkg/logger"
	"proplookup/pkg/metrics"
	"proplookup/pkg/phonevalidation"
	"proplookup/pkg/serrors"
	"proplookup/pkg/skiptrace"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxRows is used when Options.MaxRows is not positive.
	DefaultMaxRows = 10
	// DefaultConcurrency is used when Options.Concurrency is not positive.
	DefaultConcurrency = 4

	tracerName = "proplookup/lookup"
)

// Options configure batch processing.
type Options struct {
	// MaxRows is the number of leading rows a batch processes; the rest are
	// dropped without being looked up.
	MaxRows int
	// Concurrency is the number of batch rows looked up at the same time.
	Concurrency int
	// TracerProvider creates the pipeline spans. Nil means the global provider.
	TracerProvider trace.TracerProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxRows:     cfg.Batch.MaxRows,
		Concurrency: cfg.Batch.Concurrency,
	}
}

// service is the concrete implementation of the Service interface.
type service struct {
	options   Options
	skipTrace skiptrace.Client
	validator phonevalidation.Validator
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Lookup normalizes in, skip-traces the address and validates the phone
// numbers of the first person found, all of them concurrently. Validation
// failures leave the unknown validation on that phone only.
func (s *service) Lookup(ctx context.Context, in domain.RawAddressInput) domain.LookupResult {
	ctx, span := s.tracer.Start(ctx, "lookup.Lookup")
	defer span.End()

	res := s.lookup(ctx, in)

	outcome := "ok"
	if res.Error != nil {
		outcome = res.Error.Kind
		span.SetStatus(codes.Error, res.Error.Message)
	}
	s.metrics.Lookup(ctx, outcome)

	return res
}

func (s *service) lookup(ctx context.Context, in domain.RawAddressInput) domain.LookupResult {
	addr, err := Normalize(in)
	if err != nil {
		logger.Debug(ctx, "could not normalize address", zap.Stringer("input", in), zap.Error(err))

		return domain.LookupResult{Input: in.String(), Error: domain.NewLookupError(err)}
	}
	ctx = logger.WithFields(ctx, zap.Stringer("address", addr))

	st, err := s.skipTrace.LookupProperty(ctx, addr)
	if err != nil {
		logger.Warn(ctx, "could not skip-trace address", zap.Error(err))

		return domain.LookupResult{Input: addr, Error: domain.NewLookupError(err)}
	}
	if st == nil {
		st = &domain.SkipTraceResult{}
	}

	phones := st.Phones()
	var g errgroup.Group
	for i := range phones {
		g.Go(func() error {
			v := s.ValidatePhone(ctx, phones[i].Number)
			phones[i].Validation = &v

			return nil
		})
	}
	_ = g.Wait()

	logger.Info(ctx, "lookup completed",
		zap.Int("persons", len(st.Persons)),
		zap.Int("phones", len(phones)))

	return domain.LookupResult{Input: addr, SkipTrace: st}
}

// ValidatePhone validates one number. A failed validation is logged and
// replaced by domain.UnknownValidation carrying the failure kind and message.
func (s *service) ValidatePhone(ctx context.Context, phone string) domain.PhoneValidation {
	ctx, span := s.tracer.Start(ctx, "lookup.ValidatePhone")
	defer span.End()

	var (
		v   domain.PhoneValidation
		err error
	)
	if strings.TrimSpace(phone) == "" {
		err = serrors.With(serrors.ErrBadRequest, "missing phone number")
	} else {
		v, err = s.validator.Validate(ctx, phone)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, serrors.KindOf(err).Error())
		logger.Warn(ctx, "could not validate phone number", zap.String("phone", phone), zap.Error(err))

		return domain.UnknownValidation(domain.NewLookupError(err).Error())
	}

	return v
}

// New creates a Service backed by the given providers. m may be nil.
func New(skipTrace skiptrace.Client, validator phonevalidation.Validator, m *metrics.Metrics, options Options) Service {
	if options.MaxRows <= 0 {
		options.MaxRows = DefaultMaxRows
	}
	if options.Concurrency <= 0 {
		options.Concurrency = DefaultConcurrency
	}
	tp := options.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &service{
		options:   options,
		skipTrace: skipTrace,
		validator: validator,
		metrics:   m,
		tracer:    tp.Tracer(tracerName),
	}
}
