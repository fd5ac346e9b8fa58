package lookup_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"proplookup/internal/lookup"
	"proplookup/pkg/domain"
	mockphonevalidation "proplookup/pkg/phonevalidation/mock"
	"proplookup/pkg/serrors"
	mockskiptrace "proplookup/pkg/skiptrace/mock"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

func skipTraceWithPhones(t *testing.T, numbers ...string) *domain.SkipTraceResult {
	t.Helper()

	phones := make([]map[string]any, 0, len(numbers))
	for i, n := range numbers {
		phones = append(phones, map[string]any{"number": n, "type": "Mobile", "score": 90 - i})
	}
	raw, err := json.Marshal(map[string]any{
		"persons": []any{map[string]any{
			"name":         map[string]any{"full": "Jane Doe"},
			"phoneNumbers": phones,
			"dnc":          false,
		}},
	})
	require.NoError(t, err)

	res, err := domain.ParseSkipTraceResult(raw)
	require.NoError(t, err)

	return res
}

func validation(carrier string) domain.PhoneValidation {
	return domain.PhoneValidation{Valid: true, Carrier: &carrier, Raw: json.RawMessage(`{}`)}
}

type mocks struct {
	skipTrace *mockskiptrace.MockClient
	validator *mockphonevalidation.MockValidator
}

func newService(t *testing.T, opts lookup.Options) (lookup.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		skipTrace: mockskiptrace.NewMockClient(ctrl),
		validator: mockphonevalidation.NewMockValidator(ctrl),
	}

	return lookup.New(m.skipTrace, m.validator, nil, opts), m
}

func TestLookup_success(t *testing.T) {
	svc, m := newService(t, lookup.Options{})
	addr := domain.StructuredAddress{Street: "123 Main St", City: "Springfield", State: "IL", Zip: "62704"}

	m.skipTrace.EXPECT().LookupProperty(gomock.Any(), addr).Return(skipTraceWithPhones(t, "2175550101", "2175550102"), nil)
	m.validator.EXPECT().Validate(gomock.Any(), "2175550101").Return(validation("Verizon"), nil)
	m.validator.EXPECT().Validate(gomock.Any(), "2175550102").Return(validation("AT&T"), nil)

	res := svc.Lookup(context.Background(), domain.TextInput("123 Main St, Springfield, IL 62704"))
	require.Nil(t, res.Error)
	got, ok := res.Address()
	require.True(t, ok)
	require.Equal(t, addr, got)

	phones := res.SkipTrace.Phones()
	require.Len(t, phones, 2)
	require.Equal(t, "Verizon", *phones[0].Validation.Carrier)
	require.Equal(t, "AT&T", *phones[1].Validation.Carrier)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	require.Contains(t, string(b), `"dnc":false`)
	require.Contains(t, string(b), `"validation":{"valid":true`)
}

func TestLookup_spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	svc, m := newService(t, lookup.Options{TracerProvider: tp})

	m.skipTrace.EXPECT().LookupProperty(gomock.Any(), gomock.Any()).Return(skipTraceWithPhones(t, "2175550101", "2175550102"), nil)
	m.validator.EXPECT().Validate(gomock.Any(), "2175550101").Return(validation("Verizon"), nil)
	m.validator.EXPECT().Validate(gomock.Any(), "2175550102").Return(domain.PhoneValidation{}, serrors.With(serrors.ErrNetwork, "could not reach numverify"))

	res := svc.Lookup(context.Background(), domain.TextInput("123 Main St, Springfield, IL 62704"))
	require.Nil(t, res.Error)

	ended := sr.Ended()
	require.Len(t, ended, 3)

	var root sdktrace.ReadOnlySpan
	validations, failed := 0, 0
	for _, s := range ended {
		switch s.Name() {
		case "lookup.Lookup":
			root = s
		case "lookup.ValidatePhone":
			validations++
			if s.Status().Code == codes.Error {
				failed++
				require.Equal(t, "NETWORK", s.Status().Description)
			}
		}
	}
	require.NotNil(t, root)
	require.Equal(t, 2, validations)
	require.Equal(t, 1, failed)
	for _, s := range ended {
		if s.Name() == "lookup.ValidatePhone" {
			require.Equal(t, root.SpanContext().SpanID(), s.Parent().SpanID())
		}
	}
}

func TestLookup_normalizationFailureMakesNoCalls(t *testing.T) {
	svc, _ := newService(t, lookup.Options{})

	res := svc.Lookup(context.Background(), domain.TextInput("nowhere in particular"))
	require.Nil(t, res.SkipTrace)
	require.NotNil(t, res.Error)
	require.Equal(t, serrors.ErrInvalidFormat.Error(), res.Error.Kind)
	require.Equal(t, lookup.MsgInvalidFormat, res.Error.Message)
	require.Equal(t, "nowhere in particular", res.Input)
}

func TestLookup_skipTraceFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
		wantMsg  string
	}{
		{
			name:     "provider",
			err:      serrors.With(serrors.ErrProvider, "Invalid address"),
			wantKind: "PROVIDER",
			wantMsg:  "Invalid address",
		},
		{
			name:     "network",
			err:      serrors.Wrap(serrors.ErrNetwork, errors.New("i/o timeout"), "could not reach batchdata"),
			wantKind: "NETWORK",
			wantMsg:  "could not reach batchdata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t, lookup.Options{})
			m.skipTrace.EXPECT().LookupProperty(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			res := svc.Lookup(context.Background(), domain.TextInput("123 Main St, IL"))
			require.Nil(t, res.SkipTrace)
			require.Equal(t, tt.wantKind, res.Error.Kind)
			require.Equal(t, tt.wantMsg, res.Error.Message)
			_, ok := res.Address()
			require.True(t, ok)
		})
	}
}

func TestLookup_oneValidationFails(t *testing.T) {
	svc, m := newService(t, lookup.Options{})

	m.skipTrace.EXPECT().LookupProperty(gomock.Any(), gomock.Any()).
		Return(skipTraceWithPhones(t, "2175550101", "2175550102", "2175550103"), nil)
	m.validator.EXPECT().Validate(gomock.Any(), "2175550101").Return(validation("Verizon"), nil)
	m.validator.EXPECT().Validate(gomock.Any(), "2175550102").
		Return(domain.PhoneValidation{}, serrors.With(serrors.ErrNetwork, "could not reach numverify"))
	m.validator.EXPECT().Validate(gomock.Any(), "2175550103").Return(validation("T-Mobile"), nil)

	res := svc.Lookup(context.Background(), domain.TextInput("123 Main St, Springfield, IL 62704"))
	require.Nil(t, res.Error)

	phones := res.SkipTrace.Phones()
	require.Len(t, phones, 3)
	require.Equal(t, "2175550101", phones[0].Number)
	require.Equal(t, "2175550102", phones[1].Number)
	require.Equal(t, "2175550103", phones[2].Number)

	require.True(t, phones[0].Validation.Valid)
	require.Equal(t, "Verizon", *phones[0].Validation.Carrier)

	failed := phones[1].Validation
	require.False(t, failed.Valid)
	require.Nil(t, failed.Disconnected)
	require.Nil(t, failed.Suspended)
	require.Nil(t, failed.Carrier)
	require.Equal(t, "NETWORK: could not reach numverify", *failed.Error)

	require.True(t, phones[2].Validation.Valid)
	require.Equal(t, "T-Mobile", *phones[2].Validation.Carrier)
}

func TestLookup_validationsRunConcurrently(t *testing.T) {
	svc, m := newService(t, lookup.Options{})

	numbers := []string{"2175550101", "2175550102", "2175550103"}
	m.skipTrace.EXPECT().LookupProperty(gomock.Any(), gomock.Any()).Return(skipTraceWithPhones(t, numbers...), nil)

	// every call blocks until all of them have started
	var started sync.WaitGroup
	started.Add(len(numbers))
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()
	m.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Times(len(numbers)).
		DoAndReturn(func(_ context.Context, phone string) (domain.PhoneValidation, error) {
			started.Done()
			select {
			case <-allStarted:
				return validation("carrier-" + phone), nil
			case <-time.After(5 * time.Second):
				return domain.PhoneValidation{}, errors.New("validations were not issued concurrently")
			}
		})

	res := svc.Lookup(context.Background(), domain.TextInput("123 Main St, Springfield, IL 62704"))
	require.Nil(t, res.Error)
	for i, p := range res.SkipTrace.Phones() {
		require.Nil(t, p.Validation.Error)
		require.Equal(t, "carrier-"+numbers[i], *p.Validation.Carrier)
	}
}

func TestLookup_noPersons(t *testing.T) {
	svc, m := newService(t, lookup.Options{})

	empty, err := domain.ParseSkipTraceResult([]byte(`{"persons":[]}`))
	require.NoError(t, err)
	m.skipTrace.EXPECT().LookupProperty(gomock.Any(), gomock.Any()).Return(empty, nil)

	res := svc.Lookup(context.Background(), domain.TextInput("123 Main St, IL"))
	require.Nil(t, res.Error)
	require.Empty(t, res.SkipTrace.Persons)
}

func TestValidatePhone(t *testing.T) {
	svc, m := newService(t, lookup.Options{})

	m.validator.EXPECT().Validate(gomock.Any(), "2175550101").Return(validation("Verizon"), nil)
	require.True(t, svc.ValidatePhone(context.Background(), "2175550101").Valid)

	m.validator.EXPECT().Validate(gomock.Any(), "2175550102").
		Return(domain.PhoneValidation{}, fmt.Errorf("could not validate: %w", serrors.With(serrors.ErrProvider, "quota exceeded")))
	v := svc.ValidatePhone(context.Background(), "2175550102")
	require.False(t, v.Valid)
	require.Equal(t, "PROVIDER: quota exceeded", *v.Error)

	// blank numbers never reach the provider
	v = svc.ValidatePhone(context.Background(), "  ")
	require.False(t, v.Valid)
	require.Equal(t, "BAD_REQUEST: missing phone number", *v.Error)
}
