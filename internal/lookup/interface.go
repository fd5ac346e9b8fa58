package lookup

import (
	"context"
	"proplookup/pkg/domain"
)

// Service runs address lookups: normalization, skip-trace and phone
// validation. Failures are reported inside the returned values, never as Go
// errors, so that one bad address or phone number cannot abort its neighbours.
//
//go:generate mockgen -package mocklookup -source=interface.go -destination=mock/mocklookup.go *
type Service interface {
	// Lookup resolves one address.
	Lookup(ctx context.Context, in domain.RawAddressInput) domain.LookupResult
	// RunBatch resolves up to the configured number of rows, keeping input order.
	RunBatch(ctx context.Context, rows []domain.RawAddressInput) domain.BatchOutcome
	// ValidatePhone validates one number, substituting the unknown
	// validation when the provider fails.
	ValidatePhone(ctx context.Context, phone string) domain.PhoneValidation
}
