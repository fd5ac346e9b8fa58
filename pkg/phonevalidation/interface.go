// Package phonevalidation defines the phone number validation capability and
// selects a provider implementation from configuration.
package phonevalidation

import (
	"context"
	"proplookup/pkg/domain"
)

// Validator checks one phone number against a validation provider and maps
// the provider's answer onto the canonical domain.PhoneValidation.
//
//go:generate mockgen -package mockphonevalidation -source=interface.go -destination=mock/mockphonevalidation.go *
type Validator interface {
	// Validate returns serrors.ErrProvider when the provider rejects the
	// number or the request, and serrors.ErrNetwork when it cannot be reached.
	Validate(ctx context.Context, phone string) (domain.PhoneValidation, error)
}
