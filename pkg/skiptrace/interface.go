// Package skiptrace defines the client used to look up the owners of a
// property and their contact numbers.
package skiptrace

import (
	"context"
	"proplookup/pkg/domain"
)

// Client is the abstraction for skip-trace providers.
//
//go:generate mockgen -package mockskiptrace -source=interface.go -destination=mock/mockskiptrace.go *
type Client interface {
	// LookupProperty returns the provider's persons tree for the address.
	// A rejected request fails with serrors.ErrProvider carrying the
	// provider's message; an unreachable provider fails with serrors.ErrNetwork.
	LookupProperty(ctx context.Context, addr domain.StructuredAddress) (*domain.SkipTraceResult, error)
}
