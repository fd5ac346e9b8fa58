package domain

import (
	"proplookup/pkg/serrors"
)

// LookupError is the typed, user-facing failure of a single lookup.
type LookupError struct {
	// Kind is one of the serrors kind names, e.g. INVALID_FORMAT, PROVIDER
	// or NETWORK.
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewLookupError converts err into a LookupError. It returns nil for a nil error.
func NewLookupError(err error) *LookupError {
	if err == nil {
		return nil
	}

	return &LookupError{
		Kind:    serrors.KindOf(err).Error(),
		Message: serrors.MessageOf(err),
	}
}

func (e *LookupError) Error() string {
	return e.Kind + ": " + e.Message
}

// LookupResult is the outcome of one address lookup. Input is the normalized
// StructuredAddress when normalization succeeded, otherwise the original text.
// Exactly one of SkipTrace and Error is set.
type LookupResult struct {
	Input     any              `json:"input"`
	SkipTrace *SkipTraceResult `json:"skipTrace"`
	Error     *LookupError     `json:"error"`
}

// Address returns the normalized input address, if normalization succeeded.
func (r LookupResult) Address() (StructuredAddress, bool) {
	a, ok := r.Input.(StructuredAddress)

	return a, ok
}

// RowError correlates a failed batch row back to its input.
type RowError struct {
	// Row is the zero-based index of the row in the submitted batch.
	Row     int    `json:"row"`
	Input   string `json:"input"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// BatchOutcome is the result of a batch run. Results are in input order with
// failed rows left out; every failed row has an entry in Errors.
type BatchOutcome struct {
	ID      string         `json:"id"`
	Results []LookupResult `json:"results"`
	Errors  []RowError     `json:"errors"`
}
