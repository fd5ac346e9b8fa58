package lookup

import (
	"proplookup/pkg/domain"
	"proplookup/pkg/serrors"
	"strings"
	"unicode"
)

const (
	// MsgInvalidFormat is reported when free text does not split into two to
	// four comma-separated parts.
	MsgInvalidFormat = "invalid format"
	// MsgUnparseable is reported when no street or no state could be found.
	MsgUnparseable = "unparseable"
)

// Normalize turns a free-text or row-shaped address into a StructuredAddress.
//
// Rows are read by their address, city, state and zip columns (any case).
// When the address column already holds a composite address, or fewer than
// two of city, state and zip are filled in, the non-empty columns are joined
// with ", " and parsed as free text instead.
//
// Free text is parsed as follows:
//   - Runs of whitespace collapse to one space
//   - The text is split on commas; blank parts are dropped
//   - 4 parts are street, city, state, zip
//   - 3 parts are street, city and a "state zip" block
//   - 2 parts are street and a "state zip" block
//   - Any other count fails with ErrInvalidFormat
//
// A "state zip" block is split at its last space when the trailing word
// starts with a digit; otherwise the whole block is the state.
//
// Full state names ("Illinois") become their two-letter code; other state
// tokens are kept as given. A result without a street or a state fails with
// ErrInvalidFormat.
func Normalize(in domain.RawAddressInput) (domain.StructuredAddress, error) {
	var (
		addr domain.StructuredAddress
		err  error
	)
	if in.IsRow() {
		addr, err = normalizeRow(in.Row)
	} else {
		addr, err = normalizeText(in.Text)
	}
	if err != nil {
		return domain.StructuredAddress{}, err
	}

	addr.State = abbreviateState(addr.State)
	if addr.Street == "" || addr.State == "" {
		return domain.StructuredAddress{}, serrors.With(serrors.ErrInvalidFormat, MsgUnparseable)
	}

	return addr, nil
}

func normalizeRow(row domain.Row) (domain.StructuredAddress, error) {
	addr := domain.StructuredAddress{
		Street: collapseSpaces(row.Get("address")),
		City:   collapseSpaces(row.Get("city")),
		State:  collapseSpaces(row.Get("state")),
		Zip:    collapseSpaces(row.Get("zip")),
	}

	filled := 0
	for _, v := range []string{addr.City, addr.State, addr.Zip} {
		if v != "" {
			filled++
		}
	}
	if strings.Contains(addr.Street, ",") || filled < 2 {
		joined, err := normalizeText(addr.Line())
		if err != nil && strings.Contains(addr.Street, ",") {
			// The address column alone may already hold the full address.
			if composite, cerr := normalizeText(addr.Street); cerr == nil {
				return composite, nil
			}
		}

		return joined, err
	}

	return addr, nil
}

func normalizeText(text string) (domain.StructuredAddress, error) {
	parts := make([]string, 0, 4)
	for _, p := range strings.Split(collapseSpaces(text), ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	var addr domain.StructuredAddress
	switch len(parts) {
	case 4:
		addr = domain.StructuredAddress{Street: parts[0], City: parts[1], State: parts[2], Zip: parts[3]}
	case 3:
		addr = domain.StructuredAddress{Street: parts[0], City: parts[1]}
		addr.State, addr.Zip = splitStateZip(parts[2])
	case 2:
		addr = domain.StructuredAddress{Street: parts[0]}
		addr.State, addr.Zip = splitStateZip(parts[1])
	default:
		return domain.StructuredAddress{}, serrors.With(serrors.ErrInvalidFormat, MsgInvalidFormat)
	}

	return addr, nil
}

// splitStateZip splits "IL 62704" or "New York 10001" into state and zip.
func splitStateZip(block string) (string, string) {
	i := strings.LastIndexByte(block, ' ')
	if i < 0 {
		return block, ""
	}
	tail := block[i+1:]
	if tail == "" || !unicode.IsDigit(rune(tail[0])) {
		return block, ""
	}

	return block[:i], tail
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
