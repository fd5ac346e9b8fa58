// Package csvrows reads uploaded address spreadsheets into batch inputs.
package csvrows

import (
	"encoding/csv"
	"errors"
	"io"
	"proplookup/pkg/domain"
	"proplookup/pkg/serrors"
	"strings"
)

// Read parses a CSV document whose first record is a header. Header names are
// trimmed and lower-cased; every following record becomes one row input with
// its columns in header order. Blank lines are skipped, short records are
// padded and extra cells without a header are dropped.
func Read(r io.Reader) ([]domain.RawAddressInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, serrors.With(serrors.ErrBadRequest, "empty CSV file")
	}
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid CSV header")
	}
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}

	var rows []domain.RawAddressInput
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "invalid CSV row")
		}
		if blank(rec) {
			continue
		}

		row := make(domain.Row, 0, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			val := ""
			if i < len(rec) {
				val = strings.TrimSpace(rec[i])
			}
			row = append(row, domain.Field{Key: key, Value: val})
		}
		rows = append(rows, domain.RowInput(row))
	}

	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
