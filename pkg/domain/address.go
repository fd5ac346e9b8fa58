package domain

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Field is a single named column of a row-shaped address input.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Row is an ordered set of columns, typically one line of an uploaded CSV.
type Row []Field

// Get returns the trimmed value of the first column whose trimmed key matches
// name case-insensitively.
func (r Row) Get(name string) string {
	for _, f := range r {
		if strings.EqualFold(strings.TrimSpace(f.Key), name) {
			return strings.TrimSpace(f.Value)
		}
	}

	return ""
}

// String renders the row as "key=value" pairs for error reporting.
func (r Row) String() string {
	parts := make([]string, 0, len(r))
	for _, f := range r {
		parts = append(parts, f.Key+"="+f.Value)
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

// MarshalJSON writes the row as an object with the columns in order.
func (r Row) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	e.ObjStart()
	for _, f := range r {
		e.FieldStart(f.Key)
		e.Str(f.Value)
	}
	e.ObjEnd()

	return e.Bytes(), nil
}

// UnmarshalJSON reads an object of columns, keeping their order. Numbers and
// booleans are kept as their JSON text; null becomes an empty value.
func (r *Row) UnmarshalJSON(b []byte) error {
	row := Row{}
	err := jx.DecodeBytes(b).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var value string
		switch d.Next() {
		case jx.String:
			v, err := d.Str()
			if err != nil {
				return err
			}
			value = v
		case jx.Null:
			if err := d.Null(); err != nil {
				return err
			}
		case jx.Number, jx.Bool:
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			value = raw.String()
		default:
			return errors.Errorf("column %q: unexpected %s", key, d.Next())
		}
		row = append(row, Field{Key: string(key), Value: value})

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "decode row")
	}
	*r = row

	return nil
}

// RawAddressInput is what a caller hands to the pipeline: either a free-text
// address or a row of named columns. When Row is non-nil it takes precedence.
type RawAddressInput struct {
	Text string
	Row  Row
}

// TextInput wraps a free-text address.
func TextInput(text string) RawAddressInput {
	return RawAddressInput{Text: text}
}

// RowInput wraps a row-shaped address.
func RowInput(row Row) RawAddressInput {
	return RawAddressInput{Row: row}
}

// IsRow reports whether the input is row-shaped.
func (in RawAddressInput) IsRow() bool { return in.Row != nil }

// MarshalJSON writes text inputs as a JSON string and rows as an object.
func (in RawAddressInput) MarshalJSON() ([]byte, error) {
	if in.IsRow() {
		return in.Row.MarshalJSON()
	}
	var e jx.Encoder
	e.Str(in.Text)

	return e.Bytes(), nil
}

// UnmarshalJSON accepts either a free-text address string or a row object.
func (in *RawAddressInput) UnmarshalJSON(b []byte) error {
	d := jx.DecodeBytes(b)
	switch d.Next() {
	case jx.String:
		text, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "decode address")
		}
		*in = TextInput(text)
	case jx.Object:
		var row Row
		if err := row.UnmarshalJSON(b); err != nil {
			return err
		}
		*in = RowInput(row)
	default:
		return errors.Errorf("address must be a string or an object, got %s", d.Next())
	}

	return nil
}

// String returns the input as the user supplied it.
func (in RawAddressInput) String() string {
	if in.IsRow() {
		return in.Row.String()
	}

	return in.Text
}

// StructuredAddress is a normalized postal address. Street and State are
// non-empty after a successful normalization; City and Zip may be empty.
type StructuredAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// String renders the address as "street, city, state zip", leaving out empty
// parts. A complete address renders as "street, city, state, zip" so a zip
// of any shape comes back unchanged. The result normalizes back to the same
// address, except that without a city a zip not starting with a digit is
// read back as part of the state.
func (a StructuredAddress) String() string {
	if a.City != "" && a.Zip != "" {
		return a.Line()
	}

	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if stateZip := strings.TrimSpace(a.State + " " + a.Zip); stateZip != "" {
		parts = append(parts, stateZip)
	}

	return strings.Join(parts, ", ")
}

// Line joins every non-empty part with ", ", the way addresses are displayed.
func (a StructuredAddress) Line() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, ", ")
}
