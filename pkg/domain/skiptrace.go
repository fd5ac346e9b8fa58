package domain

import (
	"encoding/json"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// PersonName is the owner name as reported by the skip-trace provider.
type PersonName struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Full  string `json:"full,omitempty"`
}

// Score is the provider's confidence for a phone number. Providers send it
// either as a JSON number or as a string; it is kept as text.
type Score string

// UnmarshalJSON accepts numbers, strings and null.
func (s *Score) UnmarshalJSON(b []byte) error {
	d := jx.DecodeBytes(b)
	switch d.Next() {
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "decode score")
		}
		*s = Score(v)
	case jx.Number:
		v, err := d.Num()
		if err != nil {
			return errors.Wrap(err, "decode score")
		}
		*s = Score(v.String())
	case jx.Null:
		*s = ""
	default:
		return errors.Errorf("unexpected score type %s", d.Next())
	}

	return nil
}

// MarshalJSON writes numeric scores as numbers and anything else as a string.
func (s Score) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	if json.Valid([]byte(s)) && jx.DecodeBytes([]byte(s)).Next() == jx.Number {
		return []byte(s), nil
	}

	return json.Marshal(string(s))
}

// PhoneNumber is one contact number attached to a person. Type and Score are
// provider metadata passed through as-is.
type PhoneNumber struct {
	Number string `json:"number"`
	Type   string `json:"type,omitempty"`
	Score  Score  `json:"score,omitempty"`

	// Validation is filled in by the lookup pipeline.
	Validation *PhoneValidation `json:"validation,omitempty"`
}

// Person is one record of a skip-trace response.
type Person struct {
	Name            PersonName
	PropertyAddress StructuredAddress
	MailingAddress  StructuredAddress
	PhoneNumbers    []PhoneNumber
}

// OwnerName returns the best available display name.
func (p Person) OwnerName() string {
	if p.Name.Full != "" {
		return p.Name.Full
	}

	return strings.TrimSpace(p.Name.First + " " + p.Name.Last)
}

// SkipTraceResult is the provider's result tree. Persons is a typed view of
// the fields the pipeline reads or enriches; the tree itself is kept verbatim
// and re-emitted on encoding, with each phone of the first person carrying its
// validation.
type SkipTraceResult struct {
	Persons []Person

	raw jx.Raw
}

// personSchema mirrors the provider's person record for the fields Person
// exposes.
type personSchema struct {
	Name            PersonName        `json:"name"`
	PropertyAddress StructuredAddress `json:"propertyAddress"`
	Property        struct {
		Owner struct {
			MailingAddress StructuredAddress `json:"mailingAddress"`
		} `json:"owner"`
	} `json:"property"`
	PhoneNumbers []PhoneNumber `json:"phoneNumbers"`
}

// skipTraceSchema is the subset of the provider tree decoded into Persons.
type skipTraceSchema struct {
	Persons []personSchema `json:"persons"`
}

// ParseSkipTraceResult decodes a provider result tree. The input is copied,
// so the caller may reuse its buffer.
func ParseSkipTraceResult(raw []byte) (*SkipTraceResult, error) {
	if err := jx.DecodeBytes(raw).Validate(); err != nil {
		return nil, errors.Wrap(err, "validate result")
	}

	var schema skipTraceSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, errors.Wrap(err, "decode persons")
	}

	res := &SkipTraceResult{
		Persons: make([]Person, 0, len(schema.Persons)),
		raw:     append(jx.Raw(nil), raw...),
	}
	for _, p := range schema.Persons {
		phones := p.PhoneNumbers
		for i := range phones {
			phones[i].Validation = nil
		}
		res.Persons = append(res.Persons, Person{
			Name:            p.Name,
			PropertyAddress: p.PropertyAddress,
			MailingAddress:  p.Property.Owner.MailingAddress,
			PhoneNumbers:    phones,
		})
	}

	return res, nil
}

// Phones returns the phone numbers of the first person, which are the ones
// the pipeline validates.
func (r *SkipTraceResult) Phones() []PhoneNumber {
	if r == nil || len(r.Persons) == 0 {
		return nil
	}

	return r.Persons[0].PhoneNumbers
}

// MarshalJSON re-emits the provider tree, adding "validation" to every phone
// of the first person that has one.
func (r SkipTraceResult) MarshalJSON() ([]byte, error) {
	raw := r.raw
	if len(raw) == 0 {
		b, err := json.Marshal(skipTraceSchema{Persons: r.providerPersons()})
		if err != nil {
			return nil, errors.Wrap(err, "encode persons")
		}
		raw = b
	}

	var e jx.Encoder
	if err := r.encodeTree(&e, jx.DecodeBytes(raw)); err != nil {
		return nil, err
	}

	return e.Bytes(), nil
}

// UnmarshalJSON accepts the tree produced by MarshalJSON, or a raw provider tree.
func (r *SkipTraceResult) UnmarshalJSON(b []byte) error {
	parsed, err := ParseSkipTraceResult(b)
	if err != nil {
		return err
	}

	var withValidation skipTraceSchema
	if err := json.Unmarshal(b, &withValidation); err == nil && len(withValidation.Persons) > 0 {
		for i, p := range withValidation.Persons[0].PhoneNumbers {
			if i < len(parsed.Persons[0].PhoneNumbers) {
				parsed.Persons[0].PhoneNumbers[i].Validation = p.Validation
			}
		}
	}
	*r = *parsed

	return nil
}

// providerPersons rebuilds the provider shape from the typed view, for
// results that were constructed in code rather than decoded.
func (r SkipTraceResult) providerPersons() []personSchema {
	out := make([]personSchema, len(r.Persons))
	for i, p := range r.Persons {
		phones := make([]PhoneNumber, len(p.PhoneNumbers))
		for j, ph := range p.PhoneNumbers {
			ph.Validation = nil
			phones[j] = ph
		}
		out[i].Name = p.Name
		out[i].PropertyAddress = p.PropertyAddress
		out[i].Property.Owner.MailingAddress = p.MailingAddress
		out[i].PhoneNumbers = phones
	}

	return out
}

func copyValue(e *jx.Encoder, d *jx.Decoder) error {
	v, err := d.Raw()
	if err != nil {
		return errors.Wrap(err, "read value")
	}
	e.Raw(v)

	return nil
}

func (r SkipTraceResult) encodeTree(e *jx.Encoder, d *jx.Decoder) error {
	if d.Next() != jx.Object {
		return copyValue(e, d)
	}

	e.ObjStart()
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		e.FieldStart(string(key))
		if string(key) != "persons" || len(r.Persons) == 0 || d.Next() != jx.Array {
			return copyValue(e, d)
		}

		return r.encodePersons(e, d)
	}); err != nil {
		return errors.Wrap(err, "encode result")
	}
	e.ObjEnd()

	return nil
}

func (r SkipTraceResult) encodePersons(e *jx.Encoder, d *jx.Decoder) error {
	e.ArrStart()
	idx := 0
	if err := d.Arr(func(d *jx.Decoder) error {
		defer func() { idx++ }()
		if idx != 0 || d.Next() != jx.Object {
			return copyValue(e, d)
		}

		return encodePerson(e, d, r.Persons[0].PhoneNumbers)
	}); err != nil {
		return errors.Wrap(err, "encode persons")
	}
	e.ArrEnd()

	return nil
}

func encodePerson(e *jx.Encoder, d *jx.Decoder, phones []PhoneNumber) error {
	e.ObjStart()
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		e.FieldStart(string(key))
		if string(key) != "phoneNumbers" || d.Next() != jx.Array {
			return copyValue(e, d)
		}

		e.ArrStart()
		idx := 0
		if err := d.Arr(func(d *jx.Decoder) error {
			defer func() { idx++ }()
			if idx >= len(phones) || phones[idx].Validation == nil || d.Next() != jx.Object {
				return copyValue(e, d)
			}

			return encodePhone(e, d, phones[idx].Validation)
		}); err != nil {
			return errors.Wrap(err, "encode phone numbers")
		}
		e.ArrEnd()

		return nil
	}); err != nil {
		return errors.Wrap(err, "encode person")
	}
	e.ObjEnd()

	return nil
}

func encodePhone(e *jx.Encoder, d *jx.Decoder, v *PhoneValidation) error {
	e.ObjStart()
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) == "validation" {
			return d.Skip()
		}
		e.FieldStart(string(key))

		return copyValue(e, d)
	}); err != nil {
		return errors.Wrap(err, "encode phone")
	}

	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode validation")
	}
	e.FieldStart("validation")
	e.Raw(b)
	e.ObjEnd()

	return nil
}
