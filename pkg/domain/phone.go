package domain

import (
	"encoding/json"
	"strings"
	"unicode"
)

// PhoneValidation is the provider-agnostic result of validating one phone
// number. Pointer fields are nil when the provider cannot report them and
// encode as JSON null; they are never left out of the payload.
type PhoneValidation struct {
	Valid        bool    `json:"valid"`
	Disconnected *bool   `json:"disconnected"`
	Suspended    *bool   `json:"suspended"`
	Carrier      *string `json:"carrier"`
	LineType     *string `json:"lineType"`
	Country      *string `json:"country"`
	Location     *string `json:"location"`
	// Error is set when the validation could not be performed at all.
	Error *string `json:"error"`
	// Raw is the provider payload the validation was decoded from.
	Raw json.RawMessage `json:"raw"`
}

// UnknownValidation is the placeholder attached to a phone number whose
// validation call failed: invalid, every capability unknown.
func UnknownValidation(reason string) PhoneValidation {
	v := PhoneValidation{Raw: json.RawMessage("null")}
	if reason != "" {
		v.Error = &reason
	}

	return v
}

// StringOrUnknown returns nil for blank strings.
func StringOrUnknown(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}

// Digits strips everything but ASCII digits from a phone number.
func Digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}

		return -1
	}, phone)
}

// FormatPhone renders ten-digit numbers as "(xxx) xxx-xxxx" and returns any
// other input unchanged.
func FormatPhone(phone string) string {
	d := Digits(phone)
	if len(d) != 10 {
		return phone
	}

	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
