package report

import (
	"fmt"
	"io"
	"proplookup/pkg/domain"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/nao1215/markdown"
)

const unknown = "-"

// MarkdownWriter renders results as a human-readable markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteLookup renders the owner, addresses and phone numbers of a lookup.
func (w *MarkdownWriter) WriteLookup(res domain.LookupResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Property Owner Lookup")
	md.PlainText("")
	writeLookup(md, res)

	return w.build(md)
}

// WriteBatch renders every successful row followed by the failed rows.
func (w *MarkdownWriter) WriteBatch(out domain.BatchOutcome) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Batch Lookup")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Batch", "Succeeded", "Failed"},
		Rows: [][]string{{
			out.ID,
			strconv.Itoa(len(out.Results)),
			strconv.Itoa(len(out.Errors)),
		}},
	})
	md.PlainText("")

	for _, res := range out.Results {
		md.H2(inputLabel(res.Input))
		md.PlainText("")
		writeLookup(md, res)
	}

	if len(out.Errors) > 0 {
		md.H2("Errors")
		md.PlainText("")
		rows := make([][]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			rows = append(rows, []string{strconv.Itoa(e.Row + 1), cell(e.Input), e.Kind, cell(e.Message)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Row", "Input", "Kind", "Message"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return w.build(md)
}

func (w *MarkdownWriter) build(md *markdown.Markdown) (int, error) {
	if err := md.Build(); err != nil {
		return 0, errors.Wrap(err, "write report")
	}

	return len(md.String()), nil
}

func writeLookup(md *markdown.Markdown, res domain.LookupResult) {
	if res.Error != nil {
		md.PlainTextf("Lookup failed for **%s**.", inputLabel(res.Input))
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Kind", "Message"},
			Rows:   [][]string{{res.Error.Kind, cell(res.Error.Message)}},
		})
		md.PlainText("")

		return
	}
	if res.SkipTrace == nil || len(res.SkipTrace.Persons) == 0 {
		md.PlainTextf("No owner found for **%s**.", inputLabel(res.Input))
		md.PlainText("")

		return
	}

	owner := res.SkipTrace.Persons[0]
	property := owner.PropertyAddress
	if addr, ok := res.Address(); ok && property == (domain.StructuredAddress{}) {
		property = addr
	}
	md.Table(markdown.TableSet{
		Header: []string{"Owner", "Property Address", "Mailing Address"},
		Rows: [][]string{{
			orUnknown(owner.OwnerName()),
			orUnknown(property.Line()),
			orUnknown(owner.MailingAddress.Line()),
		}},
	})
	md.PlainText("")

	phones := res.SkipTrace.Phones()
	if len(phones) == 0 {
		md.PlainText("No phone numbers on record.")
		md.PlainText("")

		return
	}

	rows := make([][]string, 0, len(phones))
	for _, p := range phones {
		rows = append(rows, phoneRow(p))
	}
	md.Table(markdown.TableSet{
		Header: []string{"Phone", "Type", "Score", "Valid", "Carrier", "Line Type", "Location"},
		Rows:   rows,
	})
	md.PlainText("")
}

func phoneRow(p domain.PhoneNumber) []string {
	row := []string{domain.FormatPhone(p.Number), orUnknown(p.Type), orUnknown(string(p.Score))}
	v := p.Validation
	if v == nil {
		return append(row, unknown, unknown, unknown, unknown)
	}

	valid := "no"
	switch {
	case v.Error != nil:
		valid = unknown
	case v.Valid:
		valid = "yes"
	}

	return append(row, valid, deref(v.Carrier), deref(v.LineType), deref(v.Location))
}

func inputLabel(input any) string {
	switch v := input.(type) {
	case domain.StructuredAddress:
		return v.Line()
	case string:
		return cell(v)
	default:
		return cell(fmt.Sprint(v))
	}
}

func deref(s *string) string {
	if s == nil {
		return unknown
	}

	return orUnknown(cell(*s))
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}

	return s
}

// cell keeps free text from breaking the table layout.
func cell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ").Replace(s)
}
