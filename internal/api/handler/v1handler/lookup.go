package v1handler

import (
	"io"
	"mime"
	"net/http"
	"proplookup/pkg/csvrows"
	"proplookup/pkg/domain"
	"proplookup/pkg/serrors"
	"strings"
)

const csvFormField = "file"

// LookupRequest asks for one address, either as free text or as a row of
// named columns.
type LookupRequest struct {
	Address string     `json:"address" validate:"required_without=Row"`
	Row     domain.Row `json:"row" validate:"required_without=Address"`
}

func (r LookupRequest) input() domain.RawAddressInput {
	if r.Row != nil {
		return domain.RowInput(r.Row)
	}

	return domain.TextInput(r.Address)
}

// BatchRequest carries the rows of a batch. Each row is an address string or
// an object of columns.
type BatchRequest struct {
	Rows []domain.RawAddressInput `json:"rows" validate:"required"`
}

// Lookup resolves the owner of one address. A failed lookup is answered with
// the status of its error kind.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LookupRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(ctx, w, err)

		return
	}

	res := h.deps.Lookup.Lookup(ctx, req.input())
	if res.Error != nil {
		writeJSON(ctx, w, StatusOf(res.Error.Kind), Error{Code: res.Error.Kind, Message: res.Error.Message})

		return
	}
	writeJSON(ctx, w, http.StatusOK, res)
}

// RunBatch runs a batch of JSON rows.
func (h *Handler) RunBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BatchRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, h.deps.Lookup.RunBatch(ctx, req.Rows))
}

// RunCSVBatch runs a batch uploaded as a CSV document, either as the raw
// request body or as the "file" field of a multipart form.
func (h *Handler) RunCSVBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, closeBody, err := csvBody(r)
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}
	defer closeBody()

	rows, err := csvrows.Read(body)
	if err != nil {
		h.writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, h.deps.Lookup.RunBatch(ctx, rows))
}

func csvBody(r *http.Request) (io.Reader, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, func() {}, nil
	}

	f, _, err := r.FormFile(csvFormField)
	if err != nil {
		return nil, nil, serrors.Wrap(serrors.ErrBadRequest, err, "missing %q form field", csvFormField)
	}

	return f, func() { _ = f.Close() }, nil
}
