package v1handler

import (
	"net/http"
)

// ValidatePhoneRequest asks for the validation of one phone number.
type ValidatePhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// ValidatePhone validates a single number. Provider failures are reported in
// the body's error field with a 200 status, the same way they appear on the
// phones of a lookup.
func (h *Handler) ValidatePhone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ValidatePhoneRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, h.deps.Lookup.ValidatePhone(ctx, req.PhoneNumber))
}
