package v1handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"proplookup/internal/api/handler/v1handler"
	mocklookup "proplookup/internal/lookup/mock"
	"proplookup/pkg/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestServer(t *testing.T) (*mocklookup.MockService, http.Handler) {
	t.Helper()

	svc := mocklookup.NewMockService(gomock.NewController(t))
	h := v1handler.New(v1handler.Deps{Lookup: svc})

	return svc, http.StripPrefix("/v1", h.Routes())
}

func do(t *testing.T, srv http.Handler, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func TestLookup_text(t *testing.T) {
	svc, srv := newTestServer(t)

	addr := domain.StructuredAddress{Street: "123 Main St", City: "Springfield", State: "IL", Zip: "62704"}
	skip, err := domain.ParseSkipTraceResult([]byte(`{"persons":[]}`))
	require.NoError(t, err)
	svc.EXPECT().
		Lookup(gomock.Any(), domain.TextInput("123 Main St, Springfield, IL 62704")).
		Return(domain.LookupResult{Input: addr, SkipTrace: skip})

	rec := do(t, srv, http.MethodPost, "/v1/lookup", "application/json",
		[]byte(`{"address":"123 Main St, Springfield, IL 62704"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t,
		`{"input":{"street":"123 Main St","city":"Springfield","state":"IL","zip":"62704"},"skipTrace":{"persons":[]},"error":null}`,
		rec.Body.String())
}

func TestLookup_row(t *testing.T) {
	svc, srv := newTestServer(t)

	svc.EXPECT().
		Lookup(gomock.Any(), domain.RowInput(domain.Row{{Key: "Address", Value: "1 Elm St"}, {Key: "State", Value: "TX"}})).
		Return(domain.LookupResult{Input: domain.StructuredAddress{Street: "1 Elm St", State: "TX"}})

	rec := do(t, srv, http.MethodPost, "/v1/lookup", "application/json",
		[]byte(`{"row":{"Address":"1 Elm St","State":"TX"}}`))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLookup_unencodableResult(t *testing.T) {
	svc, srv := newTestServer(t)

	svc.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(domain.LookupResult{Input: make(chan int)})

	rec := do(t, srv, http.MethodPost, "/v1/lookup", "application/json", []byte(`{"address":"1 Elm St, TX"}`))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code":"INTERNAL","message":"internal error"}`, rec.Body.String())
}

func TestLookup_failedLookupUsesKindStatus(t *testing.T) {
	svc, srv := newTestServer(t)

	svc.EXPECT().Lookup(gomock.Any(), gomock.Any()).Return(domain.LookupResult{
		Input: "nowhere",
		Error: &domain.LookupError{Kind: "INVALID_FORMAT", Message: "address is not in a recognized format"},
	})

	rec := do(t, srv, http.MethodPost, "/v1/lookup", "application/json", []byte(`{"address":"nowhere"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "INVALID_FORMAT", body["code"])
	require.Equal(t, "address is not in a recognized format", body["message"])
}

func TestLookup_invalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `address=1`},
		{name: "empty object", body: `{}`},
		{name: "row of arrays", body: `{"row":{"address":["x"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newTestServer(t)

			rec := do(t, srv, http.MethodPost, "/v1/lookup", "application/json", []byte(tt.body))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "BAD_REQUEST", decodeBody(t, rec)["code"])
		})
	}
}

func TestLookup_methodNotAllowed(t *testing.T) {
	_, srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/lookup", "", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRunBatch(t *testing.T) {
	svc, srv := newTestServer(t)

	svc.EXPECT().
		RunBatch(gomock.Any(), []domain.RawAddressInput{
			domain.TextInput("123 Main St, Springfield, IL 62704"),
			domain.RowInput(domain.Row{{Key: "address", Value: "1 Elm St"}}),
		}).
		Return(domain.BatchOutcome{
			ID:      "b1",
			Results: []domain.LookupResult{},
			Errors:  []domain.RowError{{Row: 1, Input: "{address=1 Elm St}", Kind: "INVALID_FORMAT", Message: "x"}},
		})

	rec := do(t, srv, http.MethodPost, "/v1/lookups/batch", "application/json",
		[]byte(`{"rows":["123 Main St, Springfield, IL 62704",{"address":"1 Elm St"}]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "b1", body["id"])
	require.Len(t, body["errors"], 1)
}

func TestRunBatch_missingRows(t *testing.T) {
	_, srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/lookups/batch", "application/json", []byte(`{}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

const csvUpload = "Address,City,State,Zip\n123 Main St,Springfield,IL,62704\n"

func TestRunCSVBatch_body(t *testing.T) {
	svc, srv := newTestServer(t)

	svc.EXPECT().
		RunBatch(gomock.Any(), []domain.RawAddressInput{domain.RowInput(domain.Row{
			{Key: "address", Value: "123 Main St"},
			{Key: "city", Value: "Springfield"},
			{Key: "state", Value: "IL"},
			{Key: "zip", Value: "62704"},
		})}).
		Return(domain.BatchOutcome{ID: "b2", Results: []domain.LookupResult{}, Errors: []domain.RowError{}})

	rec := do(t, srv, http.MethodPost, "/v1/lookups/csv", "text/csv", []byte(csvUpload))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "b2", decodeBody(t, rec)["id"])
}

func TestRunCSVBatch_multipart(t *testing.T) {
	svc, srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "owners.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvUpload))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	svc.EXPECT().
		RunBatch(gomock.Any(), gomock.Len(1)).
		Return(domain.BatchOutcome{ID: "b3", Results: []domain.LookupResult{}, Errors: []domain.RowError{}})

	rec := do(t, srv, http.MethodPost, "/v1/lookups/csv", mw.FormDataContentType(), buf.Bytes())
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRunCSVBatch_empty(t *testing.T) {
	_, srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/lookups/csv", "text/csv", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "empty CSV file"))
}

func TestValidatePhone(t *testing.T) {
	svc, srv := newTestServer(t)

	svc.EXPECT().
		ValidatePhone(gomock.Any(), "(217) 555-0101").
		Return(domain.UnknownValidation("NETWORK: could not reach numverify"))

	rec := do(t, srv, http.MethodPost, "/v1/phones/validate", "application/json",
		[]byte(`{"phoneNumber":"(217) 555-0101"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, false, body["valid"])
	require.Equal(t, "NETWORK: could not reach numverify", body["error"])
}

func TestValidatePhone_missingNumber(t *testing.T) {
	_, srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/phones/validate", "application/json", []byte(`{"phoneNumber":""}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
