package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, method, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, "/api/leads", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestHandlerCreatesLead(t *testing.T) {
	coll := newTestCollection(t)
	h := NewHandler(NewService(coll), nil)
	rec, out := serve(t, h, http.MethodPost, `{"email":"ana@clinic.vet","clinicName":"Paws & Co"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, MsgThanks, out["message"])

	got, err := coll.Get(t.Context(), out["id"])
	require.NoError(t, err)
	assert.Equal(t, "ana@clinic.vet", got.Email)
	assert.Equal(t, "Paws & Co", got.ClinicName)
}

func TestHandlerMissingEmail(t *testing.T) {
	h := NewHandler(NewService(&memCollection{}), nil)
	rec, out := serve(t, h, http.MethodPost, `{"clinicName":"Paws"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required", out["error"])
}

func TestHandlerBadJSON(t *testing.T) {
	h := NewHandler(NewService(&memCollection{}), nil)
	rec, _ := serve(t, h, http.MethodPost, `[1,2`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerStoreFailure(t *testing.T) {
	h := NewHandler(NewService(&memCollection{err: errors.New("quota exceeded")}), nil)
	rec, out := serve(t, h, http.MethodPost, `{"email":"ana@clinic.vet"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, MsgFailed, out["error"])
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h := NewHandler(NewService(&memCollection{}), nil)
	rec, _ := serve(t, h, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}
