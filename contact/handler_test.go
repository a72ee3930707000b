package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Insert(context.Context, Submission) (Contact, error) {
	return Contact{}, errors.New("disk full")
}

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestHandlerRejectsNineCharacterMessage(t *testing.T) {
	h := NewHandler(newTestStore(t), nil)
	rec, out := post(t, h, `{"name":"Ana","email":"ana@clinic.vet","message":"123456789"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid input", out["error"])
	assert.Equal(t, []any{MsgShortMessage}, out["details"])
}

func TestHandlerAcceptsTenCharacterMessage(t *testing.T) {
	h := NewHandler(newTestStore(t), nil)
	rec, out := post(t, h, `{"name":"Ana","email":"ana@clinic.vet","message":"1234567890"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Contact form submitted successfully", out["message"])

	c, ok := out["contact"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, c["id"])
	assert.Equal(t, "1234567890", c["message"])
	created, err := time.Parse(time.RFC3339Nano, c["created_at"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), created, time.Minute)
}

func TestHandlerReportsEveryProblem(t *testing.T) {
	h := NewHandler(newTestStore(t), nil)
	rec, out := post(t, h, `{"email":"not-an-email","message":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{MsgNameRequired, MsgInvalidEmail, MsgShortMessage}, out["details"])
}

func TestHandlerMalformedBody(t *testing.T) {
	h := NewHandler(newTestStore(t), nil)
	rec, out := post(t, h, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid input", out["error"])
}

func TestHandlerStoreFailure(t *testing.T) {
	h := NewHandler(failingStore{}, nil)
	rec, out := post(t, h, `{"name":"Ana","email":"ana@clinic.vet","message":"1234567890"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", out["error"])
	assert.Equal(t, "Failed to submit contact form", out["message"])
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h := NewHandler(newTestStore(t), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}
