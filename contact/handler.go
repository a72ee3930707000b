package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// maxBodyBytes bounds the request body.
const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
	Message string   `json:"message,omitempty"`
}

type successResponse struct {
	Message string  `json:"message"`
	Contact Contact `json:"contact"`
}

// Handler serves POST /api/contact.
type Handler struct {
	store Store
	log   *zap.Logger
}

// NewHandler returns a handler persisting to store. A nil logger discards.
func NewHandler(store Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	var sub Submission
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid input",
			Details: []string{"Request body must be a JSON object"},
		})
		return
	}
	if err := sub.Validate(); err != nil {
		var verr *ValidationError
		errors.As(err, &verr)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid input", Details: verr.Details})
		return
	}

	c, err := h.store.Insert(r.Context(), sub)
	if err != nil {
		h.log.Error("submitting contact form failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "Internal server error",
			Message: "Failed to submit contact form",
		})
		return
	}
	writeJSON(w, http.StatusOK, successResponse{
		Message: "Contact form submitted successfully",
		Contact: c,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
