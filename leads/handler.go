package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 16 << 10

type createdResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves POST /api/leads.
type Handler struct {
	svc *Service
	log *zap.Logger
}

// NewHandler returns a handler submitting through svc. A nil logger
// discards.
func NewHandler(svc *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}
	var req Request
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Request body must be a JSON object"})
		return
	}

	id, err := h.svc.Submit(r.Context(), req)
	switch {
	case errors.Is(err, ErrEmailRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Email is required"})
	case err != nil:
		h.log.Error("submitting lead failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: MsgFailed})
	default:
		writeJSON(w, http.StatusCreated, createdResponse{ID: id, Message: MsgThanks})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
