// Package server hosts the check-in submission endpoint.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/dayglow/internal/constants"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

const allowedMethods = "POST, OPTIONS"

type okResponse struct {
	OK         bool   `json:"ok"`
	ReceivedAt string `json:"receivedAt"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Handler validates check-in submissions. It stores nothing.
type Handler struct {
	log *log.Logger
	now func() time.Time
}

// NewHandler serves /api/checkin and /.
func NewHandler(logger *log.Logger) http.Handler {
	h := &Handler{log: logger, now: time.Now}
	mux := http.NewServeMux()
	mux.Handle("/api/checkin", h)
	mux.Handle("/", h)
	return mux
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logError("Check-in handler panicked", "panic", fmt.Sprint(rec))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
	}()

	w.Header().Set("Access-Control-Allow-Origin", "*")
	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", allowedMethods)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	}
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type *string `json:"type"`
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if body.Type == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing type"})
		return
	}
	if *body.Type != constants.CheckinType {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unsupported type %q", *body.Type)})
		return
	}

	receivedAt := h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	if h.log != nil {
		h.log.Info("Check-in received", "remote", r.RemoteAddr, "receivedAt", receivedAt)
	}
	if err := writeJSON(w, http.StatusOK, okResponse{OK: true, ReceivedAt: receivedAt}); err != nil {
		h.logError("Failed to encode response", "error", err)
	}
}

func (h *Handler) logError(msg string, keyvals ...any) {
	if h.log != nil {
		h.log.Error(msg, keyvals...)
	}
}

var errEncode = errors.New("failed to encode response")

// writeJSON encodes before writing headers so an encode failure can still
// become a 500.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, `{"ok":false,"error":"internal error"}`, http.StatusInternalServerError)
		return fmt.Errorf("%w: %v", errEncode, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}
