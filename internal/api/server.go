package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/scadakit/scriptvault/internal/notify"
	"github.com/scadakit/scriptvault/internal/store"
)

// Server is the JSON surface the view layer talks to. Every script
// operation goes through the injected store; the server holds no record
// state of its own.
type Server struct {
	Store     *store.Store
	Hub       *notify.Hub
	Log       zerolog.Logger
	StartedAt time.Time
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scripts", s.handleScripts)
	mux.HandleFunc("/api/scripts/", s.handleScriptItem)
	mux.HandleFunc("/api/library/export", s.handleExport)
	mux.HandleFunc("/api/library/import", s.handleImport)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/notify/ws", s.handleNotifyWS)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().UTC()})
}

func decodeJSON(body io.Reader, dest any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeStoreError maps the store error taxonomy onto HTTP statuses. The
// store's message reaches the client unmodified.
func writeStoreError(w http.ResponseWriter, err error) {
	var validationErr *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
}
