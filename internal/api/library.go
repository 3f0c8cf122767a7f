package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scadakit/scriptvault/internal/notify"
	"github.com/scadakit/scriptvault/internal/store"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	snapshot, err := s.Store.ExportAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	// Imports accept any document matching the export shape, including
	// files from other releases, so unknown fields are tolerated here.
	var snapshot store.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	imported, err := s.Store.ImportAll(r.Context(), snapshot)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if s.Hub != nil {
		s.Hub.Publish(notify.Notification{
			Body: fmt.Sprintf("Imported %d scripts", imported),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": imported})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	total, err := s.Store.Count(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	categories, err := s.Store.CountByCategory(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":      total,
		"categories": categories,
	})
}
