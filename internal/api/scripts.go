package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/scadakit/scriptvault/internal/store"
)

func (s *Server) handleScripts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListScripts(w, r)
	case http.MethodPost:
		var draft store.Draft
		if err := decodeJSON(r.Body, &draft); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		script, err := s.Store.Add(r.Context(), draft)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, script)
	default:
		writeMethodNotAllowed(w)
	}
}

// handleListScripts resolves the list in caller-policy order: a search
// query wins over a category filter, and the empty query means list all.
// Sorting happens here, not in the store; records come back unordered.
func (s *Server) handleListScripts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	var scripts []store.Script
	var err error
	switch {
	case query != "":
		scripts, err = s.Store.Search(r.Context(), query)
	case category != "" && category != "all":
		scripts, err = s.Store.ListByCategory(r.Context(), category)
	default:
		scripts, err = s.Store.ListAll(r.Context())
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	store.Sort(scripts, store.SortMode(r.URL.Query().Get("sort")))
	if scripts == nil {
		scripts = []store.Script{}
	}
	writeJSON(w, http.StatusOK, scripts)
}

func (s *Server) handleScriptItem(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/scripts/")
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		writeError(w, http.StatusNotFound, fmt.Errorf("script not found"))
		return
	}
	id, err := strconv.ParseInt(segments[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid script id %q", segments[0]))
		return
	}

	if len(segments) > 1 {
		if segments[1] == "text" {
			s.handleScriptText(w, r, id)
			return
		}
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown script action %q", segments[1]))
		return
	}

	switch r.Method {
	case http.MethodGet:
		script, err := s.Store.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if script == nil {
			writeError(w, http.StatusNotFound, store.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, script)
	case http.MethodPut:
		var draft store.Draft
		if err := decodeJSON(r.Body, &draft); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		script, err := s.Store.Update(r.Context(), id, draft)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, script)
	case http.MethodDelete:
		if err := s.Store.Delete(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeMethodNotAllowed(w)
	}
}

func (s *Server) handleScriptText(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	script, err := s.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if script == nil {
		writeError(w, http.StatusNotFound, store.ErrNotFound)
		return
	}

	filename := store.SanitizeFilename(script.Name) + ".txt"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(store.RenderText(*script)))
}
