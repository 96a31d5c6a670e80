package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Clark-Hu/figure-collector/internal/repository"
)

type seriesRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Series.List(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "list series", "series")
		return
	}
	s.respondData(w, http.StatusOK, items)
}

func (s *Server) handleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.validationError(w, "name is required")
		return
	}

	series, err := s.repo.Series.Create(r.Context(), name)
	if err != nil {
		s.respondRepoError(w, err, "create series", "series")
		return
	}
	s.respondData(w, http.StatusCreated, series)
}

func (s *Server) handleRenameSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.validationError(w, "name is required")
		return
	}

	series, err := s.repo.Series.Rename(r.Context(), idParam(r), name)
	if err != nil {
		s.respondRepoError(w, err, "rename series", "series")
		return
	}
	s.respondData(w, http.StatusOK, series)
}

// handleDeleteSeries refuses while figures remain unless ?force=true.
func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	force := false
	if raw := strings.TrimSpace(r.URL.Query().Get("force")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid force value")
			return
		}
		force = parsed
	}

	if err := s.repo.Series.Delete(r.Context(), idParam(r), force); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			s.respondError(w, http.StatusConflict, "IN_USE", "series still has figures; retry with force=true")
			return
		}
		s.respondRepoError(w, err, "delete series", "series")
		return
	}
	s.logger.Info("series deleted", "series_id", idParam(r), "force", force, "by", identity(r).UserID)
	s.respondJSON(w, http.StatusNoContent, nil)
}
