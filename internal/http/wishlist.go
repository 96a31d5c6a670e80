package httpserver

import (
	"net/http"
	"strings"

	"github.com/Clark-Hu/figure-collector/internal/repository"
)

type wishRequest struct {
	FigureID    string  `json:"figureId"`
	WantAnother *bool   `json:"wantAnother"`
	Note        *string `json:"note"`
}

func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Wishlist.ListByUser(r.Context(), identity(r).UserID)
	if err != nil {
		s.respondRepoError(w, err, "list wishlist", "wishlist item")
		return
	}
	s.respondData(w, http.StatusOK, items)
}

// handleUpsertWish creates the entry (201) or updates the existing one for
// the same figure (200).
func (s *Server) handleUpsertWish(w http.ResponseWriter, r *http.Request) {
	var req wishRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	figureID := strings.TrimSpace(req.FigureID)
	if figureID == "" {
		s.validationError(w, "figureId is required")
		return
	}

	wish, inserted, err := s.repo.Wishlist.Upsert(r.Context(), repository.WishUpsertParams{
		UserID:      identity(r).UserID,
		FigureID:    figureID,
		WantAnother: valueOr(req.WantAnother, false),
		Note:        normalizeStringPtr(req.Note),
	})
	if err != nil {
		s.respondRepoError(w, err, "save wishlist", "figure")
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	s.respondData(w, status, wish)
}

func (s *Server) handleDeleteWish(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Wishlist.Delete(r.Context(), identity(r).UserID, idParam(r)); err != nil {
		s.respondRepoError(w, err, "delete wishlist", "wishlist item")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
