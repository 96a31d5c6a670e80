package httpserver

import (
	"net/http"

	"github.com/Clark-Hu/figure-collector/internal/domain"
)

type catalogResponse struct {
	Series  []string        `json:"series"`
	Figures []domain.Figure `json:"figures"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	names, err := s.repo.Series.Names(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "load catalog", "series")
		return
	}
	figures, err := s.repo.Figures.Catalog(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "load catalog", "figure")
		return
	}
	s.respondData(w, http.StatusOK, catalogResponse{Series: names, Figures: figures})
}

// handleFX never fails: the provider degrades to the fallback table.
func (s *Server) handleFX(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	s.respondData(w, http.StatusOK, s.rates.Daily(r.Context()))
}
