package httpserver

import (
	"net/http"
	"strings"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/repository"
	"github.com/Clark-Hu/figure-collector/internal/stats"
)

type ownedCreateRequest struct {
	FigureID       string   `json:"figureId"`
	PricePaidCents *int64   `json:"pricePaidCents"`
	TaxCents       *int64   `json:"taxCents"`
	ShippingCents  *int64   `json:"shippingCents"`
	Currency       *string  `json:"currency"`
	FxPerEUR       *float64 `json:"fxPerEUR"`
	Note           *string  `json:"note"`
}

type ownedUpdateRequest struct {
	PricePaidCents *int64   `json:"pricePaidCents"`
	TaxCents       *int64   `json:"taxCents"`
	ShippingCents  *int64   `json:"shippingCents"`
	Currency       *string  `json:"currency"`
	FxPerEUR       *float64 `json:"fxPerEUR"`
	Note           *string  `json:"note"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func (s *Server) handleListOwned(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.Owned.ListByUser(r.Context(), identity(r).UserID)
	if err != nil {
		s.respondRepoError(w, err, "list owned", "owned item")
		return
	}
	s.respondData(w, http.StatusOK, items)
}

func (s *Server) handleCreateOwned(w http.ResponseWriter, r *http.Request) {
	var req ownedCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	figureID := strings.TrimSpace(req.FigureID)
	if figureID == "" {
		s.validationError(w, "figureId is required")
		return
	}
	if msg := firstNegative(
		amountField{"pricePaidCents", req.PricePaidCents},
		amountField{"taxCents", req.TaxCents},
		amountField{"shippingCents", req.ShippingCents},
	); msg != "" {
		s.validationError(w, msg)
		return
	}
	code, ok := parseCurrencyPtr(req.Currency)
	if !ok {
		s.validationError(w, "currency must be one of EUR, USD, GBP, JPY")
		return
	}
	if req.FxPerEUR != nil && *req.FxPerEUR <= 0 {
		s.validationError(w, "fxPerEUR must be positive")
		return
	}

	ccy := string(currency.Base)
	if code != nil {
		ccy = *code
	}
	owned, err := s.repo.Owned.Create(r.Context(), repository.OwnedCreateParams{
		UserID:         identity(r).UserID,
		FigureID:       figureID,
		PricePaidCents: valueOr(req.PricePaidCents, 0),
		TaxCents:       valueOr(req.TaxCents, 0),
		ShippingCents:  valueOr(req.ShippingCents, 0),
		Currency:       ccy,
		FxPerEUR:       req.FxPerEUR,
		Note:           normalizeStringPtr(req.Note),
	})
	if err != nil {
		s.respondRepoError(w, err, "create owned", "figure")
		return
	}
	s.respondData(w, http.StatusCreated, owned)
}

func (s *Server) handleUpdateOwned(w http.ResponseWriter, r *http.Request) {
	var req ownedUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if msg := firstNegative(
		amountField{"pricePaidCents", req.PricePaidCents},
		amountField{"taxCents", req.TaxCents},
		amountField{"shippingCents", req.ShippingCents},
	); msg != "" {
		s.validationError(w, msg)
		return
	}
	code, ok := parseCurrencyPtr(req.Currency)
	if !ok {
		s.validationError(w, "currency must be one of EUR, USD, GBP, JPY")
		return
	}
	if req.FxPerEUR != nil && *req.FxPerEUR <= 0 {
		s.validationError(w, "fxPerEUR must be positive")
		return
	}

	owned, err := s.repo.Owned.Update(r.Context(), identity(r).UserID, idParam(r), repository.OwnedUpdateParams{
		PricePaidCents: req.PricePaidCents,
		TaxCents:       req.TaxCents,
		ShippingCents:  req.ShippingCents,
		Currency:       code,
		FxPerEUR:       req.FxPerEUR,
		Note:           trimmedPtr(req.Note),
	})
	if err != nil {
		s.respondRepoError(w, err, "update owned", "owned item")
		return
	}
	s.respondData(w, http.StatusOK, owned)
}

func (s *Server) handleDeleteOwned(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Owned.Delete(r.Context(), identity(r).UserID, idParam(r)); err != nil {
		s.respondRepoError(w, err, "delete owned", "owned item")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleOwnedSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.repo.Owned.Summary(r.Context(), identity(r).UserID)
	if err != nil {
		s.respondRepoError(w, err, "summarize owned", "owned item")
		return
	}
	s.respondData(w, http.StatusOK, stats.Summary{
		Copies:     int(summary.Copies),
		Unique:     int(summary.Unique),
		Duplicates: int(summary.Copies - summary.Unique),
	})
}

func (s *Server) handleOwnedCount(w http.ResponseWriter, r *http.Request) {
	figureID := strings.TrimSpace(r.URL.Query().Get("figureId"))
	n, err := s.repo.Owned.Count(r.Context(), identity(r).UserID, figureID)
	if err != nil {
		s.respondRepoError(w, err, "count owned", "owned item")
		return
	}
	s.respondData(w, http.StatusOK, countResponse{Count: n})
}

func valueOr[T any](ptr *T, fallback T) T {
	if ptr == nil {
		return fallback
	}
	return *ptr
}
