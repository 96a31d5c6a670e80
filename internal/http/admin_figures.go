package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/domain"
	"github.com/Clark-Hu/figure-collector/internal/repository"
)

const (
	minReleaseYear = 1900
	maxReleaseYear = 2100
)

type figureCreateRequest struct {
	Name           string  `json:"name"`
	Character      string  `json:"character"`
	CharacterBase  *string `json:"characterBase"`
	Variant        *string `json:"variant"`
	Line           string  `json:"line"`
	ReleaseYear    int     `json:"releaseYear"`
	ReleaseType    *string `json:"releaseType"`
	BodyVersion    *string `json:"bodyVersion"`
	BodyVersionTag *string `json:"bodyVersionTag"`
	Saga           *string `json:"saga"`
	MSRPCents      *int64  `json:"msrpCents"`
	MSRPCurrency   *string `json:"msrpCurrency"`
	Image          string  `json:"image"`
	SeriesID       string  `json:"seriesId"`
}

type figureUpdateRequest struct {
	Name           *string `json:"name"`
	Character      *string `json:"character"`
	CharacterBase  *string `json:"characterBase"`
	Variant        *string `json:"variant"`
	Line           *string `json:"line"`
	ReleaseYear    *int    `json:"releaseYear"`
	ReleaseType    *string `json:"releaseType"`
	BodyVersion    *string `json:"bodyVersion"`
	BodyVersionTag *string `json:"bodyVersionTag"`
	Saga           *string `json:"saga"`
	MSRPCents      *int64  `json:"msrpCents"`
	MSRPCurrency   *string `json:"msrpCurrency"`
	Image          *string `json:"image"`
	SeriesID       *string `json:"seriesId"`
}

type figureReassignRequest struct {
	FigureID string `json:"figureId"`
	SeriesID string `json:"seriesId"`
}

type figureListResponse struct {
	Items      []domain.Figure `json:"items"`
	NextCursor *string         `json:"nextCursor,omitempty"`
}

func (s *Server) handleListFigures(w http.ResponseWriter, r *http.Request) {
	filters, err := buildFigureFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := s.repo.Figures.List(r.Context(), filters)
	if err != nil {
		s.respondRepoError(w, err, "list figures", "figure")
		return
	}
	s.respondData(w, http.StatusOK, figureListResponse{Items: result.Items, NextCursor: result.NextCursor})
}

func buildFigureFilters(query url.Values) (repository.FigureListFilters, error) {
	var filters repository.FigureListFilters

	if q := strings.TrimSpace(query.Get("q")); q != "" {
		filters.Query = &q
	}
	if val := strings.TrimSpace(query.Get("seriesId")); val != "" {
		filters.SeriesID = &val
	}
	if val := strings.TrimSpace(query.Get("year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return filters, fmt.Errorf("invalid year value")
		}
		filters.Year = &year
	}
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		limit, err := strconv.Atoi(val)
		if err != nil || limit <= 0 {
			return filters, fmt.Errorf("invalid limit value")
		}
		filters.Limit = limit
	}
	if val := strings.TrimSpace(query.Get("cursor")); val != "" {
		cursor, err := repository.DecodeCursor(val)
		if err != nil {
			return filters, fmt.Errorf("invalid cursor value")
		}
		filters.Cursor = cursor
	}
	return filters, nil
}

func (s *Server) handleCreateFigure(w http.ResponseWriter, r *http.Request) {
	var req figureCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	params, msg := req.toParams()
	if msg != "" {
		s.validationError(w, msg)
		return
	}
	figure, err := s.repo.Figures.Create(r.Context(), params)
	if err != nil {
		s.respondRepoError(w, err, "create figure", "series")
		return
	}
	s.respondData(w, http.StatusCreated, figure)
}

func (req figureCreateRequest) toParams() (repository.FigureCreateParams, string) {
	name := strings.TrimSpace(req.Name)
	character := strings.TrimSpace(req.Character)
	if name == "" || character == "" {
		return repository.FigureCreateParams{}, "name and character are required"
	}
	if strings.TrimSpace(req.SeriesID) == "" {
		return repository.FigureCreateParams{}, "seriesId is required"
	}
	if req.ReleaseYear < minReleaseYear || req.ReleaseYear > maxReleaseYear {
		return repository.FigureCreateParams{}, fmt.Sprintf("releaseYear must be between %d and %d", minReleaseYear, maxReleaseYear)
	}
	if msg := firstNegative(amountField{"msrpCents", req.MSRPCents}); msg != "" {
		return repository.FigureCreateParams{}, msg
	}
	releaseType, bodyVersion, msg := parseFigureEnums(req.ReleaseType, req.BodyVersion)
	if msg != "" {
		return repository.FigureCreateParams{}, msg
	}
	msrpCurrency := string(currency.Base)
	if req.MSRPCurrency != nil {
		code, ok := parseCurrencyPtr(req.MSRPCurrency)
		if !ok {
			return repository.FigureCreateParams{}, "msrpCurrency must be one of EUR, USD, GBP, JPY"
		}
		msrpCurrency = *code
	}

	return repository.FigureCreateParams{
		Name:           name,
		Character:      character,
		CharacterBase:  normalizeStringPtr(req.CharacterBase),
		Variant:        normalizeStringPtr(req.Variant),
		Line:           strings.TrimSpace(req.Line),
		ReleaseYear:    req.ReleaseYear,
		ReleaseType:    releaseType,
		BodyVersion:    bodyVersion,
		BodyVersionTag: normalizeStringPtr(req.BodyVersionTag),
		Saga:           normalizeStringPtr(req.Saga),
		MSRPCents:      valueOr(req.MSRPCents, 0),
		MSRPCurrency:   msrpCurrency,
		Image:          strings.TrimSpace(req.Image),
		SeriesID:       strings.TrimSpace(req.SeriesID),
	}, ""
}

func (s *Server) handleUpdateFigure(w http.ResponseWriter, r *http.Request) {
	var req figureUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		s.validationError(w, "name cannot be empty")
		return
	}
	if req.Character != nil && strings.TrimSpace(*req.Character) == "" {
		s.validationError(w, "character cannot be empty")
		return
	}
	if req.ReleaseYear != nil && (*req.ReleaseYear < minReleaseYear || *req.ReleaseYear > maxReleaseYear) {
		s.validationError(w, fmt.Sprintf("releaseYear must be between %d and %d", minReleaseYear, maxReleaseYear))
		return
	}
	if msg := firstNegative(amountField{"msrpCents", req.MSRPCents}); msg != "" {
		s.validationError(w, msg)
		return
	}
	releaseType, bodyVersion, msg := parseFigureEnums(req.ReleaseType, req.BodyVersion)
	if msg != "" {
		s.validationError(w, msg)
		return
	}
	msrpCurrency, ok := parseCurrencyPtr(req.MSRPCurrency)
	if !ok {
		s.validationError(w, "msrpCurrency must be one of EUR, USD, GBP, JPY")
		return
	}

	figure, err := s.repo.Figures.Update(r.Context(), idParam(r), repository.FigureUpdateParams{
		Name:           normalizeStringPtr(req.Name),
		Character:      normalizeStringPtr(req.Character),
		CharacterBase:  normalizeStringPtr(req.CharacterBase),
		Variant:        normalizeStringPtr(req.Variant),
		Line:           trimmedPtr(req.Line),
		ReleaseYear:    req.ReleaseYear,
		ReleaseType:    releaseType,
		BodyVersion:    bodyVersion,
		BodyVersionTag: normalizeStringPtr(req.BodyVersionTag),
		Saga:           normalizeStringPtr(req.Saga),
		MSRPCents:      req.MSRPCents,
		MSRPCurrency:   msrpCurrency,
		Image:          trimmedPtr(req.Image),
		SeriesID:       normalizeStringPtr(req.SeriesID),
	})
	if err != nil {
		s.respondRepoError(w, err, "update figure", "figure or series")
		return
	}
	s.respondData(w, http.StatusOK, figure)
}

func (s *Server) handleReassignFigure(w http.ResponseWriter, r *http.Request) {
	var req figureReassignRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	figureID, seriesID := strings.TrimSpace(req.FigureID), strings.TrimSpace(req.SeriesID)
	if figureID == "" || seriesID == "" {
		s.validationError(w, "figureId and seriesId are required")
		return
	}

	figure, err := s.repo.Figures.Reassign(r.Context(), figureID, seriesID)
	if err != nil {
		s.respondRepoError(w, err, "reassign figure", "figure or series")
		return
	}
	s.respondData(w, http.StatusOK, figure)
}

func (s *Server) handleDeleteFigure(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Figures.Delete(r.Context(), idParam(r)); err != nil {
		s.respondRepoError(w, err, "delete figure", "figure")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}

func parseFigureEnums(rawType, rawBody *string) (*domain.ReleaseType, *domain.BodyVersion, string) {
	var (
		releaseType *domain.ReleaseType
		bodyVersion *domain.BodyVersion
	)
	if v := normalizeStringPtr(rawType); v != nil {
		rt := domain.ReleaseType(strings.ToLower(*v))
		if !rt.Valid() {
			return nil, nil, "releaseType is invalid"
		}
		releaseType = &rt
	}
	if v := normalizeStringPtr(rawBody); v != nil {
		bv := domain.BodyVersion(strings.ToUpper(*v))
		if !bv.Valid() {
			return nil, nil, "bodyVersion is invalid"
		}
		bodyVersion = &bv
	}
	return releaseType, bodyVersion, ""
}
