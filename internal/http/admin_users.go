package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Clark-Hu/figure-collector/internal/auth"
	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/domain"
	"github.com/Clark-Hu/figure-collector/internal/stats"
)

type adminUserUpdateRequest struct {
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

type collectionReportResponse struct {
	Currency string                 `json:"currency"`
	AsOf     string                 `json:"ratesDate"`
	Users    []stats.UserCollection `json:"users"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.Users.ListWithCounts(r.Context())
	if err != nil {
		s.respondRepoError(w, err, "list users", "user")
		return
	}
	s.respondData(w, http.StatusOK, users)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req adminUserUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Role == nil && req.Password == nil {
		s.validationError(w, "role or password is required")
		return
	}

	var role *domain.Role
	if req.Role != nil {
		rl := domain.Role(strings.ToUpper(strings.TrimSpace(*req.Role)))
		if !rl.Valid() {
			s.validationError(w, "role must be USER or ADMIN")
			return
		}
		role = &rl
	}
	var hash *string
	if req.Password != nil {
		h, err := s.hasher.Hash(*req.Password)
		if err != nil {
			s.validationError(w, fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
			return
		}
		hash = &h
	}

	user, err := s.repo.Users.AdminUpdate(r.Context(), idParam(r), role, hash)
	if err != nil {
		s.respondRepoError(w, err, "update user", "user")
		return
	}
	s.logger.Info("user updated by admin", "user_id", user.ID, "role", user.Role, "password_changed", hash != nil, "by", identity(r).UserID)
	s.respondData(w, http.StatusOK, user)
}

// handleCollectionReport reports per-user copies, unique figures and spend in
// EUR minor units.
func (s *Server) handleCollectionReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listed, err := s.repo.Users.ListWithCounts(ctx)
	if err != nil {
		s.respondRepoError(w, err, "load collection report", "user")
		return
	}
	owned, err := s.repo.Owned.ListAll(ctx)
	if err != nil {
		s.respondRepoError(w, err, "load collection report", "owned item")
		return
	}

	users := make([]domain.User, 0, len(listed))
	for _, u := range listed {
		users = append(users, u.User)
	}
	daily := s.rates.Daily(ctx)
	s.respondData(w, http.StatusOK, collectionReportResponse{
		Currency: string(currency.Base),
		AsOf:     daily.AsOf,
		Users:    stats.SpendByUser(users, owned, currency.NewConverter(daily.Rates)),
	})
}
