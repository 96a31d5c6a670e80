package httpserver

import (
	"errors"
	"net/http"

	"github.com/Clark-Hu/figure-collector/internal/auth"
)

type profileRequest struct {
	Name *string `json:"name"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.repo.Users.GetByID(r.Context(), identity(r).UserID)
	if err != nil {
		s.respondRepoError(w, err, "load profile", "user")
		return
	}
	s.respondData(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Name == nil {
		s.validationError(w, "name is required")
		return
	}
	if len([]rune(*req.Name)) > 100 {
		s.validationError(w, "name must be at most 100 characters")
		return
	}

	user, err := s.repo.Users.UpdateName(r.Context(), identity(r).UserID, trimmedPtr(req.Name))
	if err != nil {
		s.respondRepoError(w, err, "update profile", "user")
		return
	}
	s.respondData(w, http.StatusOK, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		s.validationError(w, "newPassword must be at least 8 characters")
		return
	}

	id := identity(r)
	user, err := s.repo.Users.GetByID(r.Context(), id.UserID)
	if err != nil {
		s.respondRepoError(w, err, "change password", "user")
		return
	}
	if err := s.hasher.Check(user.PasswordHash, req.CurrentPassword); err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "current password is incorrect")
		return
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			s.validationError(w, "newPassword must be at least 8 characters")
			return
		}
		s.logger.Error("hash password failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to change password")
		return
	}
	if err := s.repo.Users.UpdatePassword(r.Context(), id.UserID, hash); err != nil {
		s.respondRepoError(w, err, "change password", "user")
		return
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
