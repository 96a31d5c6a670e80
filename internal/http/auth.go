package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Clark-Hu/figure-collector/internal/auth"
	"github.com/Clark-Hu/figure-collector/internal/domain"
	"github.com/Clark-Hu/figure-collector/internal/repository"
)

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !auth.ValidEmail(email) {
		s.validationError(w, "email is invalid")
		return
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			s.validationError(w, "password must be at least 8 characters")
			return
		}
		s.logger.Error("hash password failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Email:        email,
		Name:         normalizeStringPtr(req.Name),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "email already registered")
			return
		}
		s.respondRepoError(w, err, "register", "user")
		return
	}
	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	s.respondData(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	user, err := s.repo.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
			return
		}
		s.respondRepoError(w, err, "login", "user")
		return
	}
	if err := s.hasher.Check(user.PasswordHash, req.Password); err != nil {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password")
		return
	}

	token, hash, err := auth.NewToken()
	if err != nil {
		s.logger.Error("issue token failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to login")
		return
	}
	expiresAt := s.now().Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour).UTC()
	if err := s.repo.Sessions.Create(r.Context(), hash, user.ID, expiresAt); err != nil {
		s.respondRepoError(w, err, "login", "user")
		return
	}
	s.respondData(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// handleLogout is idempotent: unknown or missing tokens still yield 204.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		if err := s.repo.Sessions.Delete(r.Context(), auth.HashToken(token)); err != nil {
			s.respondRepoError(w, err, "logout", "session")
			return
		}
	}
	s.respondJSON(w, http.StatusNoContent, nil)
}
