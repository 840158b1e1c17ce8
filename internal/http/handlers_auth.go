package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if len(req.Username) < 3 || len(req.Username) > 30 {
		writeError(w, http.StatusUnprocessableEntity, "username must be between 3 and 30 characters")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "invalid email")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hash failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Username, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusConflict, "username or email already exists")
			return
		}
		slog.ErrorContext(r.Context(), "Create user failed", "error", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := s.users.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.WarnContext(r.Context(), "Invalid password attempt", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) issueToken(user *core.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
