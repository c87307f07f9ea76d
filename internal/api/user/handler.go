package user

import (
	"context"
	"encoding/json"
	"net/http"

	"animeapi/internal/domain"
	apperror "animeapi/internal/errors"
	"animeapi/internal/pkg/logger"
)

// UserService is the authentication contract the handler depends on.
type UserService interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenResponse is the success payload of the login endpoint.
type TokenResponse struct {
	Token string `json:"token"`
}

// Handler exposes the authentication provider over HTTP.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler creates the user handler.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Register handles POST /register.
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body domain.Credentials true "username and password"
// @Success 201 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		apperror.Present(w, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	created, err := h.Service.Register(r.Context(), creds.Username, creds.Password)
	if err != nil {
		apperror.Present(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// Login handles POST /login.
// @Summary Exchange credentials for a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body domain.Credentials true "username and password"
// @Success 200 {object} user.TokenResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		apperror.Present(w, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	signed, err := h.Service.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		h.Logger.Debug("login rejected", map[string]interface{}{"username": creds.Username})
		apperror.Present(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(TokenResponse{Token: signed})
}
