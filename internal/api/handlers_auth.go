// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/tomtom215/campkit/internal/auth"
	"github.com/tomtom215/campkit/internal/database"
	"github.com/tomtom215/campkit/internal/logging"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/validation"
)

// Token exchanges a username and password for a bearer token.
//
// Accepts an OAuth2 password form (application/x-www-form-urlencoded) or a
// JSON TokenRequest.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := parseTokenRequest(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	user, err := h.db.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to authenticate", err)
		return
	}
	if user == nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		logging.Ctx(r.Context()).Info().Str("username", sanitizeLogValue(req.Username)).Msg("Rejected login")
		w.Header().Set("WWW-Authenticate", "Bearer")
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Incorrect username or password", nil)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to issue token", err)
		return
	}

	respondData(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, start)
}

func parseTokenRequest(w http.ResponseWriter, r *http.Request) (*models.TokenRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, errors.New("invalid form body")
		}
		return &models.TokenRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	default:
		var req models.TokenRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}
}

// CreateUser registers a new account.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UserCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}
	if err := h.policy.Validate(req.Password, req.Username); err != nil {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: err.Error(),
			Details: map[string]interface{}{"field": "password"},
		})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create user", err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.Username, req.Email, hash)
	switch {
	case errors.Is(err, database.ErrConflict):
		respondError(w, http.StatusConflict, ErrCodeConflict, "Username or email already registered", nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create user", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int("user_id", user.ID).Msg("User registered")
	respondData(w, http.StatusCreated, user, start)
}

// CurrentUser returns the authenticated user.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	respondData(w, http.StatusOK, user, start)
}

// requireUser loads the user named by the request's token. It writes the
// error response and returns false when there is none.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Could not validate credentials", nil)
		return nil, false
	}

	user, err := h.db.GetUserByID(r.Context(), userID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Could not validate credentials", nil)
		return nil, false
	case err != nil:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load user", err)
		return nil, false
	case !user.IsActive:
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Inactive user", nil)
		return nil, false
	}
	return user, true
}
