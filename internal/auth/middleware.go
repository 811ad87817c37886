// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tomtom215/campkit/internal/logging"
)

type contextKey string

// ClaimsContextKey holds the *Claims of an authenticated request.
const ClaimsContextKey contextKey = "claims"

// Unauthorized writes the 401 response for a rejected request.
type Unauthorized func(w http.ResponseWriter, r *http.Request, message string)

// Middleware enforces bearer token authentication
type Middleware struct {
	jwtManager   *JWTManager
	unauthorized Unauthorized
}

// NewMiddleware creates the bearer middleware. onFail renders the 401 body;
// nil falls back to http.Error.
func NewMiddleware(jwtManager *JWTManager, onFail Unauthorized) *Middleware {
	if onFail == nil {
		onFail = func(w http.ResponseWriter, _ *http.Request, message string) {
			http.Error(w, message, http.StatusUnauthorized)
		}
	}
	return &Middleware{jwtManager: jwtManager, unauthorized: onFail}
}

// Authenticate rejects requests without a valid bearer token and stores
// the claims in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			m.unauthorized(w, r, "missing or malformed bearer token")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			m.unauthorized(w, r, "could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user's id.
func UserIDFromContext(ctx context.Context) (int, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	id, err := claims.UserID()
	return id, err == nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
