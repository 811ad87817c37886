// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package auth issues and checks the bearer tokens that protect write
// endpoints.
//
// Tokens are HS256 JWTs (golang-jwt/jwt/v5) whose subject is the numeric
// user id. Passwords are stored as bcrypt hashes (golang.org/x/crypto) and
// must pass PasswordPolicy at registration.
//
// Usage:
//
//	jwtManager, err := auth.NewJWTManager(&cfg.Security)
//	mw := auth.NewMiddleware(jwtManager, nil)
//	r.With(func(h http.Handler) http.Handler { return mw.Authenticate(h) }).Post("/campsites", ...)
//
// Handlers behind Authenticate read the caller with UserIDFromContext.
package auth
