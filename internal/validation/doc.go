// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use and shared. Request
// structs in internal/models carry the validate tags; this package adds
// cross-field rules that tags cannot express:
//   - TripCreate: end_date must not be before start_date
//   - UserPreference: max_elevation must not be below min_elevation
//
// Field names in errors come from json tags, so messages name the fields
// the client actually sent.
//
// Usage:
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusUnprocessableEntity, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
