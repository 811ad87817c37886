// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package recommend implements content-based campsite recommendation.
//
// Each campsite is described by a fixed six-feature vector (latitude,
// longitude, elevation, has_water, has_electricity, difficulty). Training
// z-score normalizes the corpus once and builds an exact nearest-neighbor
// index over the normalized vectors. Both are persisted together as the
// "recommender" artifact in the model store.
//
// # Recommendation flow
//
//  1. Pick the user's highest rating (first occurrence wins ties).
//  2. Normalize that campsite with the frozen parameters.
//  3. Query n+1 neighbors and drop the self-match.
//  4. Return at most n IDs that exist in the supplied corpus.
//
// Anything that prevents steps 1-4 (no ratings, unknown campsite, missing
// artifact after one retrain) degrades to a uniform random sample of the
// corpus. Recommend never returns an error.
//
// # Self-match policy
//
// SelfMatchDropFirst, the default, discards neighbor 0 unconditionally and
// then any remaining hit with the seed's ID. When another campsite shares
// the seed's vector the result may hold fewer than n IDs, but the seed
// itself is never returned.
// SelfMatchFilterID only removes hits whose ID equals the seed's ID.
package recommend
