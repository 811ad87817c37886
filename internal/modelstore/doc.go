// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package modelstore persists trained model artifacts.
//
// Five artifacts are stored by name: the recommender bundle (normalizer plus
// similarity index) and one regression ensemble per weather variable. Each
// artifact is gob-encoded, checksummed with SHA-256 and gzip-compressed
// before it is handed to a Backend.
//
// # Backends
//
//   - FileBackend writes {name}_v{version}.gob.gz files and keeps the latest
//     few versions per artifact.
//   - BadgerBackend stores envelopes in an embedded BadgerDB keyspace.
//
// # Loading
//
// Load returns a tagged Result instead of an error so callers branch on
// Status explicitly:
//
//	res := modelstore.Load[*recommend.Model](ctx, store, modelstore.ArtifactRecommender)
//	switch res.Status {
//	case modelstore.StatusOK:
//	    use(res.Value)
//	case modelstore.StatusArtifactMissing:
//	    // retrain once, then retry
//	}
//
// A missing, truncated or checksum-mismatched artifact all report
// StatusArtifactMissing.
//
// # Retraining
//
// Store.Retrain serializes retrain-and-persist cycles behind a mutex so two
// callers never interleave writes for the same store. Decoded artifacts are
// cached in memory until Reload or the next Save.
package modelstore
