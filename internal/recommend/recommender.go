// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/metrics"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/modelstore"
)

// ModelName labels recommender training metrics.
const ModelName = "recommender"

// Recommender turns a user's rating history into ranked campsite IDs.
// It is safe for concurrent use.
type Recommender struct {
	store  *modelstore.Store
	config Config
	logger zerolog.Logger

	// Fallback sampler (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewRecommender creates a recommender backed by store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommender(store *modelstore.Store, cfg Config, logger zerolog.Logger) (*Recommender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Recommender{
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for fallback sampling
	}, nil
}

// SetRand replaces the fallback random source.
func (r *Recommender) SetRand(rng *rand.Rand) {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	r.rng = rng
}

// Config returns the recommender configuration.
func (r *Recommender) Config() Config {
	return r.config
}

// Recommend returns at most n unique campsite IDs from campsites, ranked by
// similarity to the user's top-rated campsite. It never fails: every error
// path ends in a random sample of the corpus.
func (r *Recommender) Recommend(ctx context.Context, userID int, campsites []models.Campsite, ratings []models.Rating, n int) []int {
	start := time.Now()
	ids, outcome := r.recommend(ctx, userID, campsites, ratings, n)
	metrics.RecordRecommendation(outcome, time.Since(start))
	return ids
}

func (r *Recommender) recommend(ctx context.Context, userID int, campsites []models.Campsite, ratings []models.Rating, n int) ([]int, string) {
	if n <= 0 || len(campsites) == 0 {
		return []int{}, metrics.OutcomeFallback
	}
	// The result never outgrows the corpus.
	n = min(n, len(campsites))

	seed, ok := topRatedCampsite(campsites, ratings)
	if !ok {
		r.logger.Debug().Int("user_id", userID).Int("ratings", len(ratings)).Msg("No usable rating, sampling randomly")
		return r.fallback(campsites, n), metrics.OutcomeFallback
	}

	outcome := metrics.OutcomeModel
	res := modelstore.Load[*Model](ctx, r.store, modelstore.ArtifactRecommender)
	if res.OK() && !res.Value.usable() {
		res = modelstore.Result[*Model]{Status: modelstore.StatusArtifactMissing}
	}
	if !res.OK() {
		r.logger.Warn().Err(res.Err).Int("user_id", userID).Msg("Recommender artifact unavailable, retraining once")
		res = r.retrainAndLoad(ctx, campsites)
		if !res.OK() {
			r.logger.Error().Err(res.Err).Str("status", res.Status.String()).Int("user_id", userID).
				Msg("Recommender retrain failed, sampling randomly")
			return r.fallback(campsites, n), metrics.OutcomeFallback
		}
		outcome = metrics.OutcomeRetrain
	}

	return r.neighbors(res.Value, &seed, campsites, n), outcome
}

// neighbors queries n+1 hits, removes the self-match per policy and keeps
// only IDs present in the supplied corpus. The seed's ID is never returned.
func (r *Recommender) neighbors(m *Model, seed *models.Campsite, campsites []models.Campsite, n int) []int {
	query := m.Normalizer.Transform(FeaturesOf(seed))
	hits := m.Index.Query(query, n+1)

	if r.config.SelfMatch == SelfMatchDropFirst && len(hits) > 0 {
		hits = hits[1:]
	}

	present := make(map[int]struct{}, len(campsites))
	for i := range campsites {
		present[campsites[i].ID] = struct{}{}
	}

	ids := make([]int, 0, n)
	seen := make(map[int]struct{}, n)
	for _, h := range hits {
		if len(ids) == n {
			break
		}
		if h.ID == seed.ID {
			continue
		}
		if _, ok := present[h.ID]; !ok {
			continue
		}
		if _, dup := seen[h.ID]; dup {
			continue
		}
		seen[h.ID] = struct{}{}
		ids = append(ids, h.ID)
	}
	return ids
}

// Retrain fits a new model on campsites and persists it under the store's
// training lock.
func (r *Recommender) Retrain(ctx context.Context, campsites []models.Campsite) error {
	return r.store.Retrain(ctx, []string{modelstore.ArtifactRecommender}, func(ctx context.Context) error {
		start := time.Now()
		model, err := Train(ctx, campsites)
		elapsed := time.Since(start)
		metrics.RecordTraining(ModelName, elapsed, err)
		if err != nil {
			return fmt.Errorf("train recommender: %w", err)
		}

		meta, err := modelstore.Save(ctx, r.store, modelstore.ArtifactRecommender, model, modelstore.Metadata{
			TrainedAt:          model.TrainedAt,
			SampleCount:        len(campsites),
			TrainingDurationMS: elapsed.Milliseconds(),
		})
		if err != nil {
			return fmt.Errorf("save recommender: %w", err)
		}

		r.logger.Info().
			Int("campsites", len(campsites)).
			Int("version", meta.Version).
			Dur("duration", elapsed).
			Msg("Recommender trained")
		return nil
	})
}

func (r *Recommender) retrainAndLoad(ctx context.Context, campsites []models.Campsite) modelstore.Result[*Model] {
	if err := r.Retrain(ctx, campsites); err != nil {
		return modelstore.Failed[*Model](err)
	}
	res := modelstore.Load[*Model](ctx, r.store, modelstore.ArtifactRecommender)
	if res.OK() && !res.Value.usable() {
		return modelstore.Failed[*Model](errors.New("retrained recommender is empty"))
	}
	return res
}

// fallback samples min(n, len(campsites)) IDs without replacement.
func (r *Recommender) fallback(campsites []models.Campsite, n int) []int {
	k := min(n, len(campsites))

	r.rngMu.Lock()
	perm := r.rng.Perm(len(campsites))
	r.rngMu.Unlock()

	ids := make([]int, k)
	for i := 0; i < k; i++ {
		ids[i] = campsites[perm[i]].ID
	}
	return ids
}

// topRatedCampsite returns the campsite of the highest rating, first
// occurrence winning ties. ok is false when there are no ratings or the
// rated campsite is not in the corpus.
func topRatedCampsite(campsites []models.Campsite, ratings []models.Rating) (models.Campsite, bool) {
	if len(ratings) == 0 {
		return models.Campsite{}, false
	}

	best := 0
	for i := 1; i < len(ratings); i++ {
		if ratings[i].Rating > ratings[best].Rating {
			best = i
		}
	}

	target := ratings[best].CampsiteID
	for i := range campsites {
		if campsites[i].ID == target {
			return campsites[i], true
		}
	}
	return models.Campsite{}, false
}
