// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/metrics"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/modelstore"
)

// failingBackend never stores anything and counts writes.
type failingBackend struct {
	puts atomic.Int32
}

func (b *failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, modelstore.ErrNotFound
}

func (b *failingBackend) Put(context.Context, string, []byte) error {
	b.puts.Add(1)
	return errors.New("disk full")
}

func (b *failingBackend) Delete(context.Context, string) error { return nil }
func (b *failingBackend) Names(context.Context) ([]string, error) { return nil, nil }
func (b *failingBackend) Close() error { return nil }

func testCampsites() []models.Campsite {
	return []models.Campsite{
		{ID: 1, Name: "Lost Lake", Latitude: 45.00, Longitude: -121.00, Elevation: 1500, HasWater: true, Difficulty: 2},
		{ID: 2, Name: "Lost Lake North", Latitude: 45.01, Longitude: -121.01, Elevation: 1510, HasWater: true, Difficulty: 2},
		{ID: 3, Name: "Upper Meadow", Latitude: 45.20, Longitude: -121.10, Elevation: 1600, HasWater: true, Difficulty: 3},
		{ID: 4, Name: "Desert Flats", Latitude: 30.00, Longitude: -100.00, Elevation: 10, HasElectricity: true, Difficulty: 1},
		{ID: 5, Name: "Desert Flats RV", Latitude: 30.10, Longitude: -100.10, Elevation: 20, HasElectricity: true, Difficulty: 1},
	}
}

func newTestRecommender(t *testing.T, cfg Config) (*Recommender, *modelstore.Store) {
	t.Helper()
	backend, err := modelstore.NewFileBackend(t.TempDir(), 2)
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	store := modelstore.New(backend, zerolog.Nop())
	r, err := NewRecommender(store, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRecommender() error = %v", err)
	}
	return r, store
}

func assertValidIDs(t *testing.T, ids []int, campsites []models.Campsite, n int) {
	t.Helper()
	if len(ids) > n {
		t.Errorf("len(ids) = %d, want <= %d", len(ids), n)
	}
	present := make(map[int]bool)
	for _, c := range campsites {
		present[c.ID] = true
	}
	seen := make(map[int]bool)
	for _, id := range ids {
		if !present[id] {
			t.Errorf("id %d not in corpus", id)
		}
		if seen[id] {
			t.Errorf("id %d returned twice", id)
		}
		seen[id] = true
	}
}

func TestRecommend_NearestNeighbors(t *testing.T) {
	r, _ := newTestRecommender(t, DefaultConfig())
	ctx := context.Background()
	campsites := testCampsites()

	if err := r.Retrain(ctx, campsites); err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}

	ratings := []models.Rating{
		{UserID: 9, CampsiteID: 4, Rating: 3},
		{UserID: 9, CampsiteID: 1, Rating: 5},
	}

	before := testutil.ToFloat64(metrics.RecommendationsTotal.WithLabelValues(metrics.OutcomeModel))
	got := r.Recommend(ctx, 9, campsites, ratings, 2)
	after := testutil.ToFloat64(metrics.RecommendationsTotal.WithLabelValues(metrics.OutcomeModel))

	want := []int{2, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Recommend() = %v, want %v", got, want)
	}
	if after-before != 1 {
		t.Errorf("model outcome counter delta = %v, want 1", after-before)
	}
}

func TestRecommend_TopRatingTieUsesFirstOccurrence(t *testing.T) {
	r, _ := newTestRecommender(t, DefaultConfig())
	ctx := context.Background()
	campsites := testCampsites()
	if err := r.Retrain(ctx, campsites); err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}

	ratings := []models.Rating{
		{CampsiteID: 4, Rating: 5},
		{CampsiteID: 1, Rating: 5},
	}
	got := r.Recommend(ctx, 1, campsites, ratings, 1)
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("Recommend() = %v, want [5] (neighbor of campsite 4)", got)
	}
}

func TestRecommend_NeverReturnsSeed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	for trial := 0; trial < 25; trial++ {
		r, _ := newTestRecommender(t, DefaultConfig())

		size := 2 + rng.Intn(20)
		campsites := make([]models.Campsite, size)
		for i := range campsites {
			campsites[i] = models.Campsite{
				ID:             100 + i,
				Latitude:       rng.Float64()*180 - 90,
				Longitude:      rng.Float64()*360 - 180,
				Elevation:      rng.Float64() * 3000,
				HasWater:       rng.Intn(2) == 1,
				HasElectricity: rng.Intn(2) == 1,
				Difficulty:     1 + rng.Intn(5),
			}
		}
		seed := campsites[rng.Intn(size)]
		n := 1 + rng.Intn(size+2)

		ids := r.Recommend(ctx, 1, campsites, []models.Rating{{CampsiteID: seed.ID, Rating: 4}}, n)

		assertValidIDs(t, ids, campsites, n)
		for _, id := range ids {
			if id == seed.ID {
				t.Fatalf("trial %d: seed %d returned in %v", trial, seed.ID, ids)
			}
		}
	}
}

func TestRecommend_Fallbacks(t *testing.T) {
	campsites := testCampsites()

	tests := []struct {
		name      string
		campsites []models.Campsite
		ratings   []models.Rating
		n         int
		wantLen   int
	}{
		{name: "no ratings", campsites: campsites, ratings: nil, n: 3, wantLen: 3},
		{name: "rated campsite unknown", campsites: campsites, ratings: []models.Rating{{CampsiteID: 999, Rating: 5}}, n: 2, wantLen: 2},
		{name: "n larger than corpus", campsites: campsites, ratings: nil, n: 50, wantLen: len(campsites)},
		{name: "zero n", campsites: campsites, ratings: nil, n: 0, wantLen: 0},
		{name: "negative n", campsites: campsites, ratings: nil, n: -1, wantLen: 0},
		{name: "empty corpus", campsites: nil, ratings: []models.Rating{{CampsiteID: 1, Rating: 5}}, n: 5, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRecommender(t, DefaultConfig())
			ids := r.Recommend(context.Background(), 1, tt.campsites, tt.ratings, tt.n)
			if len(ids) != tt.wantLen {
				t.Errorf("len = %d, want %d (%v)", len(ids), tt.wantLen, ids)
			}
			assertValidIDs(t, ids, tt.campsites, max(tt.n, 0))
		})
	}
}

func TestRecommend_FallbackIsReproducible(t *testing.T) {
	campsites := testCampsites()

	r1, _ := newTestRecommender(t, DefaultConfig())
	r2, _ := newTestRecommender(t, DefaultConfig())
	r1.SetRand(rand.New(rand.NewSource(99)))
	r2.SetRand(rand.New(rand.NewSource(99)))

	a := r1.Recommend(context.Background(), 1, campsites, nil, 3)
	b := r2.Recommend(context.Background(), 1, campsites, nil, 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced %v and %v", a, b)
		}
	}
}

func TestRecommend_MissingArtifactRetrainsOnce(t *testing.T) {
	r, store := newTestRecommender(t, DefaultConfig())
	ctx := context.Background()
	campsites := testCampsites()

	if res := modelstore.Load[*Model](ctx, store, modelstore.ArtifactRecommender); res.Status != modelstore.StatusArtifactMissing {
		t.Fatalf("precondition: status = %v", res.Status)
	}

	got := r.Recommend(ctx, 1, campsites, []models.Rating{{CampsiteID: 1, Rating: 5}}, 2)
	if len(got) != 2 || got[0] != 2 {
		t.Errorf("Recommend() = %v, want nearest neighbor 2 first", got)
	}

	meta, err := store.Metadata(ctx, modelstore.ArtifactRecommender)
	if err != nil {
		t.Fatalf("artifact not persisted after retrain: %v", err)
	}
	if meta.Version != 1 || meta.SampleCount != len(campsites) {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestRecommend_RetrainFailureFallsBackWithoutLooping(t *testing.T) {
	backend := &failingBackend{}
	store := modelstore.New(backend, zerolog.Nop())
	r, err := NewRecommender(store, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRecommender() error = %v", err)
	}

	campsites := testCampsites()
	ids := r.Recommend(context.Background(), 1, campsites, []models.Rating{{CampsiteID: 1, Rating: 5}}, 3)

	if len(ids) != 3 {
		t.Errorf("fallback len = %d, want 3", len(ids))
	}
	assertValidIDs(t, ids, campsites, 3)
	if got := backend.puts.Load(); got != 1 {
		t.Errorf("persist attempts = %d, want exactly 1", got)
	}
}

func TestRecommend_DegenerateCorpusFallsBack(t *testing.T) {
	r, _ := newTestRecommender(t, DefaultConfig())
	campsites := testCampsites()[:1]

	ids := r.Recommend(context.Background(), 1, campsites, []models.Rating{{CampsiteID: 1, Rating: 5}}, 3)
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("Recommend() = %v, want [1]", ids)
	}
}

func TestRecommend_StaleModelFilteredToCorpus(t *testing.T) {
	r, _ := newTestRecommender(t, DefaultConfig())
	ctx := context.Background()
	all := testCampsites()
	if err := r.Retrain(ctx, all); err != nil {
		t.Fatalf("Retrain() error = %v", err)
	}

	// Campsite 2 was deleted after training.
	current := []models.Campsite{all[0], all[2], all[3], all[4]}
	ids := r.Recommend(ctx, 1, current, []models.Rating{{CampsiteID: 1, Rating: 5}}, 2)

	assertValidIDs(t, ids, current, 2)
	if len(ids) != 1 || ids[0] != 3 {
		t.Errorf("Recommend() = %v, want [3]", ids)
	}
}

func TestRecommend_SelfMatchPolicies(t *testing.T) {
	// Campsites 1 and 2 share a vector; 1 is inserted first, so a query
	// seeded from 2 sees campsite 1 at index 0 and itself at index 1.
	campsites := []models.Campsite{
		{ID: 1, Latitude: 10, Longitude: 10, Elevation: 100, Difficulty: 1},
		{ID: 2, Latitude: 10, Longitude: 10, Elevation: 100, Difficulty: 1},
		{ID: 3, Latitude: 11, Longitude: 10, Elevation: 120, Difficulty: 2},
		{ID: 4, Latitude: 50, Longitude: 80, Elevation: 2000, Difficulty: 5},
	}
	ratings := []models.Rating{{CampsiteID: 2, Rating: 5}}

	tests := []struct {
		policy SelfMatchPolicy
		want   []int
	}{
		{policy: SelfMatchDropFirst, want: []int{3}},
		{policy: SelfMatchFilterID, want: []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SelfMatch = tt.policy
			r, _ := newTestRecommender(t, cfg)
			ctx := context.Background()
			if err := r.Retrain(ctx, campsites); err != nil {
				t.Fatalf("Retrain() error = %v", err)
			}

			got := r.Recommend(ctx, 1, campsites, ratings, 2)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Recommend() = %v, want %v", got, tt.want)
			}
			for _, id := range got {
				if id == 2 {
					t.Errorf("Recommend() = %v, contains seed 2", got)
				}
			}
		})
	}
}

func TestRecommend_LargeLimitBoundedByCorpus(t *testing.T) {
	ctx := context.Background()
	campsites := testCampsites()
	ratings := []models.Rating{{CampsiteID: 1, Rating: 5}}

	tests := []struct {
		name    string
		n       int
		trained bool
	}{
		{name: "max int with model", n: math.MaxInt, trained: true},
		{name: "huge with model", n: 1 << 40, trained: true},
		{name: "max int fallback", n: math.MaxInt},
		{name: "corpus plus one", n: len(campsites) + 1, trained: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRecommender(t, DefaultConfig())
			rs := ratings
			if tt.trained {
				if err := r.Retrain(ctx, campsites); err != nil {
					t.Fatalf("Retrain() error = %v", err)
				}
			} else {
				rs = nil
			}

			ids := r.Recommend(ctx, 1, campsites, rs, tt.n)
			if len(ids) > len(campsites) {
				t.Errorf("len(ids) = %d, want <= %d", len(ids), len(campsites))
			}
			if tt.trained && len(ids) != len(campsites)-1 {
				t.Errorf("len(ids) = %d, want %d", len(ids), len(campsites)-1)
			}
			assertValidIDs(t, ids, campsites, len(campsites))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "zero default limit", mutate: func(c *Config) { c.DefaultLimit = 0 }, wantErr: true},
		{name: "max below default", mutate: func(c *Config) { c.MaxLimit = 1 }, wantErr: true},
		{name: "unknown policy", mutate: func(c *Config) { c.SelfMatch = "guess" }, wantErr: true},
		{name: "filter policy", mutate: func(c *Config) { c.SelfMatch = SelfMatchFilterID }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
