// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/campkit/internal/auth"
	"github.com/tomtom215/campkit/internal/cache"
	"github.com/tomtom215/campkit/internal/config"
	"github.com/tomtom215/campkit/internal/database"
	"github.com/tomtom215/campkit/internal/forecast"
	"github.com/tomtom215/campkit/internal/models"
	"github.com/tomtom215/campkit/internal/modelstore"
	"github.com/tomtom215/campkit/internal/recommend"
	"github.com/tomtom215/campkit/internal/training"
	"github.com/tomtom215/campkit/internal/weather"
)

// testDBSemaphore limits concurrent DuckDB instances across parallel tests.
var testDBSemaphore = make(chan struct{}, 4)

const testPassword = "Tr4il-Mix-Sunrise"

type testServer struct {
	handler http.Handler
	db      *database.DB
}

// unwritableBackend holds no artifacts and rejects every write.
type unwritableBackend struct{}

func (unwritableBackend) Get(context.Context, string) ([]byte, error) {
	return nil, modelstore.ErrNotFound
}

func (unwritableBackend) Put(context.Context, string, []byte) error {
	return errors.New("read-only file system")
}

func (unwritableBackend) Delete(context.Context, string) error     { return nil }
func (unwritableBackend) Names(context.Context) ([]string, error) { return nil, nil }
func (unwritableBackend) Close() error                            { return nil }

// envelope mirrors models.APIResponse with Data left undecoded.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithBackend(t, nil)
}

// setupTestServerWithBackend builds the server on backend, or on a
// FileBackend in a temp dir when backend is nil.
func setupTestServerWithBackend(t *testing.T, backend modelstore.Backend) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1, SeedData: true})
	if err != nil {
		<-testDBSemaphore
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
		<-testDBSemaphore
	})

	logger := zerolog.Nop()

	if backend == nil {
		fb, err := modelstore.NewFileBackend(t.TempDir(), 2)
		if err != nil {
			t.Fatalf("NewFileBackend() error = %v", err)
		}
		backend = fb
	}
	store := modelstore.New(backend, logger)

	rec, err := recommend.NewRecommender(store, recommend.DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("NewRecommender() error = %v", err)
	}

	fcCfg := forecast.DefaultConfig()
	fcCfg.Trees = 5
	fc, err := forecast.NewForecaster(store, fcCfg, logger)
	if err != nil {
		t.Fatalf("NewForecaster() error = %v", err)
	}

	provider := weather.NewProvider(db, nil, 30, fcCfg.MinHistory, 7, logger)
	trainer := training.NewTrainer(db, rec, fc, provider, fcCfg.MinHistory, logger)

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: "test-secret-for-api-tests", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	h := NewHandler(&Dependencies{
		DB:          db,
		Store:       store,
		Recommender: rec,
		Forecaster:  fc,
		Weather:     provider,
		Trainer:     trainer,
		JWT:         jwtManager,
		Cache:       cache.NewForecastCache(100, time.Minute),
	})

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true

	return &testServer{
		handler: NewRouter(h, mwCfg).SetupChi(),
		db:      db,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// register creates a user and returns a bearer token for it.
func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/v1/users", models.UserCreate{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/v1/token", models.TokenRequest{Username: username, Password: testPassword}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("token %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	var tok models.TokenResponse
	decodeData(t, w, &tok)
	return tok.AccessToken
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	env := decodeEnvelope(t, w)
	if env.Status != "success" {
		t.Fatalf("status = %q, error = %+v", env.Status, env.Error)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return env
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", w.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var status HealthStatus
	decodeData(t, w, &status)
	if status.Status != "healthy" || status.Database != "connected" {
		t.Errorf("health = %+v", status)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("expected ETag header")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	w = s.do(t, http.MethodGet, "/health/live", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)

	s.do(t, http.MethodGet, "/api/v1/campsites", nil, "")
	w := s.do(t, http.MethodGet, "/metrics", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "campkit_api_requests_total") {
		t.Error("expected campkit_api_requests_total in exposition")
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)

	expectError(t, s.do(t, http.MethodGet, "/api/v1/nope", nil, ""), http.StatusNotFound, ErrCodeNotFound)
}

func TestUsersAndToken(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)

	token := s.register(t, "hiker1")

	t.Run("duplicate username", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/users", models.UserCreate{
			Username: "hiker1", Email: "other@example.com", Password: testPassword,
		}, "")
		expectError(t, w, http.StatusConflict, ErrCodeConflict)
	})

	t.Run("invalid body", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/users", models.UserCreate{
			Username: "x", Email: "not-an-email", Password: "short",
		}, "")
		expectError(t, w, http.StatusBadRequest, ErrCodeValidation)
	})

	t.Run("weak password", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/users", models.UserCreate{
			Username: "hiker2", Email: "hiker2@example.com", Password: "hiker2hiker2",
		}, "")
		expectError(t, w, http.StatusBadRequest, ErrCodeValidation)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/token", models.TokenRequest{Username: "hiker1", Password: "wrong-password"}, "")
		expectError(t, w, http.StatusUnauthorized, ErrCodeUnauthorized)
		if w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Errorf("WWW-Authenticate = %q", w.Header().Get("WWW-Authenticate"))
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/token", models.TokenRequest{Username: "ghost", Password: testPassword}, "")
		expectError(t, w, http.StatusUnauthorized, ErrCodeUnauthorized)
	})

	t.Run("form login", func(t *testing.T) {
		form := url.Values{"username": {"hiker1"}, "password": {testPassword}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var tok models.TokenResponse
		decodeData(t, w, &tok)
		if tok.AccessToken == "" || tok.TokenType != "bearer" {
			t.Errorf("token response = %+v", tok)
		}
	})

	t.Run("current user", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/users/me", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var user models.User
		decodeData(t, w, &user)
		if user.Username != "hiker1" {
			t.Errorf("username = %q", user.Username)
		}
		if strings.Contains(w.Body.String(), "password") {
			t.Error("response leaks password hash")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		expectError(t, s.do(t, http.MethodGet, "/api/v1/users/me", nil, ""), http.StatusUnauthorized, ErrCodeUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		expectError(t, s.do(t, http.MethodGet, "/api/v1/users/me", nil, "not.a.jwt"), http.StatusUnauthorized, ErrCodeUnauthorized)
	})
}

func TestCampsites(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)
	token := s.register(t, "ranger")

	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantCount int
	}{
		{"default page", "/api/v1/campsites", http.StatusOK, 8},
		{"limited", "/api/v1/campsites?limit=2", http.StatusOK, 2},
		{"skipped", "/api/v1/campsites?skip=6", http.StatusOK, 2},
		{"past the end", "/api/v1/campsites?skip=100", http.StatusOK, 0},
		{"non-numeric limit", "/api/v1/campsites?limit=abc", http.StatusBadRequest, 0},
		{"zero limit", "/api/v1/campsites?limit=0", http.StatusBadRequest, 0},
		{"negative skip", "/api/v1/campsites?skip=-1", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil, "")
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var sites []models.Campsite
			decodeData(t, w, &sites)
			if len(sites) != tt.wantCount {
				t.Errorf("got %d campsites, want %d", len(sites), tt.wantCount)
			}
		})
	}

	t.Run("get one", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/campsites/1", nil, "")
		var site models.Campsite
		decodeData(t, w, &site)
		if site.ID != 1 || site.Name == "" {
			t.Errorf("campsite = %+v", site)
		}
	})

	t.Run("missing", func(t *testing.T) {
		expectError(t, s.do(t, http.MethodGet, "/api/v1/campsites/9999", nil, ""), http.StatusNotFound, ErrCodeNotFound)
	})

	t.Run("bad id", func(t *testing.T) {
		expectError(t, s.do(t, http.MethodGet, "/api/v1/campsites/abc", nil, ""), http.StatusBadRequest, ErrCodeBadRequest)
	})

	newSite := models.CampsiteCreate{
		Name: "Aspen Grove", Latitude: 44.5, Longitude: -121.3, Elevation: 1500, HasWater: true, Difficulty: 3,
	}

	t.Run("create requires auth", func(t *testing.T) {
		expectError(t, s.do(t, http.MethodPost, "/api/v1/campsites", newSite, ""), http.StatusUnauthorized, ErrCodeUnauthorized)
	})

	t.Run("create", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/campsites", newSite, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var site models.Campsite
		decodeData(t, w, &site)
		if site.ID == 0 || site.Name != "Aspen Grove" {
			t.Errorf("created = %+v", site)
		}
	})

	t.Run("create invalid difficulty", func(t *testing.T) {
		bad := newSite
		bad.Difficulty = 9
		expectError(t, s.do(t, http.MethodPost, "/api/v1/campsites", bad, token), http.StatusBadRequest, ErrCodeValidation)
	})

	t.Run("create unknown field", func(t *testing.T) {
		body := map[string]interface{}{"name": "X", "difficulty": 1, "bogus": true}
		expectError(t, s.do(t, http.MethodPost, "/api/v1/campsites", body, token), http.StatusBadRequest, ErrCodeBadRequest)
	})
}

func TestRatingsAndTrips(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)
	token := s.register(t, "camper")

	t.Run("rating", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/ratings", models.RatingCreate{CampsiteID: 2, Rating: 4}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		w = s.do(t, http.MethodGet, "/api/v1/ratings", nil, token)
		var ratings []models.Rating
		decodeData(t, w, &ratings)
		if len(ratings) != 1 || ratings[0].CampsiteID != 2 {
			t.Errorf("ratings = %+v", ratings)
		}
	})

	t.Run("rating out of range", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/ratings", models.RatingCreate{CampsiteID: 2, Rating: 6}, token)
		expectError(t, w, http.StatusBadRequest, ErrCodeValidation)
	})

	t.Run("rating unknown campsite", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/ratings", models.RatingCreate{CampsiteID: 999, Rating: 3}, token)
		expectError(t, w, http.StatusNotFound, ErrCodeNotFound)
	})

	t.Run("trip", func(t *testing.T) {
		body := map[string]interface{}{"campsite_id": 3, "start_date": "2026-07-01", "end_date": "2026-07-04", "notes": "bring bear can"}
		w := s.do(t, http.MethodPost, "/api/v1/trips", body, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		w = s.do(t, http.MethodGet, "/api/v1/trips", nil, token)
		var trips []models.Trip
		decodeData(t, w, &trips)
		if len(trips) != 1 || trips[0].StartDate.String() != "2026-07-01" {
			t.Errorf("trips = %+v", trips)
		}
	})

	t.Run("trip ends before start", func(t *testing.T) {
		body := map[string]interface{}{"campsite_id": 3, "start_date": "2026-07-04", "end_date": "2026-07-01"}
		expectError(t, s.do(t, http.MethodPost, "/api/v1/trips", body, token), http.StatusBadRequest, ErrCodeValidation)
	})

	t.Run("trip unknown campsite", func(t *testing.T) {
		body := map[string]interface{}{"campsite_id": 999, "start_date": "2026-07-01", "end_date": "2026-07-02"}
		expectError(t, s.do(t, http.MethodPost, "/api/v1/trips", body, token), http.StatusNotFound, ErrCodeNotFound)
	})
}

func TestRecommendations(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)
	token := s.register(t, "explorer")

	w := s.do(t, http.MethodPost, "/api/v1/ratings", models.RatingCreate{CampsiteID: 1, Rating: 5}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("rating status = %d", w.Code)
	}

	t.Run("requires auth", func(t *testing.T) {
		expectError(t, s.do(t, http.MethodGet, "/api/v1/recommendations", nil, ""), http.StatusUnauthorized, ErrCodeUnauthorized)
	})

	t.Run("defaults to caller", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/recommendations?limit=3", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp models.RecommendationResponse
		decodeData(t, w, &resp)
		if len(resp.Campsites) != 3 {
			t.Fatalf("got %d campsites, want 3", len(resp.Campsites))
		}
		seen := map[int]bool{}
		for _, c := range resp.Campsites {
			if seen[c.ID] {
				t.Errorf("duplicate campsite %d", c.ID)
			}
			seen[c.ID] = true
		}
	})

	t.Run("limit capped", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/recommendations?limit=500", nil, token)
		var resp models.RecommendationResponse
		decodeData(t, w, &resp)
		if len(resp.Campsites) > 8 {
			t.Errorf("got %d campsites from a corpus of 8", len(resp.Campsites))
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		expectError(t, s.do(t, http.MethodGet, "/api/v1/recommendations?user_id=9999", nil, token), http.StatusNotFound, ErrCodeNotFound)
	})

	t.Run("invalid limit", func(t *testing.T) {
		expectError(t, s.do(t, http.MethodGet, "/api/v1/recommendations?limit=0", nil, token), http.StatusBadRequest, ErrCodeValidation)
	})

	t.Run("preferences filter", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/users/me/preferences", map[string]interface{}{
			"prefer_water":   true,
			"max_difficulty": 2,
		}, token)
		if w.Code != http.StatusOK {
			t.Fatalf("preferences status = %d, body %s", w.Code, w.Body.String())
		}

		w = s.do(t, http.MethodGet, "/api/v1/recommendations?limit=5", nil, token)
		var resp models.RecommendationResponse
		decodeData(t, w, &resp)
		for _, c := range resp.Campsites {
			if !c.HasWater || c.Difficulty > 2 {
				t.Errorf("campsite %d violates preferences: %+v", c.ID, c)
			}
		}
	})
}

func TestPreferences(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)
	token := s.register(t, "planner")

	w := s.do(t, http.MethodGet, "/api/v1/users/me/preferences", nil, token)
	var pref models.UserPreference
	decodeData(t, w, &pref)
	if pref.MaxDifficulty != 5 || pref.PreferWater {
		t.Errorf("default preferences = %+v", pref)
	}

	w = s.do(t, http.MethodPut, "/api/v1/users/me/preferences", map[string]interface{}{
		"min_elevation": 500.0,
		"max_elevation": 1500.0,
	}, token)
	decodeData(t, w, &pref)
	if pref.MinElevation == nil || *pref.MinElevation != 500 || pref.MaxDifficulty != 5 {
		t.Errorf("updated preferences = %+v", pref)
	}

	t.Run("inverted elevation range", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/users/me/preferences", map[string]interface{}{
			"min_elevation": 2000.0,
			"max_elevation": 1000.0,
		}, token)
		expectError(t, w, http.StatusBadRequest, ErrCodeValidation)
	})

	t.Run("difficulty out of range", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/users/me/preferences", map[string]interface{}{"max_difficulty": 7}, token)
		expectError(t, w, http.StatusBadRequest, ErrCodeValidation)
	})
}

func TestWeatherForecast(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/weather/1", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp models.WeatherForecastResponse
	env := decodeData(t, w, &resp)
	if env.Metadata.Cached {
		t.Error("first forecast should not be cached")
	}
	if resp.CampsiteID != 1 || len(resp.Predictions) != 7 {
		t.Fatalf("forecast = campsite %d with %d predictions", resp.CampsiteID, len(resp.Predictions))
	}
	tomorrow := models.NewDate(time.Now().AddDate(0, 0, 1)).String()
	if got := resp.Predictions[0].Date.String(); got != tomorrow {
		t.Errorf("first date = %s, want %s", got, tomorrow)
	}
	for _, p := range resp.Predictions {
		if want := forecast.Classify(p.Precipitation, p.Temperature); p.Forecast != want {
			t.Errorf("%s labeled %q, want %q", p.Date, p.Forecast, want)
		}
	}

	t.Run("cached", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/weather/1", nil, "")
		var again models.WeatherForecastResponse
		env := decodeData(t, w, &again)
		if !env.Metadata.Cached {
			t.Error("second forecast should be served from cache")
		}
		if len(again.Predictions) != 7 ||
			again.Predictions[0].Date.String() != resp.Predictions[0].Date.String() ||
			again.Predictions[0].Temperature != resp.Predictions[0].Temperature {
			t.Error("cached forecast differs")
		}
	})

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantLen  int
	}{
		{"three days", "/api/v1/weather/2?days_ahead=3", http.StatusOK, 3},
		{"zero days", "/api/v1/weather/2?days_ahead=0", http.StatusOK, 0},
		{"negative days", "/api/v1/weather/2?days_ahead=-1", http.StatusBadRequest, 0},
		{"beyond max", "/api/v1/weather/2?days_ahead=31", http.StatusBadRequest, 0},
		{"non-numeric days", "/api/v1/weather/2?days_ahead=week", http.StatusBadRequest, 0},
		{"unknown campsite", "/api/v1/weather/9999", http.StatusNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, tt.path, nil, "")
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var r models.WeatherForecastResponse
			decodeData(t, w, &r)
			if len(r.Predictions) != tt.wantLen {
				t.Errorf("got %d predictions, want %d", len(r.Predictions), tt.wantLen)
			}
		})
	}
}

func TestWeatherForecast_FallbackNotCached(t *testing.T) {
	s := setupTestServerWithBackend(t, unwritableBackend{})

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodGet, "/api/v1/weather/1?days_ahead=3", nil, "")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200: %s", i, w.Code, w.Body.String())
		}
		var resp models.WeatherForecastResponse
		env := decodeData(t, w, &resp)
		if env.Metadata.Cached {
			t.Errorf("request %d: fallback forecast served from cache", i)
		}
		if !env.Metadata.Degraded {
			t.Errorf("request %d: fallback forecast not marked degraded", i)
		}
		if len(resp.Predictions) != 3 {
			t.Errorf("request %d: len(predictions) = %d, want 3", i, len(resp.Predictions))
		}
	}
}

func TestObservationsAndRetrain(t *testing.T) {
	t.Parallel()
	s := setupTestServer(t)
	token := s.register(t, "observer")

	today := models.NewDate(time.Now())
	obs := make([]map[string]interface{}, 0, 10)
	for i := 10; i >= 1; i-- {
		obs = append(obs, map[string]interface{}{
			"date":          models.NewDate(today.AddDate(0, 0, -i)).String(),
			"temperature":   15.0 + float64(i),
			"precipitation": 0.5,
			"humidity":      60.0,
			"wind_speed":    8.0,
		})
	}

	t.Run("observations require auth", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/weather/1/observations", map[string]interface{}{"observations": obs}, "")
		expectError(t, w, http.StatusUnauthorized, ErrCodeUnauthorized)
	})

	t.Run("store observations", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/weather/1/observations", map[string]interface{}{"observations": obs}, token)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		rows, err := s.db.WeatherHistory(t.Context(), 1, 0)
		if err != nil {
			t.Fatalf("WeatherHistory() error = %v", err)
		}
		if len(rows) != 10 {
			t.Errorf("stored %d rows, want 10", len(rows))
		}
	})

	t.Run("invalid humidity", func(t *testing.T) {
		bad := []map[string]interface{}{{"date": today.String(), "humidity": 140.0}}
		w := s.do(t, http.MethodPost, "/api/v1/weather/1/observations", map[string]interface{}{"observations": bad}, token)
		expectError(t, w, http.StatusBadRequest, ErrCodeValidation)
	})

	t.Run("retrain", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/models/retrain", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp models.RetrainResponse
		decodeData(t, w, &resp)
		if resp.Recommender != modelTrained || resp.Forecaster != modelTrained {
			t.Errorf("retrain = %+v", resp)
		}
	})

	t.Run("list models", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/models", nil, "")
		var list []modelstore.Metadata
		decodeData(t, w, &list)
		if len(list) != 5 {
			t.Errorf("got %d artifacts, want 5", len(list))
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	mw := NewChiMiddleware(cfg)

	h := mw.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	expectError(t, second, http.StatusTooManyRequests, ErrCodeTooManyRequests)
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitDisabled = true
	h := NewChiMiddleware(cfg).RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{
		RateLimitReqs:   7,
		RateLimitWindow: 2 * time.Minute,
		CORSOrigins:     []string{"https://camp.example"},
	})
	if cfg.RateLimitRequests != 7 || cfg.RateLimitWindow != 2*time.Minute {
		t.Errorf("rate limit = %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://camp.example" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line break"},
		{"bell\x07", "bell"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
