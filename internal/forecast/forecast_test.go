// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

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

var fixedNow = time.Date(2026, time.June, 30, 15, 4, 5, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Trees = 5
	return cfg
}

// seasonalHistory builds a deterministic year of observations.
func seasonalHistory(days int) []models.WeatherObservation {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.WeatherObservation, days)
	for i := range out {
		d := start.AddDate(0, 0, i)
		s := math.Sin(2 * math.Pi * float64(d.YearDay()) / 365)
		out[i] = models.WeatherObservation{
			CampsiteID:    1,
			Date:          models.NewDate(d),
			Temperature:   20 + 10*s,
			Precipitation: max(0, 4*s),
			Humidity:      60 + 20*s,
			WindSpeed:     10 + 5*s,
		}
	}
	return out
}

func newTestForecaster(t *testing.T, backend modelstore.Backend) (*Forecaster, *modelstore.Store) {
	t.Helper()
	if backend == nil {
		b, err := modelstore.NewFileBackend(t.TempDir(), 2)
		if err != nil {
			t.Fatalf("NewFileBackend() error = %v", err)
		}
		backend = b
	}
	store := modelstore.New(backend, zerolog.Nop())
	f, err := NewForecaster(store, testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewForecaster() error = %v", err)
	}
	f.SetClock(func() time.Time { return fixedNow })
	return f, store
}

func assertBounds(t *testing.T, points []models.ForecastPoint) {
	t.Helper()
	for i, p := range points {
		if p.Precipitation < 0 {
			t.Errorf("points[%d].Precipitation = %v, want >= 0", i, p.Precipitation)
		}
		if p.WindSpeed < 0 {
			t.Errorf("points[%d].WindSpeed = %v, want >= 0", i, p.WindSpeed)
		}
		if p.Humidity < 0 || p.Humidity > 100 {
			t.Errorf("points[%d].Humidity = %v, want within [0,100]", i, p.Humidity)
		}
		if want := Classify(p.Precipitation, p.Temperature); p.Forecast != want {
			t.Errorf("points[%d].Forecast = %q, want %q", i, p.Forecast, want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		precip float64
		temp   float64
		want   string
	}{
		{6, 10, LabelColdAndRainy},
		{6, 15, LabelRainy},
		{6, 30, LabelRainy},
		{1, 30, LabelChanceOfRain},
		{5, 5, LabelChanceOfRain},
		{0.5, 28, LabelSunnyAndHot},
		{0, 28, LabelSunnyAndHot},
		{0, 25, LabelSunnyAndPleasant},
		{0, 20, LabelSunnyAndPleasant},
		{0, 15, LabelColdAndDry},
		{0, 5, LabelColdAndDry},
	}

	for _, tt := range tests {
		if got := Classify(tt.precip, tt.temp); got != tt.want {
			t.Errorf("Classify(%v, %v) = %q, want %q", tt.precip, tt.temp, got, tt.want)
		}
		if again := Classify(tt.precip, tt.temp); again != tt.want {
			t.Errorf("Classify(%v, %v) not deterministic", tt.precip, tt.temp)
		}
	}
}

func TestCalendarOf(t *testing.T) {
	tests := []struct {
		date time.Time
		want CalendarFeature
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), CalendarFeature{1, 1}},
		{time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), CalendarFeature{365, 12}},
		{time.Date(2028, 12, 31, 0, 0, 0, 0, time.UTC), CalendarFeature{366, 12}},
	}
	for _, tt := range tests {
		if got := CalendarOf(tt.date); got != tt.want {
			t.Errorf("CalendarOf(%s) = %+v, want %+v", tt.date.Format(time.DateOnly), got, tt.want)
		}
	}
}

func TestForecast_DatesStartTomorrow(t *testing.T) {
	f, _ := newTestForecaster(t, nil)
	history := seasonalHistory(365)

	for _, days := range []int{1, 7, 14} {
		t.Run("", func(t *testing.T) {
			points, err := f.Forecast(context.Background(), history, days)
			if err != nil {
				t.Fatalf("Forecast() error = %v", err)
			}
			if len(points) != days {
				t.Fatalf("len(points) = %d, want %d", len(points), days)
			}

			want := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
			for i, p := range points {
				if !p.Date.Equal(want) {
					t.Errorf("points[%d].Date = %s, want %s", i, p.Date, want.Format(time.DateOnly))
				}
				want = want.AddDate(0, 0, 1)
			}
			assertBounds(t, points)
		})
	}
}

func TestForecast_DaysAhead(t *testing.T) {
	f, _ := newTestForecaster(t, nil)

	points, err := f.Forecast(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("Forecast(0) error = %v", err)
	}
	if points == nil || len(points) != 0 {
		t.Errorf("Forecast(0) = %v, want empty non-nil slice", points)
	}

	_, err = f.Forecast(context.Background(), nil, -1)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Forecast(-1) error = %v, want ErrInvalidArgument", err)
	}
	var iae *InvalidArgumentError
	if !errors.As(err, &iae) || iae.Value != -1 {
		t.Errorf("Forecast(-1) error = %#v, want InvalidArgumentError{Value: -1}", err)
	}
}

func TestForecast_ClampsModelOutput(t *testing.T) {
	f, _ := newTestForecaster(t, nil)

	// Raw targets outside the physical bounds.
	history := seasonalHistory(60)
	for i := range history {
		history[i].Precipitation = -3
		history[i].Humidity = 140
		history[i].WindSpeed = -8
	}

	points, err := f.Forecast(context.Background(), history, 5)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	for i, p := range points {
		if p.Precipitation != 0 || p.WindSpeed != 0 || p.Humidity != 100 {
			t.Errorf("points[%d] = %+v, want precipitation 0, wind 0, humidity 100", i, p)
		}
	}
}

func TestForecast_RetrainsOnceThenUsesModel(t *testing.T) {
	f, store := newTestForecaster(t, nil)
	history := seasonalHistory(365)

	retrain := metrics.ForecastsTotal.WithLabelValues(metrics.OutcomeRetrain)
	model := metrics.ForecastsTotal.WithLabelValues(metrics.OutcomeModel)
	beforeRetrain := testutil.ToFloat64(retrain)
	beforeModel := testutil.ToFloat64(model)

	first, err := f.Forecast(context.Background(), history, 7)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if got := testutil.ToFloat64(retrain) - beforeRetrain; got != 1 {
		t.Errorf("retrain outcomes = %v, want 1", got)
	}

	for _, name := range modelstore.WeatherArtifacts {
		if _, err := store.Metadata(context.Background(), name); err != nil {
			t.Errorf("artifact %s not persisted: %v", name, err)
		}
	}

	// Reload forces a decode from disk; predictions must not change.
	store.Reload()
	second, err := f.Forecast(context.Background(), nil, 7)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if got := testutil.ToFloat64(model) - beforeModel; got != 1 {
		t.Errorf("model outcomes = %v, want 1", got)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("point %d changed after reload: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestForecast_RetrainFailureFallsBackWithoutLooping(t *testing.T) {
	backend := &failingBackend{}
	f, _ := newTestForecaster(t, backend)

	fallback := metrics.ForecastsTotal.WithLabelValues(metrics.OutcomeFallback)
	before := testutil.ToFloat64(fallback)

	points, err := f.Forecast(context.Background(), seasonalHistory(30), 10)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(points) != 10 {
		t.Fatalf("len(points) = %d, want 10", len(points))
	}
	if got := backend.puts.Load(); got != 1 {
		t.Errorf("backend puts = %d, want exactly one retrain attempt", got)
	}
	if got := testutil.ToFloat64(fallback) - before; got != 1 {
		t.Errorf("fallback outcomes = %v, want 1", got)
	}

	assertBounds(t, points)
	for i, p := range points {
		if p.Humidity < 30 {
			t.Errorf("points[%d].Humidity = %v, want >= 30 in fallback", i, p.Humidity)
		}
	}
}

func TestForecast_EmptyHistoryFallsBack(t *testing.T) {
	backend := &failingBackend{}
	f, _ := newTestForecaster(t, backend)

	points, err := f.Forecast(context.Background(), nil, 3)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(points) != 3 {
		t.Errorf("len(points) = %d, want 3", len(points))
	}
	if got := backend.puts.Load(); got != 0 {
		t.Errorf("backend puts = %d, want 0 when there is nothing to train on", got)
	}
}

func TestForecast_FallbackReproducible(t *testing.T) {
	run := func() []models.ForecastPoint {
		f, _ := newTestForecaster(t, &failingBackend{})
		f.SetRand(rand.New(rand.NewSource(7)))
		points, err := f.Forecast(context.Background(), nil, 5)
		if err != nil {
			t.Fatalf("Forecast() error = %v", err)
		}
		return points
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("point %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestForecastWithOutcome(t *testing.T) {
	tests := []struct {
		name    string
		backend modelstore.Backend
		history []models.WeatherObservation
		calls   []string
	}{
		{
			name:    "retrain then model",
			history: seasonalHistory(365),
			calls:   []string{metrics.OutcomeRetrain, metrics.OutcomeModel},
		},
		{
			name:    "unwritable store falls back",
			backend: &failingBackend{},
			history: seasonalHistory(30),
			calls:   []string{metrics.OutcomeFallback, metrics.OutcomeFallback},
		},
		{
			name:    "no history falls back",
			backend: &failingBackend{},
			calls:   []string{metrics.OutcomeFallback},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestForecaster(t, tt.backend)
			for i, want := range tt.calls {
				points, outcome, err := f.ForecastWithOutcome(context.Background(), tt.history, 3)
				if err != nil {
					t.Fatalf("call %d: ForecastWithOutcome() error = %v", i, err)
				}
				if outcome != want {
					t.Errorf("call %d: outcome = %q, want %q", i, outcome, want)
				}
				if len(points) != 3 {
					t.Errorf("call %d: len(points) = %d, want 3", i, len(points))
				}
			}
		})
	}

	t.Run("negative days", func(t *testing.T) {
		f, _ := newTestForecaster(t, &failingBackend{})
		if _, _, err := f.ForecastWithOutcome(context.Background(), nil, -1); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ForecastWithOutcome(-1) error = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestForecaster_SetClockConcurrentWithForecast(t *testing.T) {
	f, _ := newTestForecaster(t, &failingBackend{})
	later := fixedNow.AddDate(0, 0, 10)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.SetClock(func() time.Time { return later })
		}()
		go func() {
			defer wg.Done()
			if _, err := f.Forecast(context.Background(), nil, 2); err != nil {
				t.Errorf("Forecast() error = %v", err)
			}
		}()
	}
	wg.Wait()

	points, err := f.Forecast(context.Background(), nil, 1)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	want := models.NewDate(later.AddDate(0, 0, 1))
	if !points[0].Date.Equal(want.Time) {
		t.Errorf("points[0].Date = %v, want %v", points[0].Date, want)
	}
}

func TestFitEnsemble_Deterministic(t *testing.T) {
	history := seasonalHistory(120)
	features := make([]CalendarFeature, len(history))
	targets := make([]float64, len(history))
	for i := range history {
		features[i] = CalendarOf(history[i].Date.Time)
		targets[i] = history[i].Temperature
	}

	a, err := FitEnsemble(context.Background(), Temperature, features, targets, testConfig())
	if err != nil {
		t.Fatalf("FitEnsemble() error = %v", err)
	}
	b, err := FitEnsemble(context.Background(), Temperature, features, targets, testConfig())
	if err != nil {
		t.Fatalf("FitEnsemble() error = %v", err)
	}

	for i, f := range features {
		pa, pb := a.Predict(f), b.Predict(f)
		if pa != pb {
			t.Fatalf("Predict(%+v) = %v and %v, want identical", f, pa, pb)
		}
		if math.Abs(pa-targets[i]) > 3 {
			t.Errorf("Predict(%+v) = %v, want near %v", f, pa, targets[i])
		}
	}
}

func TestFitEnsemble_Errors(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()

	if _, err := FitEnsemble(ctx, Humidity, nil, nil, cfg); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("empty input error = %v, want ErrEmptyHistory", err)
	}
	if _, err := FitEnsemble(ctx, Humidity, []CalendarFeature{{1, 1}}, nil, cfg); err == nil {
		t.Error("mismatched lengths: expected error")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := FitEnsemble(cancelled, Humidity, []CalendarFeature{{1, 1}}, []float64{50}, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v, want context.Canceled", err)
	}
}

func TestFitEnsemble_SingleSample(t *testing.T) {
	e, err := FitEnsemble(context.Background(), WindSpeed, []CalendarFeature{{100, 4}}, []float64{12.5}, testConfig())
	if err != nil {
		t.Fatalf("FitEnsemble() error = %v", err)
	}
	if got := e.Predict(CalendarFeature{300, 10}); got != 12.5 {
		t.Errorf("Predict() = %v, want 12.5", got)
	}
}

func TestFitSet_Independent(t *testing.T) {
	history := seasonalHistory(90)
	set, err := FitSet(context.Background(), history, testConfig())
	if err != nil {
		t.Fatalf("FitSet() error = %v", err)
	}
	if !set.complete() {
		t.Fatal("FitSet() returned an incomplete set")
	}

	// Changing one target leaves the other ensembles untouched.
	altered := seasonalHistory(90)
	for i := range altered {
		altered[i].Humidity = 99
	}
	other, err := FitSet(context.Background(), altered, testConfig())
	if err != nil {
		t.Fatalf("FitSet() error = %v", err)
	}

	day := CalendarFeature{45, 2}
	for _, v := range []Variable{Temperature, Precipitation, WindSpeed} {
		if set[v].Predict(day) != other[v].Predict(day) {
			t.Errorf("%s prediction changed when only humidity changed", v)
		}
	}
	if got := other[Humidity].Predict(day); got != 99 {
		t.Errorf("humidity prediction = %v, want 99", got)
	}
}

func TestTree_Split(t *testing.T) {
	x := [][featureCount]float64{{1, 1}, {2, 1}, {200, 7}, {201, 7}}
	y := []float64{0, 0, 10, 10}
	tree := growTree(x, y, []int{0, 1, 2, 3}, 0, 1)

	if len(tree.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(tree.Nodes))
	}
	if got := tree.Predict([featureCount]float64{50, 2}); got != 0 {
		t.Errorf("Predict(left) = %v, want 0", got)
	}
	if got := tree.Predict([featureCount]float64{150, 6}); got != 10 {
		t.Errorf("Predict(right) = %v, want 10", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero trees", func(c *Config) { c.Trees = 0 }, true},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, true},
		{"zero min leaf", func(c *Config) { c.MinLeaf = 0 }, true},
		{"default above max", func(c *Config) { c.DefaultDays = 40 }, true},
		{"zero min history", func(c *Config) { c.MinHistory = 0 }, true},
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
