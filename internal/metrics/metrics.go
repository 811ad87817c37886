// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

// Package metrics holds the Prometheus instrumentation for Campkit.
// Collectors are registered on the default registry and exposed at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the recommendation and forecast counters.
const (
	OutcomeModel    = "model"
	OutcomeRetrain  = "retrain"
	OutcomeFallback = "fallback"
)

var (
	// Recommender
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campkit_recommendations_total",
			Help: "Recommendation requests by outcome (model, retrain, fallback)",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "campkit_recommendation_duration_seconds",
			Help:    "Time to produce a recommendation list",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Forecaster
	ForecastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campkit_forecasts_total",
			Help: "Forecast requests by outcome (model, retrain, fallback)",
		},
		[]string{"outcome"},
	)

	ForecastDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "campkit_forecast_duration_seconds",
			Help:    "Time to produce a multi-day forecast",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Model store
	ArtifactLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campkit_artifact_loads_total",
			Help: "Model artifact loads by status",
		},
		[]string{"artifact", "status"},
	)

	ModelRetrainsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campkit_model_retrains_total",
			Help: "Model retrain attempts by model and result",
		},
		[]string{"model", "result"},
	)

	ModelTrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campkit_model_training_duration_seconds",
			Help:    "Wall time spent training a model",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	ModelLastTrained = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "campkit_model_last_trained_timestamp_seconds",
			Help: "Unix time of the last successful training run",
		},
		[]string{"model"},
	)

	// Weather history
	WeatherFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campkit_weather_fetch_total",
			Help: "Weather history lookups by source and result",
		},
		[]string{"source", "result"},
	)

	WeatherBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campkit_weather_breaker_state",
			Help: "Open-Meteo circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Forecast cache
	ForecastCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campkit_forecast_cache_hits_total",
			Help: "Forecast responses served from cache",
		},
	)

	ForecastCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campkit_forecast_cache_misses_total",
			Help: "Forecast responses computed on demand",
		},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campkit_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campkit_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campkit_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campkit_api_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "campkit_api_active_requests",
			Help: "Requests currently being served",
		},
	)
)

// RecordRecommendation records one Recommend call.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordForecast records one Forecast call.
func RecordForecast(outcome string, duration time.Duration) {
	ForecastsTotal.WithLabelValues(outcome).Inc()
	ForecastDuration.Observe(duration.Seconds())
}

// RecordArtifactLoad records a model store lookup.
func RecordArtifactLoad(artifact, status string) {
	ArtifactLoadsTotal.WithLabelValues(artifact, status).Inc()
}

// RecordTraining records a training run for a model.
func RecordTraining(model string, duration time.Duration, err error) {
	if err != nil {
		ModelRetrainsTotal.WithLabelValues(model, "error").Inc()
		return
	}
	ModelRetrainsTotal.WithLabelValues(model, "success").Inc()
	ModelTrainingDuration.WithLabelValues(model).Observe(duration.Seconds())
	ModelLastTrained.WithLabelValues(model).Set(float64(time.Now().Unix()))
}

// RecordWeatherFetch records where a weather history came from.
func RecordWeatherFetch(source string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	WeatherFetchTotal.WithLabelValues(source, result).Inc()
}

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
