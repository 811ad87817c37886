// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package modelstore

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// Metadata describes a stored artifact.
type Metadata struct {
	// Name is the artifact name (e.g. "recommender", "weather_humidity").
	Name string `json:"name"`

	// Version increases by one on every save of the same name.
	Version int `json:"version"`

	// SaveID uniquely identifies this save across backends.
	SaveID string `json:"save_id"`

	TrainedAt time.Time `json:"trained_at"`
	SavedAt   time.Time `json:"saved_at"`

	// SampleCount is the number of training rows the artifact was fit on.
	SampleCount int `json:"sample_count"`

	// Checksum is the SHA-256 of the uncompressed gob payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`

	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// envelope is the encoded form handed to a Backend.
type envelope struct {
	Metadata       Metadata
	CompressedData []byte
}

// encode serializes value and fills in the checksum and size fields of meta.
//
//nolint:gocritic // meta is copied into the envelope
func encode(value interface{}, meta Metadata) ([]byte, Metadata, error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(value); err != nil {
		return nil, meta, fmt.Errorf("encode artifact: %w", err)
	}

	sum := sha256.Sum256(raw.Bytes())
	meta.Checksum = hex.EncodeToString(sum[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, meta, fmt.Errorf("compress artifact: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, meta, fmt.Errorf("finalize compression: %w", err)
	}
	meta.SizeBytes = int64(compressed.Len())

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(envelope{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, meta, fmt.Errorf("write envelope: %w", err)
	}
	return out.Bytes(), meta, nil
}

// decodeMetadata reads only the envelope header.
func decodeMetadata(data []byte) (*Metadata, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	return &env.Metadata, nil
}

// decode verifies the checksum and decodes the payload into target.
func decode(data []byte, target interface{}) (*Metadata, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(env.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // close after full read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	sum := sha256.Sum256(raw)
	if got := hex.EncodeToString(sum[:]); got != env.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, env.Metadata.Checksum, got)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &env.Metadata, nil
}
