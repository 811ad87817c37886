// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package modelstore

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactMissing reports an artifact that is absent or unreadable.
	ErrArtifactMissing = errors.New("model artifact missing")

	// ErrNotFound is returned by backends for unknown keys.
	ErrNotFound = errors.New("artifact not found")

	// ErrChecksumMismatch reports an envelope whose payload does not match its checksum.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)

// ArtifactMissingError names the artifact that could not be loaded.
type ArtifactMissingError struct {
	Name  string
	Cause error
}

func (e *ArtifactMissingError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("model artifact %q missing", e.Name)
	}
	return fmt.Sprintf("model artifact %q missing: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying backend or decode error.
func (e *ArtifactMissingError) Unwrap() error {
	return e.Cause
}

// Is matches ErrArtifactMissing.
func (e *ArtifactMissingError) Is(target error) bool {
	return target == ErrArtifactMissing
}
