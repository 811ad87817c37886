// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateInput is matched by DegenerateInputError.
	ErrDegenerateInput = errors.New("degenerate training input")

	// ErrEmptyCorpus is matched by EmptyCorpusError.
	ErrEmptyCorpus = errors.New("empty corpus")
)

// DegenerateInputError reports a corpus too small to normalize.
type DegenerateInputError struct {
	Got  int
	Need int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate training input: need at least %d vectors, got %d", e.Need, e.Got)
}

// Is matches ErrDegenerateInput.
func (e *DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerateInput
}

// EmptyCorpusError reports an attempt to index zero campsites.
type EmptyCorpusError struct{}

func (e *EmptyCorpusError) Error() string {
	return "empty corpus: no campsites to index"
}

// Is matches ErrEmptyCorpus.
func (e *EmptyCorpusError) Is(target error) bool {
	return target == ErrEmptyCorpus
}
