// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyHistory is returned when there is nothing to train on.
	ErrEmptyHistory = errors.New("empty weather history")
)

// InvalidArgumentError reports a rejected Forecast argument.
type InvalidArgumentError struct {
	Name   string
	Value  int
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%d: %s", e.Name, e.Value, e.Reason)
}

// Is matches ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
