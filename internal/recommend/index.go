// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import (
	"cmp"
	"fmt"
	"slices"
)

// Neighbor is one query hit.
type Neighbor struct {
	ID       int     `json:"id"`
	Distance float64 `json:"distance"`
}

// Index is an immutable exact nearest-neighbor index over normalized
// vectors. Fields are exported for gob persistence only.
type Index struct {
	Vectors []FeatureVector
	IDs     []int
}

// BuildIndex copies vectors and ids into a new Index.
func BuildIndex(vectors []FeatureVector, ids []int) (*Index, error) {
	if len(vectors) == 0 {
		return nil, &EmptyCorpusError{}
	}
	if len(vectors) != len(ids) {
		return nil, fmt.Errorf("build index: %d vectors but %d ids", len(vectors), len(ids))
	}
	return &Index{
		Vectors: slices.Clone(vectors),
		IDs:     slices.Clone(ids),
	}, nil
}

// Len returns the number of indexed campsites.
func (ix *Index) Len() int {
	return len(ix.IDs)
}

// Query returns the k nearest entries by ascending Euclidean distance.
// Equal distances keep insertion order. k is clamped to Len.
func (ix *Index) Query(q FeatureVector, k int) []Neighbor {
	if k <= 0 {
		return []Neighbor{}
	}

	hits := make([]Neighbor, len(ix.Vectors))
	for i, v := range ix.Vectors {
		hits[i] = Neighbor{ID: ix.IDs[i], Distance: Distance(q, v)}
	}
	slices.SortStableFunc(hits, func(a, b Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}
