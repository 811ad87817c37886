// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package recommend

import (
	"errors"
	"testing"
)

func TestBuildIndex_Errors(t *testing.T) {
	if _, err := BuildIndex(nil, nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("BuildIndex(nil) error = %v, want ErrEmptyCorpus", err)
	}
	if _, err := BuildIndex([]FeatureVector{{}}, []int{1, 2}); err == nil {
		t.Error("BuildIndex() expected error for mismatched lengths")
	}
}

func TestIndex_SingleMember(t *testing.T) {
	ix, err := BuildIndex([]FeatureVector{{1, 1, 1, 1, 1, 1}}, []int{7})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	// k=1 returns the sole member.
	hits := ix.Query(FeatureVector{1, 1, 1, 1, 1, 1}, 1)
	if len(hits) != 1 || hits[0].ID != 7 || hits[0].Distance != 0 {
		t.Errorf("Query(k=1) = %+v, want [{7 0}]", hits)
	}

	// The n+1 request used by the recommender is clamped to the corpus.
	hits = ix.Query(FeatureVector{}, 2)
	if len(hits) != 1 || hits[0].ID != 7 {
		t.Errorf("Query(k=2) = %+v, want the sole member", hits)
	}
}

func TestIndex_QueryOrdering(t *testing.T) {
	vectors := []FeatureVector{
		{3, 0, 0, 0, 0, 0}, // id 10, distance 3
		{1, 0, 0, 0, 0, 0}, // id 20, distance 1
		{0, 1, 0, 0, 0, 0}, // id 30, distance 1 (tie with 20, inserted later)
		{0, 0, 0, 0, 0, 0}, // id 40, distance 0
		{0, 0, 2, 0, 0, 0}, // id 50, distance 2
	}
	ix, err := BuildIndex(vectors, []int{10, 20, 30, 40, 50})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	tests := []struct {
		name string
		k    int
		want []int
	}{
		{name: "zero", k: 0, want: []int{}},
		{name: "negative", k: -3, want: []int{}},
		{name: "top three keeps tie order", k: 3, want: []int{40, 20, 30}},
		{name: "all", k: 5, want: []int{40, 20, 30, 50, 10}},
		{name: "more than corpus", k: 99, want: []int{40, 20, 30, 50, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := ix.Query(FeatureVector{}, tt.k)
			if len(hits) != len(tt.want) {
				t.Fatalf("len = %d, want %d (%+v)", len(hits), len(tt.want), hits)
			}
			for i, id := range tt.want {
				if hits[i].ID != id {
					t.Errorf("hits[%d].ID = %d, want %d", i, hits[i].ID, id)
				}
			}
			for i := 1; i < len(hits); i++ {
				if hits[i].Distance < hits[i-1].Distance {
					t.Errorf("distances not ascending at %d: %v < %v", i, hits[i].Distance, hits[i-1].Distance)
				}
			}
		})
	}
}

func TestBuildIndex_CopiesInput(t *testing.T) {
	vectors := []FeatureVector{{1}, {2}}
	ids := []int{1, 2}
	ix, err := BuildIndex(vectors, ids)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	vectors[0][0] = 100
	ids[0] = 99

	hits := ix.Query(FeatureVector{1}, 1)
	if hits[0].ID != 1 || hits[0].Distance != 0 {
		t.Errorf("index mutated through caller slices: %+v", hits)
	}
}
