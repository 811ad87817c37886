// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package forecast

import (
	"cmp"
	"slices"
)

// Node is one node of a flattened regression tree. Left is -1 for leaves.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

// Tree is a CART regression tree stored as a node slice rooted at 0.
type Tree struct {
	Nodes []Node
}

// Predict walks the tree for x.
func (t *Tree) Predict(x [featureCount]float64) float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type treeBuilder struct {
	x        [][featureCount]float64
	y        []float64
	maxDepth int
	minLeaf  int
	nodes    []Node
}

// growTree fits a tree on the rows listed in sample (duplicates allowed).
func growTree(x [][featureCount]float64, y []float64, sample []int, maxDepth, minLeaf int) Tree {
	if minLeaf < 1 {
		minLeaf = 1
	}
	b := &treeBuilder{x: x, y: y, maxDepth: maxDepth, minLeaf: minLeaf}
	b.build(sample, 0)
	return Tree{Nodes: b.nodes}
}

func (b *treeBuilder) build(rows []int, depth int) int {
	var sum, sumSq float64
	for _, r := range rows {
		sum += b.y[r]
		sumSq += b.y[r] * b.y[r]
	}
	n := float64(len(rows))

	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{Left: -1, Right: -1, Value: sum / n})

	if b.maxDepth > 0 && depth >= b.maxDepth {
		return id
	}
	if len(rows) < 2*b.minLeaf {
		return id
	}
	parentSSE := sumSq - sum*sum/n
	if parentSSE <= 1e-12 {
		return id
	}

	feature, threshold, ok := b.bestSplit(rows, parentSSE)
	if !ok {
		return id
	}

	left := make([]int, 0, len(rows))
	right := make([]int, 0, len(rows))
	for _, r := range rows {
		if b.x[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[id].Feature = feature
	b.nodes[id].Threshold = threshold
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

// bestSplit scans every feature for the threshold with the lowest summed
// squared error. Thresholds sit midway between adjacent distinct values.
func (b *treeBuilder) bestSplit(rows []int, parentSSE float64) (feature int, threshold float64, ok bool) {
	bestSSE := parentSSE
	sorted := make([]int, len(rows))

	for f := 0; f < featureCount; f++ {
		copy(sorted, rows)
		slices.SortStableFunc(sorted, func(a, c int) int {
			return cmp.Compare(b.x[a][f], b.x[c][f])
		})

		var totalSum, totalSq float64
		for _, r := range sorted {
			totalSum += b.y[r]
			totalSq += b.y[r] * b.y[r]
		}

		var leftSum, leftSq float64
		for i := 0; i < len(sorted)-1; i++ {
			yv := b.y[sorted[i]]
			leftSum += yv
			leftSq += yv * yv

			nl := i + 1
			nr := len(sorted) - nl
			if nl < b.minLeaf || nr < b.minLeaf {
				continue
			}
			lo, hi := b.x[sorted[i]][f], b.x[sorted[i+1]][f]
			if lo == hi {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(nl)) + (rightSq - rightSum*rightSum/float64(nr))
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				feature = f
				threshold = (lo + hi) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}
