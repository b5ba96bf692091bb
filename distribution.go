// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// Distribution samples packet degrees from a precomputed cumulative
// probability table over 1..limit, and uniform integers for block
// selection. Draws come from a ChaCha8 generator seeded once, at
// construction, from the configured entropy source; sampling itself
// never performs I/O and never fails.
//
// A Distribution is not safe for concurrent use; callers serialize
// access. Distinct instances share no state.
type Distribution struct {
	limit uint32
	rng   *rand.Rand

	// table[d] is the cumulative probability of drawing a degree <= d.
	// table[0] is 0 and table[limit] is rescaled to exactly 1.
	table []float64
}

// NewDistribution precomputes the cumulative table for the density
// over 1..limit and seeds the sampler's PRNG from entropy. A failure
// to read the seed is reported as ErrRandomInitialization.
func NewDistribution(density Density, limit uint32, entropy io.Reader) (*Distribution, error) {
	var seed [32]byte
	if _, err := io.ReadFull(entropy, seed[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomInitialization, err)
	}

	table := make([]float64, limit+1)
	var cumulative float64
	for d := uint32(1); d <= limit; d++ {
		cumulative += density.Density(d, limit)
		table[d] = cumulative
	}

	// Rescale so the final entry is exactly 1: float rounding must not
	// leave a draw with no matching degree.
	if cumulative > 0 {
		for d := uint32(1); d <= limit; d++ {
			table[d] /= cumulative
		}
	}
	table[limit] = 1.0

	return &Distribution{
		limit: limit,
		rng:   rand.New(rand.NewChaCha8(seed)),
		table: table,
	}, nil
}

// SampleDegree draws a degree in [1, limit] according to the density
// the table was built from.
func (d *Distribution) SampleDegree() uint32 {
	selector := d.rng.Float64()

	// The Robust Soliton puts nearly all its mass at or below its
	// switch point floor(limit/R), a small fraction of limit, so a
	// forward scan stops well before the end of the table.
	for i := uint32(1); i <= d.limit; i++ {
		if selector < d.table[i] {
			return i
		}
	}

	// Unreachable while the table ends at 1 and Float64 is below it;
	// kept so rounding drift degrades to the largest degree.
	return d.limit
}

// SampleUniform draws a uniform integer in [lo, hi).
func (d *Distribution) SampleUniform(lo, hi int) int {
	if lo >= hi {
		panic(fmt.Sprintf("sample bounds must satisfy lo < hi, but were [%d, %d)", lo, hi))
	}
	return lo + d.rng.IntN(hi-lo)
}
