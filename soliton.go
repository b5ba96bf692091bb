// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package fountain

import (
	"fmt"
	"math"
)

// Density is a probability density over packet degrees 1..limit.
// Evaluating a density outside that range is a programmer error and
// panics.
type Density interface {
	// Density returns the probability mass at the given degree for a
	// blob of limit blocks.
	Density(degree, limit uint32) float64
}

// IdealSoliton is the Ideal Soliton distribution:
// rho(1) = 1/limit, rho(d) = 1/(d*(d-1)) for d >= 2.
//
// It is the theoretical optimum for LT codes but degrades badly under
// sampling variance; encoders should prefer RobustSoliton.
type IdealSoliton struct{}

// Density returns the Ideal Soliton mass at degree.
func (IdealSoliton) Density(degree, limit uint32) float64 {
	checkDegree(degree, limit)
	if degree == 1 {
		return 1.0 / float64(limit)
	}
	return 1.0 / (float64(degree) * (float64(degree) - 1.0))
}

// RobustSoliton is the Ideal Soliton distribution adjusted so the
// decoder's ripple keeps an expected size R throughout decoding,
// bounding the failure probability by delta. R is either supplied
// explicitly or derived from the heuristic
// R = c * ln(limit/delta) * sqrt(limit).
type RobustSoliton struct {
	failureProbability float64

	// rippleSize is the explicit R; zero selects the heuristic.
	rippleSize   float64
	hintConstant float64

	// normalization factor memoized per limit; samplers evaluate the
	// density limit times against one limit value.
	normLimit uint32
	norm      float64
}

// NewRobustSoliton returns a Robust Soliton density with an explicit
// expected ripple size.
func NewRobustSoliton(failureProbability, expectedRippleSize float64) *RobustSoliton {
	return &RobustSoliton{
		failureProbability: failureProbability,
		rippleSize:         expectedRippleSize,
	}
}

// NewRobustSolitonHeuristic returns a Robust Soliton density whose
// expected ripple size is derived from the heuristic scaled by
// hintConstant.
func NewRobustSolitonHeuristic(failureProbability, hintConstant float64) *RobustSoliton {
	return &RobustSoliton{
		failureProbability: failureProbability,
		hintConstant:       hintConstant,
	}
}

// Density returns the normalized Robust Soliton mass at degree.
func (r *RobustSoliton) Density(degree, limit uint32) float64 {
	checkDegree(degree, limit)

	// Special cased to prevent normally good ripple parameters from
	// producing a degenerate switch point.
	if limit == 1 {
		return 1.0
	}

	return (IdealSoliton{}.Density(degree, limit) + r.tau(degree, limit)) / r.normalization(limit)
}

// expectedRippleSize returns R for the given limit.
func (r *RobustSoliton) expectedRippleSize(limit uint32) float64 {
	if r.rippleSize > 0 {
		return r.rippleSize
	}
	return r.hintConstant * math.Log(float64(limit)/r.failureProbability) * math.Sqrt(float64(limit))
}

// tau is the robustness mass added to the Ideal Soliton before
// normalization:
//
//	tau(d) = R/(d*limit)            for d < floor(limit/R)
//	tau(d) = R*ln(R/delta)/limit    for d = floor(limit/R)
//	tau(d) = 0                      for d > floor(limit/R)
func (r *RobustSoliton) tau(degree, limit uint32) float64 {
	checkDegree(degree, limit)

	rippleSize := r.expectedRippleSize(limit)
	switchPoint := uint32(float64(limit) / rippleSize)

	switch {
	case degree < switchPoint:
		return rippleSize / (float64(degree) * float64(limit))
	case degree == switchPoint:
		return rippleSize * math.Log(rippleSize/r.failureProbability) / float64(limit)
	default:
		return 0.0
	}
}

// normalization returns the factor Z(limit) that makes the adjusted
// density sum to one.
func (r *RobustSoliton) normalization(limit uint32) float64 {
	if r.normLimit == limit {
		return r.norm
	}

	var total float64
	for d := uint32(1); d <= limit; d++ {
		total += IdealSoliton{}.Density(d, limit)
		total += r.tau(d, limit)
	}

	r.normLimit = limit
	r.norm = total
	return total
}

// checkDegree enforces the density domain contract.
func checkDegree(degree, limit uint32) {
	if degree == 0 || degree > limit {
		panic(fmt.Sprintf("degree must be in the range (0, %d], but was %d", limit, degree))
	}
}
