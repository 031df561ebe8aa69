// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package sorting

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

var (
	// ErrTooFewValues is returned by MedianOfDegree when
	// the input cannot be split into three non-empty
	// groups at every level of recursion.
	ErrTooFewValues = errors.New("too few values")

	// ErrInvalidDegree is returned by MedianOfDegree
	// for degree < 1.
	ErrInvalidDegree = errors.New("invalid median degree")
)

// Median returns the value separating the higher
// half of values from the lower half.
//
// For an odd number of values it is the middle
// element of the sorted sequence; for an even
// number of values it is the mean of the two middle
// elements. The input is not modified.
//
// Median panics if values is empty.
func Median(values []float64) float64 {
	switch len(values) {
	case 0:
		panic("sorting: median of an empty slice")
	case 1, 2, 3:
		return smallMedian(values)
	}

	tmp := slices.Clone(values)
	SortSequential(tmp)
	return MedianSorted(tmp)
}

// MedianSorted is like Median, but it assumes
// that values are already sorted in ascending order.
func MedianSorted(values []float64) float64 {
	n := len(values)
	if n%2 == 0 {
		return mean(values[n/2-1], values[n/2])
	}
	return values[(n+1)/2-1]
}

// MedianOfThree returns the median of a, b and c.
func MedianOfThree(a, b, c float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
		if a > b {
			b = a
		}
	}
	return b
}

// mean returns the mean of a and b without
// overflowing when both are close to ±MaxFloat64.
func mean(a, b float64) float64 {
	if a == b {
		return a
	}
	if (a < 0) == (b < 0) {
		return a + (b-a)/2
	}
	return (a + b) / 2
}

// smallMedian computes the median of at most
// three values without sorting them.
func smallMedian(values []float64) float64 {
	switch len(values) {
	case 1:
		return values[0]
	case 2:
		return mean(values[0], values[1])
	default:
		return MedianOfThree(values[0], values[1], values[2])
	}
}

// MedianOfDegree computes a multi-level median:
// with degree == 1 it is the same as Median; with
// degree > 1 values are split into three consecutive
// groups (the last one takes the remainder), the
// median of degree-1 is computed for each group and
// the median of those three results is returned.
//
// The input must hold at least 3^(degree-1) values,
// otherwise an error wrapping ErrTooFewValues is
// returned.
func MedianOfDegree(values []float64, degree int) (float64, error) {
	if degree < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}

	need := 1
	for i := 1; i < degree; i++ {
		if need > math.MaxInt/3 {
			need = math.MaxInt
			break
		}
		need *= 3
	}
	if len(values) == 0 || len(values) < need {
		return 0, fmt.Errorf("%w: degree %d needs at least %d values, got %d",
			ErrTooFewValues, degree, need, len(values))
	}

	return medianOfDegree(values, degree), nil
}

func medianOfDegree(values []float64, degree int) float64 {
	if degree == 1 {
		return Median(values)
	}

	third := len(values) / 3
	return MedianOfThree(
		medianOfDegree(values[:third], degree-1),
		medianOfDegree(values[third:2*third], degree-1),
		medianOfDegree(values[2*third:], degree-1))
}
