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
	"fmt"
)

// PivotStrategy selects how a pivot value
// is chosen for a range before it is partitioned.
type PivotStrategy int

const (
	// PivotNinther adapts to the size of the range:
	// ranges longer than 9 elements use the median
	// of the medians-of-three of their thirds,
	// ranges of 3 to 9 elements use the median of
	// the first, middle and last element, and
	// two-element ranges use the smaller element.
	PivotNinther PivotStrategy = iota
	// PivotMedianOfThree uses the median of the
	// first, middle and last element of the range.
	PivotMedianOfThree
	// PivotMidpoint uses the element at (low+high)/2.
	PivotMidpoint
)

func (p PivotStrategy) String() string {
	switch p {
	case PivotNinther:
		return "ninther"
	case PivotMedianOfThree:
		return "median3"
	case PivotMidpoint:
		return "midpoint"
	}
	return fmt.Sprintf("PivotStrategy(%d)", int(p))
}

// ParsePivotStrategy is the inverse of PivotStrategy.String.
func ParsePivotStrategy(s string) (PivotStrategy, error) {
	switch s {
	case "ninther", "":
		return PivotNinther, nil
	case "median3", "median-of-three":
		return PivotMedianOfThree, nil
	case "midpoint":
		return PivotMidpoint, nil
	}
	return 0, fmt.Errorf("unknown pivot strategy %q", s)
}

// SelectPivot returns a pivot value for buf[low:high+1].
//
// The returned value is always one of the values
// of the range, so Partition is guaranteed to stay
// inside the range and to make progress.
func SelectPivot(buf []float64, low, high int, strategy PivotStrategy) float64 {
	switch strategy {
	case PivotMidpoint:
		return buf[low+(high-low)/2]
	case PivotMedianOfThree:
		return medianOfThreeAt(buf, low, high)
	}

	size := high - low + 1
	switch {
	case size > 9:
		return ninther(buf, low, high)
	case size > 2:
		return medianOfThreeAt(buf, low, high)
	default:
		// the mean of two values may round
		// outside of them; use the smaller one
		return min(buf[low], buf[high])
	}
}

// medianOfThreeAt returns the median of the first,
// middle and last element of buf[low:high+1].
func medianOfThreeAt(buf []float64, low, high int) float64 {
	return MedianOfThree(buf[low], buf[low+(high-low)/2], buf[high])
}

// ninther splits the range into thirds
// and returns the median of their medians-of-three.
// The range must hold at least three elements.
func ninther(buf []float64, low, high int) float64 {
	third := (high - low + 1) / 3
	return MedianOfThree(
		medianOfThreeAt(buf, low, low+third-1),
		medianOfThreeAt(buf, low+third, low+2*third-1),
		medianOfThreeAt(buf, low+2*third, high))
}
