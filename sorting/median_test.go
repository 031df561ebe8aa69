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
	"math"
	"testing"
)

func TestMedianLiterals(t *testing.T) {
	testcases := []struct {
		values []float64
		median float64
	}{
		{[]float64{1, 3, 3, 6, 7, 8, 9}, 6},
		{[]float64{1, 2, 3, 4, 5, 6, 8, 9}, 4.5},
		{[]float64{-3.5}, -3.5},
		{[]float64{9, 1}, 5},
		{[]float64{7, -1, 3}, 3},
		// unsorted input
		{[]float64{9, 3, 8, 1, 7, 3, 6}, 6},
		{[]float64{8, 6, 1, 4, 9, 2, 5, 3}, 4.5},
	}

	for i := range testcases {
		values := testcases[i].values
		got := Median(values)
		if got != testcases[i].median {
			t.Errorf("case %d: Median(%v) = %v, want %v", i, values, got, testcases[i].median)
		}
	}
}

func TestMedianDoesNotModifyInput(t *testing.T) {
	values := []float64{5, 4, 3, 2, 1, 0}
	Median(values)
	for i, v := range []float64{5, 4, 3, 2, 1, 0} {
		if values[i] != v {
			t.Fatalf("input modified: %v", values)
		}
	}
}

func TestMedianSorted(t *testing.T) {
	if got := MedianSorted([]float64{1, 3, 3, 6, 7, 8, 9}); got != 6 {
		t.Errorf("got %v, want 6", got)
	}
	if got := MedianSorted([]float64{1, 2, 3, 4, 5, 6, 8, 9}); got != 4.5 {
		t.Errorf("got %v, want 4.5", got)
	}
}

func TestMedianEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	Median(nil)
}

func TestMedianOfThree(t *testing.T) {
	perms := [][3]float64{
		{1, 2, 3}, {1, 3, 2}, {2, 1, 3},
		{2, 3, 1}, {3, 1, 2}, {3, 2, 1},
	}
	for _, p := range perms {
		if got := MedianOfThree(p[0], p[1], p[2]); got != 2 {
			t.Errorf("MedianOfThree(%v) = %v, want 2", p, got)
		}
	}
	if got := MedianOfThree(4, 4, 1); got != 4 {
		t.Errorf("MedianOfThree(4, 4, 1) = %v, want 4", got)
	}
}

func TestMedianOfDegree(t *testing.T) {
	values := []float64{
		1, 2, 3, // median 2
		9, 8, 7, // median 8
		4, 6, 5, // median 5
	}

	got, err := MedianOfDegree(values, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("degree 1: got %v, want 5", got)
	}

	got, err = MedianOfDegree(values, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 { // median(2, 8, 5)
		t.Errorf("degree 2: got %v, want 5", got)
	}

	got, err = MedianOfDegree(values, 3)
	if err != nil {
		t.Fatal(err)
	}
	// every group has a single element at the last level
	if got != 5 {
		t.Errorf("degree 3: got %v, want 5", got)
	}
}

func TestMedianOfDegreeRemainder(t *testing.T) {
	// the last group takes the remainder: [1 2] [3 4] [5 6 100 200]
	values := []float64{1, 2, 3, 4, 5, 6, 100, 200}
	got, err := MedianOfDegree(values, 2)
	if err != nil {
		t.Fatal(err)
	}
	// median(1.5, 3.5, 53)
	if got != 3.5 {
		t.Errorf("got %v, want 3.5", got)
	}
}

func TestMedianOfDegreeErrors(t *testing.T) {
	testcases := []struct {
		n, degree int
		err       error
	}{
		{n: 2, degree: 2, err: ErrTooFewValues},
		{n: 0, degree: 2, err: ErrTooFewValues},
		{n: 0, degree: 1, err: ErrTooFewValues},
		{n: 8, degree: 3, err: ErrTooFewValues},
		{n: 26, degree: 4, err: ErrTooFewValues},
		{n: 3, degree: 64, err: ErrTooFewValues},
		{n: 5, degree: 0, err: ErrInvalidDegree},
		{n: 5, degree: -1, err: ErrInvalidDegree},
		{n: 3, degree: 2},
		{n: 9, degree: 3},
		{n: 27, degree: 4},
	}

	for _, tc := range testcases {
		values := make([]float64, tc.n)
		for i := range values {
			values[i] = float64(i)
		}
		_, err := MedianOfDegree(values, tc.degree)
		if tc.err == nil {
			if err != nil {
				t.Errorf("n=%d degree=%d: unexpected error %s", tc.n, tc.degree, err)
			}
			continue
		}
		if !errors.Is(err, tc.err) {
			t.Errorf("n=%d degree=%d: got error %v, want %v", tc.n, tc.degree, err, tc.err)
		}
	}
}

func TestMedianExtremeValues(t *testing.T) {
	big, tiny := math.MaxFloat64, math.SmallestNonzeroFloat64
	testcases := []struct {
		values []float64
		median float64
	}{
		{[]float64{big, big}, big},
		{[]float64{-big, -big}, -big},
		{[]float64{tiny, tiny}, tiny},
		{[]float64{big, -big}, 0},
		{[]float64{big / 2, big}, big * 0.75},
		{[]float64{-big, -big, big, big}, 0},
		{[]float64{1, 2, big, big, big, big}, big},
		{[]float64{math.Inf(1), math.Inf(1)}, math.Inf(1)},
	}
	for i := range testcases {
		if got := Median(testcases[i].values); got != testcases[i].median {
			t.Errorf("case %d: Median(%v) = %v, want %v", i, testcases[i].values, got, testcases[i].median)
		}
	}
}
