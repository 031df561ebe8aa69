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
	"math"
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

func TestPartitionMidpoint(t *testing.T) {
	testcases := []struct {
		name      string
		in        []float64
		low, high int
		split     int
		out       []float64
	}{
		{
			name:  "one",
			in:    []float64{-3.3},
			split: 0,
			out:   []float64{-3.3},
		},
		{
			name:  "two-unsorted",
			in:    []float64{9.0, 8.0},
			split: 0,
			out:   []float64{8.0, 9.0},
		},
		{
			name:  "even-sorted",
			in:    []float64{1.0, 2.4, 3.0, 7.0},
			split: 1,
			out:   []float64{1.0, 2.4, 3.0, 7.0},
		},
		{
			name:  "even-sorted-subrange",
			in:    []float64{1.0, 2.4, 3.0, 7.0, 16.4, 902.1, -703.2, 9.2},
			low:   1,
			high:  4,
			split: 2,
			out:   []float64{1.0, 2.4, 3.0, 7.0, 16.4, 902.1, -703.2, 9.2},
		},
		{
			name:  "equal",
			in:    []float64{3.0, 3.0, 3.0},
			split: 1,
			out:   []float64{3.0, 3.0, 3.0},
		},
		{
			name:  "odd-sorted",
			in:    []float64{2.3, 3.0, 4.0},
			split: 1,
			out:   []float64{2.3, 3.0, 4.0},
		},
		{
			name:  "even-unsorted",
			in:    []float64{1.0, 7.1, 2.2, 8.0},
			split: 1,
			out:   []float64{1.0, 2.2, 7.1, 8.0},
		},
		{
			name:  "odd-unsorted",
			in:    []float64{9.2, 3.1, 4.0},
			split: 0,
			out:   []float64{3.1, 9.2, 4.0},
		},
	}

	for i := range testcases {
		tc := &testcases[i]
		t.Run(tc.name, func(t *testing.T) {
			high := tc.high
			if high == 0 {
				high = len(tc.in) - 1
			}
			buf := slices.Clone(tc.in)

			split := PartitionRange(buf, tc.low, high, PivotMidpoint)

			if split != tc.split {
				t.Errorf("split = %d, want %d", split, tc.split)
			}
			if !slices.Equal(buf, tc.out) {
				t.Errorf("buffer = %v, want %v", buf, tc.out)
			}
		})
	}
}

func TestPartitionInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	strategies := []PivotStrategy{PivotNinther, PivotMedianOfThree, PivotMidpoint}
	for size := 1; size < 300; size++ {
		for _, strategy := range strategies {
			buf := randomBuffer(rnd, size+10, size%7 == 0)
			orig := slices.Clone(buf)
			low, high := 5, 5+size-1

			// given
			pivot := SelectPivot(buf, low, high, strategy)

			// when
			p := Partition(buf, low, high, pivot)

			// then
			if p < low || p > high {
				t.Fatalf("size=%d %s: split %d outside of [%d, %d]", size, strategy, p, low, high)
			}
			if size > 1 && p == high {
				t.Fatalf("size=%d %s: partition made no progress", size, strategy)
			}
			for i := low; i <= p; i++ {
				if buf[i] > pivot {
					t.Fatalf("size=%d %s: buf[%d]=%v > pivot %v", size, strategy, i, buf[i], pivot)
				}
			}
			for i := p + 1; i <= high; i++ {
				if buf[i] < pivot {
					t.Fatalf("size=%d %s: buf[%d]=%v < pivot %v", size, strategy, i, buf[i], pivot)
				}
			}
			for i := range buf {
				if (i < low || i > high) && buf[i] != orig[i] {
					t.Fatalf("size=%d %s: element %d outside of the range modified", size, strategy, i)
				}
			}
			if Fingerprint(buf) != Fingerprint(orig) {
				t.Fatalf("size=%d %s: partition lost or duplicated values", size, strategy)
			}
		}
	}
}

func TestPartitionDistinctValuesStrictlyGreater(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	buf := make([]float64, 257)
	for i := range buf {
		buf[i] = float64(i)
	}
	rnd.Shuffle(len(buf), func(i, j int) { buf[i], buf[j] = buf[j], buf[i] })

	pivot := SelectPivot(buf, 0, len(buf)-1, PivotNinther)
	p := Partition(buf, 0, len(buf)-1, pivot)
	for i := p + 1; i < len(buf); i++ {
		if buf[i] <= pivot {
			t.Fatalf("buf[%d]=%v is not greater than pivot %v", i, buf[i], pivot)
		}
	}
}

func TestPartitionAllEqualSplitsInside(t *testing.T) {
	buf := make([]float64, 16)
	for i := range buf {
		buf[i] = 4.2
	}
	p := Partition(buf, 0, len(buf)-1, 4.2)
	if p == 0 || p == len(buf)-1 {
		t.Errorf("expected an interior split, got %d", p)
	}
}

func TestSelectPivot(t *testing.T) {
	buf := []float64{
		9, 1, 5, // first third, median of three: 5
		3, 8, 2, // second third: 3
		7, 4, 6, 0, // last third: 7, 4, 0 -> 4
	}
	testcases := []struct {
		strategy  PivotStrategy
		low, high int
		pivot     float64
	}{
		{PivotMidpoint, 0, 9, 8},
		{PivotMedianOfThree, 0, 9, 8}, // 9, 8, 0
		{PivotNinther, 0, 9, 4},       // median(5, 3, 4)
		{PivotNinther, 0, 5, 5},       // median of three: 9, 5, 2
		{PivotNinther, 3, 5, 3},       // exact median of 3, 8, 2
		{PivotNinther, 0, 1, 1},       // smaller of 9 and 1
		{PivotNinther, 4, 4, 8},
	}
	for _, tc := range testcases {
		got := SelectPivot(buf, tc.low, tc.high, tc.strategy)
		if got != tc.pivot {
			t.Errorf("%s [%d, %d]: got %v, want %v", tc.strategy, tc.low, tc.high, got, tc.pivot)
		}
	}
}

func TestParsePivotStrategy(t *testing.T) {
	for _, s := range []PivotStrategy{PivotNinther, PivotMedianOfThree, PivotMidpoint} {
		got, err := ParsePivotStrategy(s.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("got %s, want %s", got, s)
		}
	}
	if _, err := ParsePivotStrategy("random"); err == nil {
		t.Error("expected an error")
	}
}

func randomBuffer(rnd *rand.Rand, n int, duplicates bool) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		if duplicates {
			buf[i] = float64(rnd.Intn(5))
		} else {
			buf[i] = rnd.NormFloat64() * 1000
		}
	}
	return buf
}

// extremes are values for which a pivot computed
// arithmetically may round outside of the range
var extremes = []float64{
	math.MaxFloat64, -math.MaxFloat64,
	math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64,
	math.Inf(1), math.Inf(-1), 0,
}

func extremeBuffer(rnd *rand.Rand, n int) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		if rnd.Intn(4) == 0 {
			buf[i] = rnd.NormFloat64()
		} else {
			buf[i] = extremes[rnd.Intn(len(extremes))]
		}
	}
	return buf
}

func TestPartitionExtremeValues(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	strategies := []PivotStrategy{PivotNinther, PivotMedianOfThree, PivotMidpoint}
	for size := 2; size < 40; size++ {
		for _, strategy := range strategies {
			for iter := 0; iter < 20; iter++ {
				buf := extremeBuffer(rnd, size)
				orig := slices.Clone(buf)

				// given
				pivot := SelectPivot(buf, 0, size-1, strategy)

				// then
				if !slices.Contains(orig, pivot) {
					t.Fatalf("size=%d %s: pivot %v is not a value of %v", size, strategy, pivot, orig)
				}

				// when
				p := Partition(buf, 0, size-1, pivot)

				// then
				if p < 0 || p >= size-1 {
					t.Fatalf("size=%d %s: bad split %d of %v", size, strategy, p, orig)
				}
				for i := range buf {
					if (i <= p && buf[i] > pivot) || (i > p && buf[i] < pivot) {
						t.Fatalf("size=%d %s: %v not partitioned around %v at %d", size, strategy, buf, pivot, p)
					}
				}
			}
		}
	}
}
