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

// Partition reorders buf[low:high+1] around pivot
// using Hoare's scheme and returns the split index p.
//
// When it returns, every element of buf[low:p+1] is
// less than or equal to pivot and every element of
// buf[p+1:high+1] is greater than or equal to pivot,
// with low <= p <= high. Elements outside of the range
// are not touched. The partition is unstable: elements
// equal to pivot may end up on either side.
//
// The pivot has to lie between the smallest and the
// largest value of the range (SelectPivot guarantees
// that), otherwise the scans run out of the range.
func Partition(buf []float64, low, high int, pivot float64) int {
	// Both cursors start one step outside of the
	// range and are moved before each comparison.
	left, right := low-1, high+1
	for {
		left++
		for buf[left] < pivot {
			left++
		}

		right--
		for buf[right] > pivot {
			right--
		}

		if left >= right {
			return right
		}

		buf[left], buf[right] = buf[right], buf[left]
	}
}

// PartitionRange selects a pivot for buf[low:high+1]
// with the given strategy and partitions the range
// around it. See Partition.
func PartitionRange(buf []float64, low, high int, strategy PivotStrategy) int {
	// The pivot is a copy: partitioning may overwrite
	// the cell it was read from.
	pivot := SelectPivot(buf, low, high, strategy)
	return Partition(buf, low, high, pivot)
}
