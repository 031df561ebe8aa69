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

// SortSequential sorts buf in place on the calling goroutine.
func (s *Sorter) SortSequential(buf []float64) {
	s.quicksort(buf, 0, len(buf)-1)
}

// quicksort sorts buf[low:high+1].
//
// It recurses into the smaller half and loops over
// the larger one, so the stack depth stays O(log n)
// even when pivots are chosen badly.
func (s *Sorter) quicksort(buf []float64, low, high int) {
	for low < high {
		p := PartitionRange(buf, low, high, s.pivot)
		if p-low < high-p {
			s.quicksort(buf, low, p)
			low = p + 1
		} else {
			s.quicksort(buf, p+1, high)
			high = p
		}
	}
}
