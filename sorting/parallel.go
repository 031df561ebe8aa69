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
	"sync"
)

// SortParallel sorts buf in place.
//
// After partitioning, buf is split at p+1 into two
// slices that share no elements, and the two halves
// are sorted concurrently when a spare goroutine slot
// is available, or one after another otherwise. Both
// halves are sorted before the call returns.
func (s *Sorter) SortParallel(buf []float64) {
	if len(buf) > 1 {
		s.parallel(buf)
	}
}

func (s *Sorter) parallel(buf []float64) {
	if len(buf) <= s.grain {
		s.quicksort(buf, 0, len(buf)-1)
		return
	}

	p := PartitionRange(buf, 0, len(buf)-1, s.pivot)
	left, right := buf[:p+1], buf[p+1:]

	// trivial halves are never scheduled
	switch {
	case len(left) > 1 && len(right) > 1:
		s.fork(func() { s.parallel(left) }, func() { s.parallel(right) })
	case len(left) > 1:
		s.parallel(left)
	case len(right) > 1:
		s.parallel(right)
	}
}

// fork runs a and b and returns when both are done.
// a runs on a new goroutine if a slot is free,
// b always runs on the calling goroutine.
func (s *Sorter) fork(a, b func()) {
	if !s.slots.TryAcquire(1) {
		a()
		b()
		return
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer s.slots.Release(1)
		a()
	}()
	b()
	wg.Wait()
}
