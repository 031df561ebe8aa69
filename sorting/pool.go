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

// Executor runs submitted functions asynchronously.
// It is implemented by *threadpool.Pool.
type Executor interface {
	Execute(task func()) error
}

// SortOnPool sorts buf in place by submitting
// ranges to pool.
//
// Each submitted task partitions its range and
// submits both halves as new tasks; ranges not
// longer than the grain are sorted within a single
// task. The executor gives no completion signal, so
// the outstanding tasks are counted here and
// SortOnPool returns once all of them are done.
//
// If the executor rejects a range, the range is sorted
// on the submitting goroutine instead and the first
// rejection is returned. buf is sorted even if the
// returned error is not nil.
func (s *Sorter) SortOnPool(pool Executor, buf []float64) error {
	if len(buf) < 2 {
		return nil
	}

	j := &poolSort{sorter: s, pool: pool}
	j.wg.Add(1)
	j.submit(buf)
	j.wg.Wait()
	return j.err
}

type poolSort struct {
	sorter *Sorter
	pool   Executor
	wg     sync.WaitGroup

	errMutex sync.Mutex
	err      error
}

// submit hands buf to the pool; the caller
// must have already added buf to j.wg.
func (j *poolSort) submit(buf []float64) {
	err := j.pool.Execute(func() { j.run(buf) })
	if err != nil {
		j.sorter.errorf("executor rejected a range of %d values, sorting inline: %s", len(buf), err)
		j.fail(err)
		j.run(buf)
	}
}

func (j *poolSort) run(buf []float64) {
	defer j.wg.Done()

	s := j.sorter
	if len(buf) <= s.grain {
		s.quicksort(buf, 0, len(buf)-1)
		return
	}

	p := PartitionRange(buf, 0, len(buf)-1, s.pivot)
	for _, half := range [2][]float64{buf[:p+1], buf[p+1:]} {
		if len(half) > 1 {
			j.wg.Add(1)
			j.submit(half)
		}
	}
}

func (j *poolSort) fail(err error) {
	j.errMutex.Lock()
	defer j.errMutex.Unlock()
	if j.err == nil {
		j.err = err
	}
}
