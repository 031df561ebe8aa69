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
	"log"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// DefaultGrain is the default size of a range
// below which the parallel drivers stop splitting
// work and sort the range sequentially.
const DefaultGrain = 1024

// Sorter holds the settings shared by
// the sorting drivers. A Sorter is safe
// for concurrent use; concurrent sorts
// share its parallelism budget.
type Sorter struct {
	pivot       PivotStrategy
	grain       int
	parallelism int

	// slots bounds the number of extra
	// goroutines forked by SortParallel
	slots *semaphore.Weighted

	// logger receives diagnostics;
	// if it is nil nothing is logged
	logger *log.Logger
}

// Option is an optional argument to NewSorter.
type Option func(s *Sorter)

// WithPivot sets the pivot selection strategy.
func WithPivot(strategy PivotStrategy) Option {
	return func(s *Sorter) {
		s.pivot = strategy
	}
}

// WithGrain sets the size of a range that the
// parallel drivers sort without splitting it further.
// Values smaller than 1 are treated as 1.
func WithGrain(grain int) Option {
	return func(s *Sorter) {
		s.grain = max(grain, 1)
	}
}

// WithParallelism sets the maximum number of
// goroutines a single SortParallel call runs on,
// including the caller's. Values smaller than 1
// mean runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(s *Sorter) {
		s.parallelism = n
	}
}

// WithLogger is an option that can be passed
// to NewSorter to have it log diagnostic information.
func WithLogger(l *log.Logger) Option {
	return func(s *Sorter) {
		s.logger = l
	}
}

// NewSorter constructs a Sorter. Without options
// it uses PivotNinther, DefaultGrain and
// runtime.GOMAXPROCS(0) goroutines.
func NewSorter(opts ...Option) *Sorter {
	s := &Sorter{
		pivot: PivotNinther,
		grain: DefaultGrain,
	}
	for i := range opts {
		opts[i](s)
	}
	if s.parallelism < 1 {
		s.parallelism = runtime.GOMAXPROCS(0)
	}
	s.slots = semaphore.NewWeighted(int64(s.parallelism - 1))
	return s
}

// Pivot returns the configured pivot strategy.
func (s *Sorter) Pivot() PivotStrategy { return s.pivot }

// Grain returns the configured grain size.
func (s *Sorter) Grain() int { return s.grain }

// Parallelism returns the configured parallelism.
func (s *Sorter) Parallelism() int { return s.parallelism }

func (s *Sorter) errorf(f string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf("sorting: error: "+f, args...)
	}
}

var defaultSorter = NewSorter()

// Sort sorts buf in ascending order in place
// using the fork-join driver with default settings.
// The sort is not stable. buf must not contain NaNs.
func Sort(buf []float64) { defaultSorter.Sort(buf) }

// SortSequential sorts buf in ascending order in place
// on the calling goroutine.
func SortSequential(buf []float64) { defaultSorter.SortSequential(buf) }

// SortParallel sorts buf in ascending order in place
// using the fork-join driver.
func SortParallel(buf []float64) { defaultSorter.SortParallel(buf) }

// SortOnPool sorts buf in ascending order in place
// by submitting ranges to pool. See Sorter.SortOnPool.
func SortOnPool(pool Executor, buf []float64) error {
	return defaultSorter.SortOnPool(pool, buf)
}

// Sort is the same as SortParallel.
func (s *Sorter) Sort(buf []float64) { s.SortParallel(buf) }
