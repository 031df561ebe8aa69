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

/*
Package sorting implements an in-place, parallel
quicksort for float64 buffers.


Overview

Buffers are sorted in ascending order. The sort is not
stable, which does not matter for plain float64 values.

There are three drivers sharing the same partitioning
code:

1. SortSequential runs on the calling goroutine.
2. SortParallel (and Sort) uses fork-join: after a range
is partitioned, its two halves are sorted concurrently when
a spare goroutine slot is available.
3. SortOnPool submits ranges to a fire-and-forget executor,
such as threadpool.Pool, and counts outstanding ranges itself.

The package also exposes the building blocks: Median,
MedianOfDegree, SelectPivot and Partition.


Limitations

1. Buffers must not contain NaN values. The Go comparison
operators return false for any comparison with NaN, so
the result is not sorted and partitioning may run out
of range. This is not checked.

2. There is no way to cancel a sort in progress.


Design

Partitioning follows Hoare's scheme: two cursors scan
inwards from both ends of a range and swap misplaced pairs.
The pivot value is copied before partitioning starts, as
the cell it comes from may be overwritten.

Pivots are chosen with one of the PivotStrategy values;
the default (PivotNinther) takes the median of three
medians-of-three for larger ranges, which keeps partitions
balanced on already sorted or reversed input.

The parallel drivers never share an index between two
concurrent tasks: a range is only ever split at a single
index p+1 into buf[:p+1] and buf[p+1:], and each half is
handed to exactly one task. No locking is needed on the
buffer itself.
*/
package sorting
