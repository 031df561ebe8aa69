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
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"
)

// IsSorted reports whether buf is sorted in ascending order.
func IsSorted(buf []float64) bool {
	for i := 1; i < len(buf); i++ {
		if buf[i] < buf[i-1] {
			return false
		}
	}
	return true
}

// Fingerprint returns a hash of the multiset of
// values in buf. It does not depend on the order
// of the values, so a correct in-place sort never
// changes the fingerprint of its buffer.
func Fingerprint(buf []float64) uint64 {
	const (
		k0 = 0x5d1e6e0f2a4c8b93
		k1 = 0xc3a5c85c97cb3127
	)
	var sum uint64
	var tmp [8]byte
	for _, v := range buf {
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
		sum += siphash.Hash(k0, k1, tmp[:])
	}
	return sum
}
