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

// Package floatfile reads and writes float64
// buffers in a small binary container.
//
// A file is laid out as
//
//	"PSRT" | version (1 byte) | len(name) (1 byte) | name | uvarint count | payload
//
// where name is the compression algorithm
// ("none", "zstd", "zstd-better" or "s2") and payload is
// the compressed little-endian encoding of count float64 values.
package floatfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/crypto/blake2b"
)

const (
	magic   = "PSRT"
	version = 1
)

// MaxCount is the largest number of
// values a buffer file may hold.
const MaxCount = 1 << 27

var (
	// ErrFormat is returned when decoding
	// data that is not a valid buffer file.
	ErrFormat = errors.New("floatfile: malformed input")
	// ErrCompression is returned for an
	// unknown compression algorithm.
	ErrCompression = errors.New("floatfile: unknown compression")
)

// Encode returns the file representation of buf,
// with the payload compressed with the named algorithm.
func Encode(buf []float64, compression string) ([]byte, error) {
	comp := Compression(compression)
	if comp == nil {
		return nil, fmt.Errorf("%w %q", ErrCompression, compression)
	}
	if len(buf) > MaxCount {
		return nil, fmt.Errorf("floatfile: %d values exceed the limit of %d", len(buf), MaxCount)
	}
	name := comp.Name()
	out := make([]byte, 0, len(magic)+2+len(name)+binary.MaxVarintLen64)
	out = append(out, magic...)
	out = append(out, version, byte(len(name)))
	out = append(out, name...)
	out = binary.AppendUvarint(out, uint64(len(buf)))
	if len(buf) == 0 {
		return out, nil
	}
	return comp.Compress(payload(buf), out), nil
}

// Decode parses data produced by Encode.
func Decode(data []byte) ([]float64, error) {
	if len(data) < len(magic)+2 || string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}
	data = data[len(magic):]
	if data[0] != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, data[0])
	}
	namelen := int(data[1])
	data = data[2:]
	if len(data) < namelen {
		return nil, fmt.Errorf("%w: truncated header", ErrFormat)
	}
	name := string(data[:namelen])
	data = data[namelen:]
	dec := Decompression(name)
	if dec == nil {
		return nil, fmt.Errorf("%w %q", ErrCompression, name)
	}
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad element count", ErrFormat)
	}
	data = data[n:]
	if count > MaxCount {
		return nil, fmt.Errorf("%w: element count %d too large", ErrFormat, count)
	}
	if count == 0 {
		if len(data) != 0 {
			return nil, fmt.Errorf("%w: %d trailing bytes", ErrFormat, len(data))
		}
		return []float64{}, nil
	}
	size := int(count) * 8
	declared, err := dec.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrFormat, name, err)
	}
	if declared >= 0 && declared != size {
		return nil, fmt.Errorf("%w: %s payload holds %d bytes, expected %d values",
			ErrFormat, name, declared, count)
	}
	raw := make([]byte, size)
	if err := dec.Decompress(data, raw); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrFormat, name, err)
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return out, nil
}

// WriteFile encodes buf and writes it to path.
func WriteFile(path string, buf []float64, compression string) error {
	data, err := Encode(buf, compression)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads and decodes the buffer stored at path.
func ReadFile(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	buf, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// Digest returns the BLAKE2b-256 hash of the
// little-endian encoding of buf. Unlike
// a multiset fingerprint, it depends on the order
// of the values, so two sorted copies of the
// same data have equal digests.
func Digest(buf []float64) [32]byte {
	return blake2b.Sum256(payload(buf))
}

func payload(buf []float64) []byte {
	raw := make([]byte, len(buf)*8)
	for i, f := range buf {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(f))
	}
	return raw
}
