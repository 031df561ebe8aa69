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

package floatfile

import (
	"fmt"
	"math"
	"runtime"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/slices"
)

// Compressor appends the compressed
// contents of src to dst.
type Compressor interface {
	// Name is the name written into the file header.
	Name() string
	// Compress appends the compressed contents
	// of src to dst and returns the result.
	Compress(src, dst []byte) []byte
}

// Decompressor is the inverse of Compressor.
type Decompressor interface {
	Name() string
	// Decompress decompresses src into dst,
	// which must have exactly the size of the
	// decompressed data.
	//
	// It must be safe to make multiple
	// calls to Decompress simultaneously
	// from different goroutines.
	Decompress(src, dst []byte) error
	// DecodedLen returns the decompressed size
	// declared by src, or -1 if src does not declare it.
	DecodedLen(src []byte) (int, error)
}

var zstdDecoder *zstd.Decoder

func init() {
	z, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		panic(err)
	}
	zstdDecoder = z
}

type rawCodec struct{}

func (rawCodec) Name() string { return "none" }

func (rawCodec) Compress(src, dst []byte) []byte { return append(dst, src...) }

func (rawCodec) Decompress(src, dst []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("expected %d bytes; got %d", len(dst), len(src))
	}
	copy(dst, src)
	return nil
}

func (rawCodec) DecodedLen(src []byte) (int, error) { return len(src), nil }

type zstdCompressor struct {
	name string
	enc  *zstd.Encoder
}

func (z zstdCompressor) Name() string { return z.name }

func (z zstdCompressor) Compress(src, dst []byte) []byte {
	return z.enc.EncodeAll(src, dst)
}

type zstdDecompressor zstd.Decoder

func (z *zstdDecompressor) Name() string { return "zstd" }

func (z *zstdDecompressor) Decompress(src, dst []byte) error {
	ret, err := (*zstd.Decoder)(z).DecodeAll(src, dst[:0:len(dst)])
	if err != nil {
		return err
	}
	return checkDecoded("zstd", ret, dst)
}

func (z *zstdDecompressor) DecodedLen(src []byte) (int, error) {
	var h zstd.Header
	if err := h.Decode(src); err != nil {
		return 0, err
	}
	if !h.HasFCS {
		return -1, nil
	}
	if h.FrameContentSize > math.MaxInt {
		return 0, fmt.Errorf("zstd: frame content size %d too large", h.FrameContentSize)
	}
	return int(h.FrameContentSize), nil
}

type s2Codec struct{}

func (s2Codec) Name() string { return "s2" }

func (s2Codec) Compress(src, dst []byte) []byte {
	n := s2.MaxEncodedLen(len(src))
	if n < 0 {
		panic(s2.ErrTooLarge)
	}
	dst = slices.Grow(dst, n)
	got := s2.Encode(dst[len(dst):len(dst)+n], src)
	return dst[:len(dst)+len(got)]
}

func (s2Codec) Decompress(src, dst []byte) error {
	ret, err := s2.Decode(dst[:0:len(dst)], src)
	if err != nil {
		return err
	}
	return checkDecoded("s2", ret, dst)
}

func (s2Codec) DecodedLen(src []byte) (int, error) { return s2.DecodedLen(src) }

// checkDecoded verifies that the decoder filled
// dst exactly, without reallocating it
func checkDecoded(name string, ret, dst []byte) error {
	if len(ret) != len(dst) {
		return fmt.Errorf("%s: expected %d bytes decompressed; got %d", name, len(dst), len(ret))
	}
	if len(ret) > 0 && &ret[0] != &dst[0] {
		return fmt.Errorf("%s decompress: output buffer realloc'd", name)
	}
	return nil
}

// Compression selects a compression algorithm by name.
// The returned Compressor will return the same value
// for Compressor.Name as the specified name,
// except that "" selects "none".
// It returns nil for unknown names.
func Compression(name string) Compressor {
	switch name {
	case "", "none":
		return rawCodec{}
	case "zstd", "zstd-better":
		level := zstd.SpeedDefault
		if name == "zstd-better" {
			level = zstd.SpeedBetterCompression
		}
		z, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(level),
			zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil
		}
		return zstdCompressor{name: name, enc: z}
	case "s2":
		return s2Codec{}
	default:
		return nil
	}
}

// Decompression returns the Decompressor for a
// name written by Compressor.Name, or nil.
func Decompression(name string) Decompressor {
	switch name {
	case "none":
		return rawCodec{}
	case "zstd", "zstd-better":
		return (*zstdDecompressor)(zstdDecoder)
	case "s2":
		return s2Codec{}
	default:
		return nil
	}
}
