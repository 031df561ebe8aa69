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

// Package config holds the settings shared by the
// sorter and the thread pool. Configuration files
// may be written in YAML or JSON.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/SnellerInc/parsort/floatfile"
	"github.com/SnellerInc/parsort/sorting"
	"github.com/SnellerInc/parsort/threadpool"

	"sigs.k8s.io/yaml"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("config: invalid setting")

// just pick an upper limit; real files are a few lines
const maxConfigSize = 64 * 1024

// Config is the on-disk configuration.
// Zero values select the defaults.
type Config struct {
	// Workers is the number of pool workers.
	// Zero means GOMAXPROCS.
	Workers int `json:"workers,omitempty"`
	// SubmitDelay is the pause after each pool
	// submission, as a time.Duration string ("1ms").
	SubmitDelay string `json:"submit_delay,omitempty"`
	// Pivot is the pivot strategy:
	// "ninther", "median3" or "midpoint".
	Pivot string `json:"pivot,omitempty"`
	// Grain is the range length at or below which
	// the parallel drivers sort sequentially.
	Grain int `json:"grain,omitempty"`
	// Parallelism bounds the number of goroutines
	// of the fork-join driver. Zero means GOMAXPROCS.
	Parallelism int `json:"parallelism,omitempty"`
	// Compression is used when writing buffer files.
	Compression string `json:"compression,omitempty"`
	// MedianDegree is the recursion depth
	// of the reported median of degree.
	MedianDegree int `json:"median_degree,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		SubmitDelay:  threadpool.DefaultSubmitDelay.String(),
		Pivot:        sorting.PivotNinther.String(),
		Grain:        sorting.DefaultGrain,
		Compression:  "zstd",
		MedianDegree: 2,
	}
}

// Parse decodes YAML or JSON over the defaults
// and validates the result. Unknown fields are an error.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxConfigSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("config %s: size beyond limit %d", path, maxConfigSize)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func invalid(f string, args ...interface{}) error {
	return fmt.Errorf("%w: "+f, append([]interface{}{ErrInvalid}, args...)...)
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return invalid("workers = %d", c.Workers)
	}
	if c.Grain < 0 {
		return invalid("grain = %d", c.Grain)
	}
	if c.Parallelism < 0 {
		return invalid("parallelism = %d", c.Parallelism)
	}
	if c.MedianDegree < 0 {
		return invalid("median_degree = %d", c.MedianDegree)
	}
	if _, err := c.submitDelay(); err != nil {
		return err
	}
	if _, err := sorting.ParsePivotStrategy(c.Pivot); err != nil {
		return invalid("pivot: %v", err)
	}
	if floatfile.Compression(c.Compression) == nil {
		return invalid("unknown compression %q", c.Compression)
	}
	return nil
}

func (c *Config) submitDelay() (time.Duration, error) {
	if c.SubmitDelay == "" {
		return threadpool.DefaultSubmitDelay, nil
	}
	d, err := time.ParseDuration(c.SubmitDelay)
	if err != nil {
		return 0, invalid("submit_delay: %v", err)
	}
	if d < 0 {
		return 0, invalid("negative submit_delay %s", d)
	}
	return d, nil
}

// SorterOptions returns the sorting options
// described by c. The logger may be nil.
func (c *Config) SorterOptions(logger *log.Logger) ([]sorting.Option, error) {
	pivot, err := sorting.ParsePivotStrategy(c.Pivot)
	if err != nil {
		return nil, invalid("pivot: %v", err)
	}
	opts := []sorting.Option{
		sorting.WithPivot(pivot),
		sorting.WithParallelism(c.Parallelism),
		sorting.WithLogger(logger),
	}
	if c.Grain > 0 {
		opts = append(opts, sorting.WithGrain(c.Grain))
	}
	return opts, nil
}

// PoolOptions returns the thread pool options
// described by c. The logger and metrics may be nil.
func (c *Config) PoolOptions(logger *log.Logger, metrics *threadpool.Metrics) ([]threadpool.Option, error) {
	d, err := c.submitDelay()
	if err != nil {
		return nil, err
	}
	return []threadpool.Option{
		threadpool.WithSubmitDelay(d),
		threadpool.WithLogger(logger),
		threadpool.WithMetrics(metrics),
	}, nil
}
