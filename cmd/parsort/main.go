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

// Command parsort sorts a float64 buffer with the
// sequential, fork-join and thread pool drivers and
// reports timings, medians and a digest of the result.
//
// Usage:
//
//	parsort [-config parsort.yaml] [-n 1000000] [-seed 1] [-in buf.psrt]
//	        [-out sorted.psrt] [-compression zstd] [-mode all] [-median-degree 2]
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/SnellerInc/parsort/config"
	"github.com/SnellerInc/parsort/floatfile"
	"github.com/SnellerInc/parsort/sorting"
	"github.com/SnellerInc/parsort/threadpool"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/slices"
)

var (
	dashconfig  string
	dashn       int
	dashseed    int64
	dashin      string
	dashout     string
	dashcomp    string
	dashmode    string
	dashdegree  int
	dashv       bool
	dashmetrics bool
	dashtrace   bool
)

func init() {
	flag.StringVar(&dashconfig, "config", "", "YAML or JSON configuration file")
	flag.IntVar(&dashn, "n", 1000000, "number of random values to generate when -in is not set")
	flag.Int64Var(&dashseed, "seed", 1, "random seed for generated values")
	flag.StringVar(&dashin, "in", "", "read the buffer from this file")
	flag.StringVar(&dashout, "out", "", "write the sorted buffer to this file")
	flag.StringVar(&dashcomp, "compression", "", "compression for -out (none, zstd, zstd-better, s2)")
	flag.StringVar(&dashmode, "mode", "all", "driver to run: seq, par, pool or all")
	flag.IntVar(&dashdegree, "median-degree", -1, "degree of the reported median of degree (0 to skip)")
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.BoolVar(&dashmetrics, "metrics", false, "print thread pool metrics on exit")
	flag.BoolVar(&dashtrace, "trace", false, "write a span per driver run to stderr")
}

func fatalf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func loadConfig() *config.Config {
	conf := config.Default()
	if dashconfig != "" {
		var err error
		conf, err = config.Load(dashconfig)
		if err != nil {
			fatalf("loading config: %s", err)
		}
	}
	if dashcomp != "" {
		conf.Compression = dashcomp
	}
	if dashdegree >= 0 {
		conf.MedianDegree = dashdegree
	}
	if err := conf.Validate(); err != nil {
		fatalf("%s", err)
	}
	return conf
}

func input() []float64 {
	if dashin != "" {
		buf, err := floatfile.ReadFile(dashin)
		if err != nil {
			fatalf("reading input: %s", err)
		}
		return buf
	}
	if dashn < 0 {
		fatalf("-n must not be negative")
	}
	rnd := rand.New(rand.NewSource(dashseed))
	buf := make([]float64, dashn)
	for i := range buf {
		buf[i] = rnd.NormFloat64() * 1000
	}
	return buf
}

type driver struct {
	name string
	sort func(buf []float64) error
}

func drivers(mode string, s *sorting.Sorter, pool *threadpool.Pool) []driver {
	all := []driver{
		{"seq", func(buf []float64) error { s.SortSequential(buf); return nil }},
		{"par", func(buf []float64) error { s.SortParallel(buf); return nil }},
		{"pool", func(buf []float64) error { return s.SortOnPool(pool, buf) }},
	}
	if mode == "all" {
		return all
	}
	for i := range all {
		if all[i].name == mode {
			return all[i : i+1]
		}
	}
	fatalf("unknown -mode %q", mode)
	return nil
}

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(1)
	}

	conf := loadConfig()
	var logger *log.Logger
	if dashv {
		logger = log.New(os.Stderr, "", log.LstdFlags)
		text, err := conf.Marshal()
		if err == nil {
			logger.Printf("configuration:\n%s", text)
		}
	}

	sopts, err := conf.SorterOptions(logger)
	if err != nil {
		fatalf("%s", err)
	}
	sorter := sorting.NewSorter(sopts...)

	reg := prometheus.NewRegistry()
	popts, err := conf.PoolOptions(logger, threadpool.NewMetrics(reg))
	if err != nil {
		fatalf("%s", err)
	}
	pool := threadpool.New(conf.Workers, popts...)
	defer pool.Close()

	tr, flush := tracer(dashtrace)
	defer flush()
	ctx, root := tr.Start(context.Background(), "parsort")
	defer root.End()

	buf := input()
	fp := sorting.Fingerprint(buf)
	fmt.Printf("%d values, pivot %s, grain %d, parallelism %d, %d pool workers\n",
		len(buf), sorter.Pivot(), sorter.Grain(), sorter.Parallelism(), pool.Size())

	var sorted []float64
	var digest [32]byte
	for _, d := range drivers(dashmode, sorter, pool) {
		cp := slices.Clone(buf)
		_, span := tr.Start(ctx, "sort."+d.name)
		span.SetAttributes(attribute.Int("values", len(cp)))
		start := time.Now()
		err := d.sort(cp)
		elapsed := time.Since(start)
		if err != nil {
			span.RecordError(err)
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.name, err)
		}
		span.End()
		if !sorting.IsSorted(cp) {
			fatalf("%s: output is not sorted", d.name)
		}
		if sorting.Fingerprint(cp) != fp {
			fatalf("%s: output is not a permutation of the input", d.name)
		}
		sum := floatfile.Digest(cp)
		if sorted != nil && sum != digest {
			fatalf("%s: result differs from the previous driver", d.name)
		}
		sorted, digest = cp, sum
		fmt.Printf("%-5s %12s  blake2b %s\n", d.name, elapsed, hex.EncodeToString(sum[:8]))
	}

	if len(sorted) > 0 {
		fmt.Printf("median %g\n", sorting.MedianSorted(sorted))
		if conf.MedianDegree > 0 {
			m, err := sorting.MedianOfDegree(buf, conf.MedianDegree)
			if err != nil {
				fmt.Fprintf(os.Stderr, "median of degree %d: %s\n", conf.MedianDegree, err)
			} else {
				fmt.Printf("median of degree %d %g\n", conf.MedianDegree, m)
			}
		}
	}

	if dashout != "" {
		if err := floatfile.WriteFile(dashout, sorted, conf.Compression); err != nil {
			fatalf("writing output: %s", err)
		}
	}

	if dashmetrics {
		pool.Close()
		mfs, err := reg.Gather()
		if err != nil {
			fatalf("gathering metrics: %s", err)
		}
		for _, mf := range mfs {
			if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
				fatalf("writing metrics: %s", err)
			}
		}
	}
}
