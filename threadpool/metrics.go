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

package threadpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors
// updated by a Pool. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Submitted prometheus.Counter
	Completed prometheus.Counter
	Panicked  prometheus.Counter
	// Fallbacks counts submissions that found
	// no idle worker and went to worker 0.
	Fallbacks prometheus.Counter
	Busy      prometheus.Gauge
	Duration  prometheus.Histogram
}

// NewMetrics creates the pool collectors and
// registers them with registerer. If registerer
// is nil, the collectors are not registered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	f := promauto.With(registerer)
	return &Metrics{
		Submitted: f.NewCounter(prometheus.CounterOpts{
			Name: "parsort_threadpool_tasks_submitted_total",
			Help: "Total number of tasks queued on a worker",
		}),
		Completed: f.NewCounter(prometheus.CounterOpts{
			Name: "parsort_threadpool_tasks_completed_total",
			Help: "Total number of tasks that returned or panicked",
		}),
		Panicked: f.NewCounter(prometheus.CounterOpts{
			Name: "parsort_threadpool_tasks_panicked_total",
			Help: "Total number of tasks that panicked",
		}),
		Fallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "parsort_threadpool_dispatch_fallbacks_total",
			Help: "Total number of submissions that found no idle worker",
		}),
		Busy: f.NewGauge(prometheus.GaugeOpts{
			Name: "parsort_threadpool_workers_busy",
			Help: "Number of workers running a task",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "parsort_threadpool_task_duration_seconds",
			Help:    "Task run time in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8), // 1us to 10s
		}),
	}
}

func (m *Metrics) submitted() {
	if m != nil {
		m.Submitted.Inc()
	}
}

func (m *Metrics) fallback() {
	if m != nil {
		m.Fallbacks.Inc()
	}
}

func (m *Metrics) panicked() {
	if m != nil {
		m.Panicked.Inc()
	}
}

func (m *Metrics) completed(d time.Duration) {
	if m != nil {
		m.Completed.Inc()
		m.Duration.Observe(d.Seconds())
	}
}

func (m *Metrics) status(s Status) {
	if m == nil {
		return
	}
	if s == Working {
		m.Busy.Inc()
	} else {
		m.Busy.Dec()
	}
}
