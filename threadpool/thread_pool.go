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

// Package threadpool implements a fixed-size pool of
// long-lived worker goroutines, each consuming its own
// task queue.
//
// Tasks are fire-and-forget: Execute returns as soon
// as the task is queued, and the pool offers no way to
// observe when (or whether) a task finished. Callers
// that need to wait for their tasks have to count them
// themselves, for example with a sync.WaitGroup.
//
// # Dispatch
//
// The pool keeps the status (Idle or Working) of every
// worker in a single table guarded by a mutex. Execute
// picks the first Idle worker, or worker 0 if none is
// idle, queues the task there and then sleeps for the
// submit delay, which gives the chosen worker time to
// mark itself Working before the next submission looks
// at the table.
//
// This is a heuristic. Back-to-back submissions can
// still observe the same stale Idle status and queue
// their tasks behind the same worker, and every task
// submitted while all workers are busy goes to worker 0.
// Queues are unbounded, so neither case loses a task,
// but it can leave other workers idle.
package threadpool

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work submitted to a Pool.
type Task = func()

// Status is the state of a single worker.
type Status int

const (
	// Idle workers are waiting for a task.
	Idle Status = iota
	// Working workers are running a task.
	Working
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Working:
		return "working"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

var (
	// ErrNilTask is returned by Execute for a nil task.
	ErrNilTask = errors.New("threadpool: nil task")
	// ErrClosed is returned by Execute when the queue
	// of the chosen worker does not accept tasks anymore.
	ErrClosed = errors.New("threadpool: queue is closed")
)

// DefaultSubmitDelay is the default pause
// taken by Execute after queueing a task.
const DefaultSubmitDelay = time.Millisecond

// Pool is a fixed-size set of workers.
type Pool struct {
	id      uuid.UUID
	delay   time.Duration
	logger  *log.Logger
	metrics *Metrics

	lock   sync.Mutex // guards status
	status []Status

	queues []queue
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// Option is an optional argument to New.
type Option func(p *Pool)

// WithSubmitDelay sets the pause taken by Execute
// after queueing a task. Zero disables the pause.
func WithSubmitDelay(d time.Duration) Option {
	return func(p *Pool) {
		p.delay = d
	}
}

// WithLogger is an option that can be passed to New
// to have the pool log diagnostic information.
// If no logger is set, nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(p *Pool) {
		p.logger = l
	}
}

// WithMetrics makes the pool report to m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

// New starts a pool of size workers.
// If size is less than 1, runtime.GOMAXPROCS(0)
// workers are started.
//
// Workers run until Close is called.
func New(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		id:     uuid.New(),
		delay:  DefaultSubmitDelay,
		status: make([]Status, size),
		queues: make([]queue, size),
	}
	for i := range opts {
		opts[i](p)
	}

	p.wg.Add(size)
	for i := range p.queues {
		p.queues[i].init()
		go p.worker(i)
	}
	p.logf("started %d workers", size)
	return p
}

// ID returns the identifier of the pool used in log messages.
func (p *Pool) ID() uuid.UUID { return p.id }

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.queues) }

// Statuses returns a snapshot of the worker status table.
func (p *Pool) Statuses() []Status {
	p.lock.Lock()
	defer p.lock.Unlock()
	out := make([]Status, len(p.status))
	copy(out, p.status)
	return out
}

// Pending returns the number of queued tasks
// that no worker has started yet.
func (p *Pool) Pending() int {
	n := 0
	for i := range p.queues {
		n += p.queues[i].len()
	}
	return n
}

// Execute queues task on a worker and returns
// without waiting for it to run.
//
// An error is returned if task is nil or if the
// chosen worker's queue is closed; in both cases
// the task will not run.
func (p *Pool) Execute(task Task) error {
	if task == nil {
		return ErrNilTask
	}

	id := p.pick()
	if err := p.queues[id].push(task); err != nil {
		return fmt.Errorf("worker %d: %w", id, err)
	}
	p.metrics.submitted()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return nil
}

// pick returns the first idle worker, or worker 0.
func (p *Pool) pick() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	for i := range p.status {
		if p.status[i] == Idle {
			return i
		}
	}
	p.metrics.fallback()
	return 0
}

func (p *Pool) setStatus(id int, s Status) {
	p.lock.Lock()
	p.status[id] = s
	p.lock.Unlock()
	p.metrics.status(s)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	q := &p.queues[id]
	for {
		task, ok := q.pop()
		if !ok {
			return
		}
		p.setStatus(id, Working)
		p.run(id, task)
		p.setStatus(id, Idle)
	}
}

// run executes a single task; a panicking task
// is logged and does not take the worker down.
func (p *Pool) run(id int, task Task) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.errorf("worker %d: task panicked: %v", id, r)
			p.metrics.panicked()
		}
		p.metrics.completed(time.Since(start))
	}()
	task()
}

// Close stops accepting new tasks, waits until the
// workers have run every task already queued, and
// stops them. It is safe to call Close more than once.
//
// Tasks still running when Close is called may submit
// new tasks; those submissions fail with ErrClosed.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		for i := range p.queues {
			p.queues[i].close()
		}
		p.wg.Wait()
		p.logf("stopped")
	})
	return nil
}

func (p *Pool) logf(f string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf("threadpool %s: "+f, append([]interface{}{p.id}, args...)...)
	}
}

func (p *Pool) errorf(f string, args ...interface{}) {
	p.logf("error: "+f, args...)
}
