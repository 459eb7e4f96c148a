// Copyright 2024-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package async provides the worker pool tile decoding runs on.
package async

import (
	"runtime"

	"github.com/destel/rill"
)

const (
	// DefaultTaskChannelLength is the default backlog of scheduled tasks.
	DefaultTaskChannelLength = 64
)

// DefaultWorkers provides the default pool width.
func DefaultWorkers() int {
	cpus := runtime.GOMAXPROCS(-1)

	return max(cpus-1, 1)
}

// Task is a unit of background work.
type Task func()

// Pool runs tasks on a fixed number of background workers.  There are no
// ordering guarantees between tasks.  Pool satisfies the tile pipeline's
// TaskProcessor contract.
type Pool struct {
	tasks chan rill.Try[Task]
	done  chan struct{}
}

// NewPool starts a pool of n workers.  Widths below one are raised to one.
func NewPool(n int) *Pool {
	if n < 1 {
		n = 1
	}

	p := &Pool{
		tasks: make(chan rill.Try[Task], DefaultTaskChannelLength),
		done:  make(chan struct{}),
	}

	go func() {
		defer close(p.done)

		_ = rill.ForEach(p.tasks, n, func(task Task) error {
			task()

			return nil
		})
	}()

	return p
}

// StartTask schedules a task on the pool.  StartTask after Close panics.
func (p *Pool) StartTask(task func()) {
	p.tasks <- rill.Try[Task]{Value: task}
}

// Close stops accepting tasks and blocks until queued tasks have drained.
func (p *Pool) Close() {
	close(p.tasks)
	<-p.done
}
