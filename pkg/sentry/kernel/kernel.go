// Copyright 2026 The linux-trace-error Authors.
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

// Package kernel provides a minimal task runtime: independently scheduled
// execution contexts with their own identity and private state. It exists
// to give the errtrace facility its "current task": each Task owns the
// single-slot error record that instrumented call sites write and that
// diagnostic consumers (procfs, strace) read cross-task.
package kernel

import (
	"fmt"
)

// Kernel owns the set of live tasks.
type Kernel struct {
	// tasks is the kernel's task set.
	tasks TaskSet

	// stracer, if non-nil, is notified of syscall execution on all tasks.
	// It must be set before the first call to CreateTask and not changed
	// afterwards.
	stracer Stracer
}

// New returns a new Kernel with no tasks.
func New() *Kernel {
	k := &Kernel{}
	k.tasks.init()
	return k
}

// SetStracer sets the kernel's syscall tracer.
//
// Preconditions: No task has been created yet.
func (k *Kernel) SetStracer(s Stracer) {
	k.stracer = s
}

// CreateTask creates a new task as configured, registers it, and starts its
// task goroutine.
func (k *Kernel) CreateTask(cfg TaskConfig) (*Task, error) {
	if cfg.Fn == nil {
		return nil, fmt.Errorf("task %q has no body", cfg.Name)
	}
	t := &Task{
		name:   cfg.Name,
		k:      k,
		exited: make(chan struct{}),
	}
	// The task's error record starts zeroed; a recycled ThreadID never
	// inherits a prior task's record.
	if err := k.tasks.assignTID(t); err != nil {
		return nil, err
	}
	go t.run(cfg.Fn)
	return t, nil
}

// TaskWithID returns the task with the given ThreadID, or nil if no such
// task exists.
func (k *Kernel) TaskWithID(tid ThreadID) *Task {
	return k.tasks.taskWithID(tid)
}

// Tasks returns a snapshot of all live tasks.
func (k *Kernel) Tasks() []*Task {
	return k.tasks.liveTasks()
}
