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

package kernel

import (
	"time"

	"github.com/nviennot/linux-trace-error/pkg/errtrace"
)

// Task represents a thread of execution.
//
// Each task is associated with a goroutine, called the task goroutine, that
// executes code on behalf of that task. See Task.run.
//
// All fields that are "owned by the task goroutine" can only be mutated by
// the task goroutine while it is running; other goroutines may only read
// them through the synchronization documented per-field.
type Task struct {
	// id is the task's ThreadID. id is immutable after assignTID.
	id ThreadID

	// name describes the task's purpose. name is immutable.
	name string

	// k is the owning Kernel. k is immutable.
	k *Kernel

	// lastErr is the task's error-provenance record: the source location
	// and errno of the most recent error recorded while executing as this
	// task. lastErr is written only by the task goroutine (through
	// errtrace.Code/Error resolving CtxSlot to &t.lastErr); cross-task
	// readers go through lastErr.Load, which synchronizes with the writer.
	lastErr errtrace.Slot

	// fnErr is the value returned by the task body. fnErr may only be
	// read after exited is closed.
	fnErr error

	// exited is closed when the task goroutine returns.
	exited chan struct{}
}

// TaskFunc is a task body, executed on the task goroutine. The task is
// live until fn returns.
type TaskFunc func(t *Task) error

// TaskConfig configures a new task; see Kernel.CreateTask.
type TaskConfig struct {
	// Name describes the task's purpose.
	Name string

	// Fn is the task body.
	Fn TaskFunc
}

// run executes the task body on the task goroutine and reaps the task when
// it returns.
func (t *Task) run(fn TaskFunc) {
	defer func() {
		t.k.tasks.taskExited(t)
		close(t.exited)
	}()
	t.fnErr = fn(t)
}

// ThreadID returns t's ThreadID.
func (t *Task) ThreadID() ThreadID {
	return t.id
}

// Name returns t's name.
func (t *Task) Name() string {
	return t.name
}

// Kernel returns the Kernel that owns t.
func (t *Task) Kernel() *Kernel {
	return t.k
}

// LastError returns a snapshot of t's error-provenance record. It is safe
// to call from any goroutine; see errtrace.Slot.Load for the guarantee
// against a concurrently recording t.
func (t *Task) LastError() (errtrace.Point, bool) {
	return t.lastErr.Load()
}

// WaitExited blocks until the task goroutine has returned, and returns the
// task body's return value.
func (t *Task) WaitExited() error {
	<-t.exited
	return t.fnErr
}

// Deadline implements context.Context.Deadline.
func (t *Task) Deadline() (time.Time, bool) {
	return time.Time{}, false
}

// Done implements context.Context.Done. Tasks are not cancellable contexts.
func (t *Task) Done() <-chan struct{} {
	return nil
}

// Err implements context.Context.Err.
func (t *Task) Err() error {
	return nil
}
