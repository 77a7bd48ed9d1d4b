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

//go:build !errtrace_disabled

package errtrace

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/nviennot/linux-trace-error/pkg/abi/linux/errno"
	"github.com/nviennot/linux-trace-error/pkg/errors"
	"github.com/nviennot/linux-trace-error/pkg/sync"
)

// Enabled is true if the facility is compiled in.
const Enabled = true

// Slot is a task's single-slot error record. It is embedded by value in the
// task structure; its memory lifetime is exactly the task's lifetime. The
// zero value means "never recorded".
//
// Slot is written only by the owning task's goroutine, so writers need no
// mutual exclusion. Cross-task readers use Load, which synchronizes with
// writers through seq. There is no history: every record overwrites the
// previous one, including records made higher up the same call stack.
type Slot struct {
	// seq makes the (pc, errno) pair observable as a unit. Writes to both
	// fields happen inside a writer critical section; the fields are
	// additionally atomic so that a racing reader never observes a torn
	// field.
	seq sync.SeqCount

	// pc is the call-site program counter of the most recent record, as
	// captured by runtime.Callers. It stands in for a (file, line) pair;
	// both are recovered from it at read time. 0 means never recorded.
	pc atomic.Uintptr

	// errno is the errno of the most recent record.
	errno atomic.Int32
}

// record overwrites the slot. It never blocks or allocates and cannot
// fail.
//
// Preconditions: The caller must be running on the owning task's goroutine.
func (s *Slot) record(pc uintptr, e errno.Errno) {
	s.seq.BeginWrite()
	s.pc.Store(pc)
	s.errno.Store(int32(e))
	s.seq.EndWrite()
}

// Load returns a resolved snapshot of the slot. It is safe to call from any
// goroutine, concurrently with the owning task recording; in that case it
// returns either the prior or the new record. ok is false if the slot has
// never been recorded to.
func (s *Slot) Load() (p Point, ok bool) {
	var pc uintptr
	var e int32
	for {
		epoch := s.seq.BeginRead()
		pc = s.pc.Load()
		e = s.errno.Load()
		if s.seq.ReadOk(epoch) {
			break
		}
	}
	if pc == 0 {
		return Point{}, false
	}
	// The PC was captured by runtime.Callers; CallersFrames performs the
	// call-vs-return-address adjustment.
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	return Point{
		File:  frame.File,
		Line:  frame.Line,
		Errno: errno.Errno(e),
	}, true
}

// Code records the caller's source location together with e into the record
// slot of the task identified by ctx, and returns e unchanged. With no task
// identity in ctx, it returns e and records nothing.
func Code(ctx context.Context, e errno.Errno) errno.Errno {
	if s := SlotFromContext(ctx); s != nil {
		s.record(callerPC(), e)
	}
	return e
}

// Error is like Code, for the canonical *errors.Error values that error
// paths actually propagate. It returns err unchanged, so an instrumented
// expression is byte-for-byte equivalent to the bare one. A nil err records
// nothing.
func Error(ctx context.Context, err *errors.Error) *errors.Error {
	if err == nil {
		return nil
	}
	if s := SlotFromContext(ctx); s != nil {
		s.record(callerPC(), err.Errno())
	}
	return err
}

// callerPC returns the PC of the caller of Code or Error.
//
//go:noinline
func callerPC() uintptr {
	var pcs [1]uintptr
	// Skip runtime.Callers, callerPC, and Code/Error.
	if runtime.Callers(3, pcs[:]) == 0 {
		return 0
	}
	return pcs[0]
}
