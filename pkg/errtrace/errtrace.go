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

// Package errtrace records, per task, the call site of the most recent
// error-producing event: every instrumented call site that produces an
// errno also stores its own source location into the current task's
// single-slot record, and diagnostic consumers (procfs, strace) read that
// record cross-task.
//
// Recording is a transparent pass-through: Code and Error return their
// argument unchanged, so instrumented code propagates exactly the values it
// would have propagated without the facility. Recording never blocks or
// allocates and cannot fail; with no current task it is a no-op.
//
// Building with the "errtrace_disabled" tag compiles the whole facility to
// pure pass-throughs and shrinks Slot to an empty struct.
package errtrace

import (
	"context"

	"github.com/nviennot/linux-trace-error/pkg/abi/linux/errno"
)

// contextID is this package's type for context.Context.Value keys.
type contextID int

// CtxSlot is a Context.Value key for the current task's *Slot. It is
// answered by kernel.Task.Value; anything that is not a task context
// leaves it unset, which turns recording into a no-op.
const CtxSlot contextID = iota

// Point is a resolved snapshot of a task's record: the source location and
// errno of the most recent recorded error.
//
// File and Line are derived from a single program counter, so they are
// always mutually consistent. Errno is published separately; a reader
// racing a recording task may pair it with the location of an adjacent
// record. The record is advisory and consumers must treat it as such.
type Point struct {
	File  string
	Line  int
	Errno errno.Errno
}

// SlotFromContext returns the record slot of the task that ctx identifies,
// or nil if ctx carries no task identity.
func SlotFromContext(ctx context.Context) *Slot {
	if ctx == nil {
		return nil
	}
	if v := ctx.Value(CtxSlot); v != nil {
		return v.(*Slot)
	}
	return nil
}
