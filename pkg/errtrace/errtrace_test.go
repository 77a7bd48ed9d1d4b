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

package errtrace_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nviennot/linux-trace-error/pkg/abi/linux/errno"
	"github.com/nviennot/linux-trace-error/pkg/errors/linuxerr"
	"github.com/nviennot/linux-trace-error/pkg/errtrace"
	"github.com/nviennot/linux-trace-error/pkg/sync"
)

// slotContext carries a record slot the way kernel.Task does, without
// pulling the task runtime into this package's tests.
type slotContext struct {
	context.Context
	slot *errtrace.Slot
}

func newSlotContext() *slotContext {
	return &slotContext{Context: context.Background(), slot: new(errtrace.Slot)}
}

func (c *slotContext) Value(key any) any {
	if key == errtrace.CtxSlot {
		return c.slot
	}
	return c.Context.Value(key)
}

func TestErrorTransparency(t *testing.T) {
	ctx := newSlotContext()
	if got := errtrace.Error(ctx, linuxerr.EINVAL); got != linuxerr.EINVAL {
		t.Errorf("Error returned %v, wanted the identical *errors.Error", got)
	}
	if got := errtrace.Error(ctx, nil); got != nil {
		t.Errorf("Error(nil) returned %v, wanted nil", got)
	}
}

func TestCodeTransparency(t *testing.T) {
	ctx := newSlotContext()
	for _, e := range []errno.Errno{errno.EPERM, errno.ENOENT, errno.EHWPOISON} {
		if got := errtrace.Code(ctx, e); got != e {
			t.Errorf("Code(%v) returned %v", e, got)
		}
	}
}

func TestNoContextIsNoop(t *testing.T) {
	// Neither a nil context nor a context with no task identity may fault
	// or record.
	if got := errtrace.Error(nil, linuxerr.EIO); got != linuxerr.EIO {
		t.Errorf("Error with nil ctx returned %v", got)
	}
	if got := errtrace.Code(context.Background(), errno.EBADF); got != errno.EBADF {
		t.Errorf("Code with plain ctx returned %v", got)
	}
}

func TestLoadBeforeFirstRecord(t *testing.T) {
	var s errtrace.Slot
	if p, ok := s.Load(); ok {
		t.Errorf("Load of zero Slot: got %+v, ok true; wanted ok false", p)
	}
}

func TestRecordLocation(t *testing.T) {
	ctx := newSlotContext()
	errtrace.Error(ctx, linuxerr.ENOENT)
	_, file, line, _ := runtime.Caller(0) // Must stay adjacent to the Error call above.

	p, ok := ctx.slot.Load()
	if !ok {
		t.Fatal("Load: got ok false after a record")
	}
	want := errtrace.Point{File: file, Line: line - 1, Errno: errno.ENOENT}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Load returned unexpected point (-want +got):\n%s", diff)
	}
}

func TestLastWriteWins(t *testing.T) {
	ctx := newSlotContext()
	errtrace.Error(ctx, linuxerr.EACCES)
	errtrace.Code(ctx, errno.ETIMEDOUT)
	errtrace.Error(ctx, linuxerr.ECONNREFUSED)
	_, _, line, _ := runtime.Caller(0) // Must stay adjacent to the Error call above.

	p, ok := ctx.slot.Load()
	if !ok {
		t.Fatal("Load: got ok false after records")
	}
	if p.Errno != errno.ECONNREFUSED || p.Line != line-1 {
		t.Errorf("Load: got %+v, wanted the last record (ECONNREFUSED at line %d)", p, line-1)
	}
}

// TestEnclosingOverwrite covers the "callee records, enclosing function
// records a more specific error" case: the later, outer record wins.
func TestEnclosingOverwrite(t *testing.T) {
	ctx := newSlotContext()
	callee := func() error {
		return errtrace.Error(ctx, linuxerr.EIO)
	}
	if err := callee(); err != nil {
		errtrace.Error(ctx, linuxerr.ENODEV)
	}
	p, ok := ctx.slot.Load()
	if !ok || p.Errno != errno.ENODEV {
		t.Errorf("Load: got %+v ok=%t, wanted ENODEV", p, ok)
	}
}

func TestTaskIsolation(t *testing.T) {
	ctxA := newSlotContext()
	ctxB := newSlotContext()
	errtrace.Error(ctxA, linuxerr.EPERM)
	if p, ok := ctxB.slot.Load(); ok {
		t.Errorf("record through ctxA leaked into ctxB's slot: %+v", p)
	}
	errtrace.Error(ctxB, linuxerr.ENOSPC)
	if p, _ := ctxA.slot.Load(); p.Errno != errno.EPERM {
		t.Errorf("ctxA's record changed to %+v after ctxB recorded", p)
	}
}

// TestConcurrentReadDuringWrite checks that a cross-task reader racing the
// recording task always observes one of the records actually written,
// never a mix of two.
func TestConcurrentReadDuringWrite(t *testing.T) {
	ctx := newSlotContext()

	recordA := func() { errtrace.Error(ctx, linuxerr.ENOENT) }
	recordB := func() { errtrace.Error(ctx, linuxerr.EINVAL) }
	recordA()
	a, _ := ctx.slot.Load()
	recordB()
	b, _ := ctx.slot.Load()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				recordA()
				recordB()
			}
		}
	}()

	for i := 0; i < 10000; i++ {
		p, ok := ctx.slot.Load()
		if !ok {
			t.Error("Load: got ok false while records exist")
			break
		}
		if p != a && p != b {
			t.Errorf("Load: got %+v, wanted %+v or %+v", p, a, b)
			break
		}
	}
	close(stop)
	wg.Wait()
}

func BenchmarkRecord(b *testing.B) {
	ctx := newSlotContext()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		errtrace.Error(ctx, linuxerr.EINVAL)
	}
}

func BenchmarkRecordNoContext(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		errtrace.Error(ctx, linuxerr.EINVAL)
	}
}
