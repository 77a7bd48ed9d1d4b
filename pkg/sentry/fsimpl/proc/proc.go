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

// Package proc exposes per-task state as a virtual, read-only file tree:
//
//	/<tid>/last_error
//
// last_error holds one line describing the most recent error recorded by
// the task, in the form "ENOENT (-2) at pkg/sentry/fs/open.go:42", or
// "none" if the task has never recorded one. Reading another task's file
// never blocks on, and never observes a corrupted record from, that task
// recording concurrently.
package proc

import (
	"bytes"
	"context"
	"fmt"

	"github.com/nviennot/linux-trace-error/pkg/sentry/kernel"
)

// DynamicBytesSource generates the contents of a virtual file at open
// time.
type DynamicBytesSource interface {
	// Generate writes the file's current contents to buf.
	Generate(ctx context.Context, buf *bytes.Buffer) error
}

// lastErrorData implements DynamicBytesSource for /<tid>/last_error.
type lastErrorData struct {
	t *kernel.Task
}

var _ DynamicBytesSource = (*lastErrorData)(nil)

// Generate implements DynamicBytesSource.Generate.
func (d *lastErrorData) Generate(ctx context.Context, buf *bytes.Buffer) error {
	p, ok := d.t.LastError()
	if !ok {
		buf.WriteString("none\n")
		return nil
	}
	fmt.Fprintf(buf, "%v (-%d) at %s:%d\n", p.Errno, uint32(p.Errno), p.File, p.Line)
	return nil
}
