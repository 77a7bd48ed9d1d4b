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

// Package strace implements the syscall-trace consumer of the per-task
// error record: each syscall exit line carries, after the return value, the
// source location that produced the error being returned.
package strace

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nviennot/linux-trace-error/pkg/errors"
	"github.com/nviennot/linux-trace-error/pkg/sentry/kernel"
)

// LogTracer implements kernel.Stracer, emitting one line per syscall exit
// through a logrus logger.
type LogTracer struct {
	log *logrus.Logger
}

// New returns a LogTracer emitting to log.
func New(log *logrus.Logger) *LogTracer {
	return &LogTracer{log: log}
}

var _ kernel.Stracer = (*LogTracer)(nil)

// SyscallEnter implements kernel.Stracer.SyscallEnter.
func (s *LogTracer) SyscallEnter(t *kernel.Task, name string) any {
	return time.Now()
}

// SyscallExit implements kernel.Stracer.SyscallExit.
func (s *LogTracer) SyscallExit(private any, t *kernel.Task, name string, rval uintptr, err error) {
	elapsed := time.Since(private.(time.Time))
	s.log.WithFields(logrus.Fields{
		"tid":  t.ThreadID(),
		"task": t.Name(),
	}).Info(ExitLine(t, name, nil, rval, err, elapsed))
}

// ExitLine formats a syscall exit line for t. If the syscall failed and t
// has an error record, the record is appended after the return value, e.g.:
//
//	openat(dirfd, path) = -1 errno=2 (no such file or directory) (12.3µs) last_err:[ENOENT at pkg/sentry/fs/open.go:42]
//
// The record is read cross-task and is advisory: it describes the most
// recent error recorded by t, which for a traced syscall exit is the site
// that produced err.
func ExitLine(t *kernel.Task, name string, args []string, rval uintptr, err error, elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s)", name, strings.Join(args, ", "))
	if err == nil {
		fmt.Fprintf(&b, " = %#x (%v)", rval, elapsed)
		return b.String()
	}
	if e, ok := err.(*errors.Error); ok {
		fmt.Fprintf(&b, " = -1 errno=%d (%s) (%v)", uint32(e.Errno()), e, elapsed)
	} else {
		fmt.Fprintf(&b, " = -1 (%v) (%v)", err, elapsed)
	}
	if p, ok := t.LastError(); ok {
		fmt.Fprintf(&b, " last_err:[%v at %s:%d]", p.Errno, p.File, p.Line)
	}
	return b.String()
}
