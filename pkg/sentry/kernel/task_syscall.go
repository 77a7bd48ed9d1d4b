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

// Syscall is a syscall body. It returns a value and an error; the error is
// expected to be a *errors.Error (or nil), propagated unchanged from
// whatever failed inside.
type Syscall func(t *Task) (uintptr, error)

// Stracer traces syscall execution.
type Stracer interface {
	// SyscallEnter is called on syscall entry.
	//
	// The returned private data is passed to SyscallExit.
	SyscallEnter(t *Task, name string) any

	// SyscallExit is called on syscall exit.
	SyscallExit(private any, t *Task, name string, rval uintptr, err error)
}

// ExecuteSyscall runs fn as a named syscall, notifying the kernel's
// Stracer (if any) on entry and exit. The return values are fn's,
// unchanged.
//
// Preconditions: The caller must be running on the task goroutine.
func (t *Task) ExecuteSyscall(name string, fn Syscall) (uintptr, error) {
	var private any
	if s := t.k.stracer; s != nil {
		private = s.SyscallEnter(t, name)
	}
	rval, err := fn(t)
	if s := t.k.stracer; s != nil {
		s.SyscallExit(private, t, name, rval, err)
	}
	return rval, err
}
