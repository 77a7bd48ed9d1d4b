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

//go:build errtrace_disabled

package errtrace

import (
	"context"

	"github.com/nviennot/linux-trace-error/pkg/abi/linux/errno"
	"github.com/nviennot/linux-trace-error/pkg/errors"
)

// Enabled is true if the facility is compiled in.
const Enabled = false

// Slot is a task's single-slot error record. In errtrace_disabled builds it
// occupies no space and is never written.
type Slot struct{}

// Load returns ok false; disabled builds have no records.
func (s *Slot) Load() (p Point, ok bool) {
	return Point{}, false
}

// Code returns e unchanged and records nothing.
func Code(ctx context.Context, e errno.Errno) errno.Errno {
	return e
}

// Error returns err unchanged and records nothing.
func Error(ctx context.Context, err *errors.Error) *errors.Error {
	return err
}
