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

package gen

import (
	"go/format"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	linuxerrPkg = "github.com/nviennot/linux-trace-error/pkg/errors/linuxerr"
	errnoPkg    = "github.com/nviennot/linux-trace-error/pkg/abi/linux/errno"
	kernelPkg   = "github.com/nviennot/linux-trace-error/pkg/sentry/kernel"
)

func rewrite(t *testing.T, src string) (string, int) {
	t.Helper()
	r, err := New(Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, n, err := r.Rewrite("input.go", []byte(src))
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	return string(out), n
}

func mustFormat(t *testing.T, src string) string {
	t.Helper()
	out, err := format.Source([]byte(src))
	if err != nil {
		t.Fatalf("bad want source: %v", err)
	}
	return string(out)
}

func TestWrapPositions(t *testing.T) {
	for _, test := range []struct {
		name  string
		src   string
		want  string
		sites int
	}{
		{
			name: "assignment",
			src: `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) error {
	var err error
	err = linuxerr.ENOENT
	return err
}
`,
			want: `package p

import (
	"` + linuxerrPkg + `"
	"` + "github.com/nviennot/linux-trace-error/pkg/errtrace" + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) error {
	var err error
	err = errtrace.Error(t, linuxerr.ENOENT)
	return err
}
`,
			sites: 1,
		},
		{
			name: "var initializer",
			src: `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) error {
	var err = linuxerr.EIO
	return err
}
`,
			want: `package p

import (
	"` + linuxerrPkg + `"
	"` + "github.com/nviennot/linux-trace-error/pkg/errtrace" + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) error {
	var err = errtrace.Error(t, linuxerr.EIO)
	return err
}
`,
			sites: 1,
		},
		{
			name: "return operands",
			src: `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) (int, error) {
	return 0, linuxerr.EINVAL
}
`,
			want: `package p

import (
	"` + linuxerrPkg + `"
	"` + "github.com/nviennot/linux-trace-error/pkg/errtrace" + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) (int, error) {
	return 0, errtrace.Error(t, linuxerr.EINVAL)
}
`,
			sites: 1,
		},
		{
			name: "errno code with context param",
			src: `package p

import (
	"context"

	"` + errnoPkg + `"
)

func f(ctx context.Context) errno.Errno {
	return errno.ENOENT
}
`,
			want: `package p

import (
	"context"

	"` + errnoPkg + `"
	"` + "github.com/nviennot/linux-trace-error/pkg/errtrace" + `"
)

func f(ctx context.Context) errno.Errno {
	return errtrace.Code(ctx, errno.ENOENT)
}
`,
			sites: 1,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, n := rewrite(t, test.src)
			if n != test.sites {
				t.Errorf("wrapped %d sites, want %d", n, test.sites)
			}
			if diff := cmp.Diff(mustFormat(t, test.want), got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestUntouchedPositions feeds sources where no site is eligible and
// checks that the input comes back byte for byte.
func TestUntouchedPositions(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
	}{
		{
			name: "case labels and conditions",
			src: `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task, err error) int {
	if err == linuxerr.ENOENT {
		return 1
	}
	switch err {
	case linuxerr.EINTR, linuxerr.EAGAIN:
		return 2
	}
	return 0
}
`,
		},
		{
			name: "call arguments and composite literals",
			src: `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func g(err error) {}

func f(t *kernel.Task) {
	g(linuxerr.EIO)
	_ = []error{linuxerr.EPERM}
}
`,
		},
		{
			name: "excluded values",
			src: `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) error {
	return linuxerr.ENOMEM
}
`,
		},
		{
			name: "no context parameter",
			src: `package p

import (
	"` + linuxerrPkg + `"
)

func f() error {
	return linuxerr.ENOENT
}
`,
		},
		{
			name: "blank context parameter",
			src: `package p

import (
	"context"

	"` + linuxerrPkg + `"
)

func f(_ context.Context) error {
	return linuxerr.ENOENT
}
`,
		},
		{
			name: "const initializer",
			src: `package p

import (
	"context"

	"` + errnoPkg + `"
)

func f(ctx context.Context) errno.Errno {
	const e = errno.ENOENT
	return e
}
`,
		},
		{
			name: "package level var",
			src: `package p

import (
	"` + linuxerrPkg + `"
)

var errNotFound = linuxerr.ENOENT
`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, n := rewrite(t, test.src)
			if n != 0 {
				t.Errorf("wrapped %d sites, want 0", n)
			}
			if got != test.src {
				t.Errorf("source changed:\n%s", got)
			}
		})
	}
}

func TestFuncLitInheritsContext(t *testing.T) {
	src := `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) func() error {
	return func() error {
		return linuxerr.EBADF
	}
}
`
	want := `package p

import (
	"` + linuxerrPkg + `"
	"github.com/nviennot/linux-trace-error/pkg/errtrace"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) func() error {
	return func() error {
		return errtrace.Error(t, linuxerr.EBADF)
	}
}
`
	got, n := rewrite(t, src)
	if n != 1 {
		t.Errorf("wrapped %d sites, want 1", n)
	}
	if diff := cmp.Diff(mustFormat(t, want), got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestFuncLitOwnContextShadows(t *testing.T) {
	src := `package p

import (
	"context"

	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) func(context.Context) error {
	return func(ctx context.Context) error {
		return linuxerr.EBADF
	}
}
`
	got, n := rewrite(t, src)
	if n != 1 {
		t.Fatalf("wrapped %d sites, want 1", n)
	}
	want := "errtrace.Error(ctx, linuxerr.EBADF)"
	if !contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

func TestMethodReceiverContext(t *testing.T) {
	src := `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

type ops struct{}

func (o *ops) open(t *kernel.Task) error {
	return linuxerr.EACCES
}
`
	got, n := rewrite(t, src)
	if n != 1 {
		t.Fatalf("wrapped %d sites, want 1", n)
	}
	if !contains(got, "errtrace.Error(t, linuxerr.EACCES)") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestAliasedImports(t *testing.T) {
	src := `package p

import (
	lerr "` + linuxerrPkg + `"
	trace "` + "github.com/nviennot/linux-trace-error/pkg/errtrace" + `"
	kernel "` + kernelPkg + `"
)

var _ = trace.Enabled

func f(t *kernel.Task) error {
	return lerr.ENOENT
}
`
	got, n := rewrite(t, src)
	if n != 1 {
		t.Fatalf("wrapped %d sites, want 1", n)
	}
	// The existing alias must be reused, not re-imported.
	if !contains(got, "trace.Error(t, lerr.ENOENT)") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

// TestIdempotent runs the rewrite on its own output and expects no
// further changes.
func TestIdempotent(t *testing.T) {
	src := `package p

import (
	"context"

	"` + linuxerrPkg + `"
	"` + errnoPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) error {
	err := linuxerr.ENOENT
	return err
}

func g(ctx context.Context) (errno.Errno, error) {
	return errno.EINTR, linuxerr.EINTR
}
`
	once, n := rewrite(t, src)
	if n != 3 {
		t.Fatalf("first pass wrapped %d sites, want 3", n)
	}
	twice, n := rewrite(t, once)
	if n != 0 {
		t.Errorf("second pass wrapped %d sites, want 0", n)
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed output (-once +twice):\n%s", diff)
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
