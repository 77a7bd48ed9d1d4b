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
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

const wrappable = `package p

import (
	"` + linuxerrPkg + `"
	kernel "` + kernelPkg + `"
)

func f(t *kernel.Task) error {
	return linuxerr.ENOENT
}
`

const plain = `package p

func g() int { return 0 }
`

func TestTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod":         "module example.com/m\n\ngo 1.24\n",
		"a.go":           wrappable,
		"b.go":           plain,
		"a_test.go":      wrappable,
		"vendor/v.go":    wrappable,
		"testdata/d.go":  wrappable,
		"_skipped/s.go":  wrappable,
		"sub/nested.go":  wrappable,
		".hidden/h.go":   wrappable,
	})

	r, err := New(Default())
	if err != nil {
		t.Fatal(err)
	}
	stats, err := r.Tree(context.Background(), quietLogger(), root, true)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if got, want := stats.Files.Load(), int64(3); got != want {
		t.Errorf("scanned %d files, want %d", got, want)
	}
	if got, want := stats.Changed.Load(), int64(2); got != want {
		t.Errorf("changed %d files, want %d", got, want)
	}
	if got, want := stats.Sites.Load(), int64(2); got != want {
		t.Errorf("wrapped %d sites, want %d", got, want)
	}

	data, err := os.ReadFile(filepath.Join(root, "a.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "errtrace.Error(t, linuxerr.ENOENT)") {
		t.Errorf("a.go not rewritten:\n%s", data)
	}
	for _, name := range []string{"a_test.go", "vendor/v.go", "testdata/d.go", "_skipped/s.go", ".hidden/h.go"} {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != wrappable {
			t.Errorf("%s was modified", name)
		}
	}

	// A second run finds nothing left to do.
	stats, err = r.Tree(context.Background(), quietLogger(), root, true)
	if err != nil {
		t.Fatalf("second Tree: %v", err)
	}
	if got := stats.Changed.Load(); got != 0 {
		t.Errorf("second run changed %d files, want 0", got)
	}
}

func TestTreeDryRun(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod": "module example.com/m\n\ngo 1.24\n",
		"a.go":   wrappable,
	})

	r, err := New(Default())
	if err != nil {
		t.Fatal(err)
	}
	stats, err := r.Tree(context.Background(), quietLogger(), root, false)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if got := stats.Changed.Load(); got != 1 {
		t.Errorf("changed %d files, want 1", got)
	}
	data, err := os.ReadFile(filepath.Join(root, "a.go"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != wrappable {
		t.Errorf("dry run modified a.go:\n%s", data)
	}
}

func TestTreeNoModule(t *testing.T) {
	root := writeTree(t, map[string]string{"a.go": plain})
	r, err := New(Default())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Tree(context.Background(), quietLogger(), root, false); err == nil {
		t.Error("expected an error outside any module")
	}
}
