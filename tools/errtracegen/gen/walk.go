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
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"golang.org/x/mod/modfile"
	"golang.org/x/sync/errgroup"
)

// Stats summarizes a tree rewrite.
type Stats struct {
	// Files is the number of Go files scanned.
	Files atomic.Int64

	// Changed is the number of files that were (or would be) modified.
	Changed atomic.Int64

	// Sites is the total number of wrapped call sites.
	Sites atomic.Int64
}

// lockName is the advisory lock taken next to go.mod while writing, so two
// concurrent runs do not interleave their writes.
const lockName = ".errtracegen.lock"

// Tree applies the rewrite to every Go file under root. When write is
// false files are only analyzed and Stats reports what would change.
// Files are processed in parallel; test files, vendored code and hidden
// or underscore-prefixed directories are skipped, as is the wrapper
// package itself.
func (r *Rewriter) Tree(ctx context.Context, log *logrus.Logger, root string, write bool) (*Stats, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	modRoot, modPath, err := moduleRoot(root)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"module": modPath,
		"root":   root,
	}).Debug("rewriting tree")

	// The wrapper package must not import itself.
	skipDir := ""
	if rel, ok := strings.CutPrefix(r.cfg.WrapperImport, modPath+"/"); ok {
		skipDir = filepath.Join(modRoot, filepath.FromSlash(rel))
	}

	if write {
		lock := flock.New(filepath.Join(modRoot, lockName))
		if err := lock.Lock(); err != nil {
			return nil, fmt.Errorf("locking %s: %w", lock.Path(), err)
		}
		defer lock.Unlock()
	}

	stats := &Stats{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
				name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			if path == skipDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		g.Go(func() error {
			return r.rewriteOne(log, stats, path, write)
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, walkErr
}

func (r *Rewriter) rewriteOne(log *logrus.Logger, stats *Stats, path string, write bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	stats.Files.Add(1)
	out, n, err := r.Rewrite(path, src)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	stats.Changed.Add(1)
	stats.Sites.Add(int64(n))
	log.WithFields(logrus.Fields{
		"file":  path,
		"sites": n,
	}).Info("wrapped")
	if !write {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, fi.Mode().Perm())
}

// moduleRoot walks upward from dir to the enclosing go.mod and returns its
// directory and module path.
func moduleRoot(dir string) (string, string, error) {
	for {
		gomod := filepath.Join(dir, "go.mod")
		if data, err := os.ReadFile(gomod); err == nil {
			mf, err := modfile.ParseLax(gomod, data, nil)
			if err != nil {
				return "", "", err
			}
			if mf.Module == nil {
				return "", "", fmt.Errorf("%s has no module directive", gomod)
			}
			return dir, mf.Module.Mod.Path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("no go.mod found above %s", dir)
		}
		dir = parent
	}
}
