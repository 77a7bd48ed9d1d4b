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

package proc

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	billy "github.com/go-git/go-billy/v5"

	"github.com/nviennot/linux-trace-error/pkg/sentry/kernel"
)

// lastErrorName is the name of the per-task record file.
const lastErrorName = "last_error"

// Errors returned by FileSystem for operations the tree cannot support.
var (
	ErrReadOnly     = errors.New("read-only filesystem")
	ErrNotSupported = errors.New("operation not supported")
)

// FileSystem is the read-only billy.Filesystem surfacing the tree
// described in the package comment. File contents are a snapshot taken at
// Open time; a task exiting or recording after Open does not affect an
// already-open file.
type FileSystem struct {
	k *kernel.Kernel
}

// NewFileSystem returns a FileSystem over k's tasks.
func NewFileSystem(k *kernel.Kernel) *FileSystem {
	return &FileSystem{k: k}
}

var _ billy.Filesystem = (*FileSystem)(nil)

// resolve splits a cleaned path into its task and file components.
// Returns (nil, "") for the root directory.
func (fs *FileSystem) resolve(filename string) (t *kernel.Task, base string, err error) {
	p := path.Clean("/" + filename)
	if p == "/" {
		return nil, "", nil
	}
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	tid, perr := strconv.ParseInt(parts[0], 10, 32)
	if perr != nil || tid <= 0 {
		return nil, "", notExist(filename)
	}
	t = fs.k.TaskWithID(kernel.ThreadID(tid))
	if t == nil {
		return nil, "", notExist(filename)
	}
	switch len(parts) {
	case 1:
		return t, "", nil
	case 2:
		if parts[1] != lastErrorName {
			return nil, "", notExist(filename)
		}
		return t, lastErrorName, nil
	default:
		return nil, "", notExist(filename)
	}
}

func notExist(filename string) error {
	return &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
}

// Open implements billy.Basic.Open.
func (fs *FileSystem) Open(filename string) (billy.File, error) {
	return fs.OpenFile(filename, os.O_RDONLY, 0)
}

// OpenFile implements billy.Basic.OpenFile.
func (fs *FileSystem) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, ErrReadOnly
	}
	t, base, err := fs.resolve(filename)
	if err != nil {
		return nil, err
	}
	if base != lastErrorName {
		return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrInvalid}
	}
	var buf bytes.Buffer
	if err := (&lastErrorData{t: t}).Generate(context.Background(), &buf); err != nil {
		return nil, err
	}
	return newFile(filename, buf.Bytes()), nil
}

// Stat implements billy.Basic.Stat.
func (fs *FileSystem) Stat(filename string) (os.FileInfo, error) {
	t, base, err := fs.resolve(filename)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return dirInfo("/"), nil
	}
	if base == "" {
		return dirInfo(t.ThreadID().String()), nil
	}
	var buf bytes.Buffer
	if err := (&lastErrorData{t: t}).Generate(context.Background(), &buf); err != nil {
		return nil, err
	}
	return fileInfo(lastErrorName, int64(buf.Len())), nil
}

// Lstat implements billy.Symlink.Lstat. The tree has no symlinks, so it is
// identical to Stat.
func (fs *FileSystem) Lstat(filename string) (os.FileInfo, error) {
	return fs.Stat(filename)
}

// ReadDir implements billy.Dir.ReadDir.
func (fs *FileSystem) ReadDir(dirname string) ([]os.FileInfo, error) {
	t, base, err := fs.resolve(dirname)
	if err != nil {
		return nil, err
	}
	if t == nil {
		tasks := fs.k.Tasks()
		infos := make([]os.FileInfo, 0, len(tasks))
		for _, t := range tasks {
			infos = append(infos, dirInfo(t.ThreadID().String()))
		}
		return infos, nil
	}
	if base != "" {
		return nil, &os.PathError{Op: "readdir", Path: dirname, Err: os.ErrInvalid}
	}
	var buf bytes.Buffer
	if err := (&lastErrorData{t: t}).Generate(context.Background(), &buf); err != nil {
		return nil, err
	}
	return []os.FileInfo{fileInfo(lastErrorName, int64(buf.Len()))}, nil
}

// Join implements billy.Basic.Join.
func (fs *FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

// Root implements billy.Chroot.Root.
func (fs *FileSystem) Root() string {
	return "/"
}

// Readlink implements billy.Symlink.Readlink.
func (fs *FileSystem) Readlink(link string) (string, error) {
	return "", &os.PathError{Op: "readlink", Path: link, Err: os.ErrInvalid}
}

// Chroot implements billy.Chroot.Chroot.
func (fs *FileSystem) Chroot(path string) (billy.Filesystem, error) {
	return nil, ErrNotSupported
}

// TempFile implements billy.TempFile.TempFile.
func (fs *FileSystem) TempFile(dir, prefix string) (billy.File, error) {
	return nil, ErrReadOnly
}

// Create implements billy.Basic.Create.
func (fs *FileSystem) Create(filename string) (billy.File, error) {
	return nil, ErrReadOnly
}

// Rename implements billy.Basic.Rename.
func (fs *FileSystem) Rename(oldpath, newpath string) error {
	return ErrReadOnly
}

// Remove implements billy.Basic.Remove.
func (fs *FileSystem) Remove(filename string) error {
	return ErrReadOnly
}

// MkdirAll implements billy.Dir.MkdirAll.
func (fs *FileSystem) MkdirAll(filename string, perm os.FileMode) error {
	return ErrReadOnly
}

// Symlink implements billy.Symlink.Symlink.
func (fs *FileSystem) Symlink(target, link string) error {
	return ErrReadOnly
}

// file is an open, immutable snapshot of a virtual file.
type file struct {
	name string
	r    *bytes.Reader
}

func newFile(name string, data []byte) *file {
	return &file{name: name, r: bytes.NewReader(data)}
}

var _ billy.File = (*file)(nil)

// Name implements billy.File.Name.
func (f *file) Name() string { return f.name }

// Read implements io.Reader.Read.
func (f *file) Read(p []byte) (int, error) { return f.r.Read(p) }

// ReadAt implements io.ReaderAt.ReadAt.
func (f *file) ReadAt(p []byte, off int64) (int, error) { return f.r.ReadAt(p, off) }

// Seek implements io.Seeker.Seek.
func (f *file) Seek(offset int64, whence int) (int64, error) { return f.r.Seek(offset, whence) }

// Close implements io.Closer.Close.
func (f *file) Close() error { return nil }

// Write implements io.Writer.Write.
func (f *file) Write(p []byte) (int, error) { return 0, ErrReadOnly }

// Truncate implements billy.File.Truncate.
func (f *file) Truncate(size int64) error { return ErrReadOnly }

// Lock implements billy.File.Lock.
func (f *file) Lock() error { return nil }

// Unlock implements billy.File.Unlock.
func (f *file) Unlock() error { return nil }

// info implements os.FileInfo for virtual files and directories.
type info struct {
	name string
	size int64
	dir  bool
}

func dirInfo(name string) os.FileInfo            { return &info{name: name, dir: true} }
func fileInfo(name string, size int64) os.FileInfo { return &info{name: name, size: size} }

// Name implements os.FileInfo.Name.
func (i *info) Name() string { return i.name }

// Size implements os.FileInfo.Size.
func (i *info) Size() int64 { return i.size }

// Mode implements os.FileInfo.Mode.
func (i *info) Mode() os.FileMode {
	if i.dir {
		return os.ModeDir | 0555
	}
	return 0444
}

// ModTime implements os.FileInfo.ModTime.
func (i *info) ModTime() time.Time { return time.Time{} }

// IsDir implements os.FileInfo.IsDir.
func (i *info) IsDir() bool { return i.dir }

// Sys implements os.FileInfo.Sys.
func (i *info) Sys() any { return nil }
