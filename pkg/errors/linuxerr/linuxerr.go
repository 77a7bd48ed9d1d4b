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

// Package linuxerr contains the canonical syscall error values, exported as
// *errors.Error so that returns and comparisons are single pointer
// operations. These are the "error constants" the errtracegen tool
// recognizes and wraps at call sites.
//
// Values are comparable against unix.Errno via the Errno method:
// unix.Errno(linuxerr.EPERM.Errno()) == unix.EPERM.
package linuxerr

import (
	"fmt"

	"github.com/nviennot/linux-trace-error/pkg/abi/linux/errno"
	"github.com/nviennot/linux-trace-error/pkg/errors"
	"golang.org/x/sys/unix"
)

// The errno space is dense and small, so lookup is a flat table.
const maxErrno = uint32(errno.MaxErrno) + 1

var (
	EPERM           = errors.New(errno.EPERM, "operation not permitted")
	ENOENT          = errors.New(errno.ENOENT, "no such file or directory")
	ESRCH           = errors.New(errno.ESRCH, "no such process")
	EINTR           = errors.New(errno.EINTR, "interrupted system call")
	EIO             = errors.New(errno.EIO, "I/O error")
	ENXIO           = errors.New(errno.ENXIO, "no such device or address")
	E2BIG           = errors.New(errno.E2BIG, "argument list too long")
	ENOEXEC         = errors.New(errno.ENOEXEC, "exec format error")
	EBADF           = errors.New(errno.EBADF, "bad file number")
	ECHILD          = errors.New(errno.ECHILD, "no child processes")
	EAGAIN          = errors.New(errno.EAGAIN, "try again")
	ENOMEM          = errors.New(errno.ENOMEM, "out of memory")
	EACCES          = errors.New(errno.EACCES, "permission denied")
	EFAULT          = errors.New(errno.EFAULT, "bad address")
	ENOTBLK         = errors.New(errno.ENOTBLK, "block device required")
	EBUSY           = errors.New(errno.EBUSY, "device or resource busy")
	EEXIST          = errors.New(errno.EEXIST, "file exists")
	EXDEV           = errors.New(errno.EXDEV, "cross-device link")
	ENODEV          = errors.New(errno.ENODEV, "no such device")
	ENOTDIR         = errors.New(errno.ENOTDIR, "not a directory")
	EISDIR          = errors.New(errno.EISDIR, "is a directory")
	EINVAL          = errors.New(errno.EINVAL, "invalid argument")
	ENFILE          = errors.New(errno.ENFILE, "file table overflow")
	EMFILE          = errors.New(errno.EMFILE, "too many open files")
	ENOTTY          = errors.New(errno.ENOTTY, "not a typewriter")
	ETXTBSY         = errors.New(errno.ETXTBSY, "text file busy")
	EFBIG           = errors.New(errno.EFBIG, "file too large")
	ENOSPC          = errors.New(errno.ENOSPC, "no space left on device")
	ESPIPE          = errors.New(errno.ESPIPE, "illegal seek")
	EROFS           = errors.New(errno.EROFS, "read-only file system")
	EMLINK          = errors.New(errno.EMLINK, "too many links")
	EPIPE           = errors.New(errno.EPIPE, "broken pipe")
	EDOM            = errors.New(errno.EDOM, "math argument out of domain of func")
	ERANGE          = errors.New(errno.ERANGE, "math result not representable")
	EDEADLK         = errors.New(errno.EDEADLK, "resource deadlock would occur")
	ENAMETOOLONG    = errors.New(errno.ENAMETOOLONG, "file name too long")
	ENOLCK          = errors.New(errno.ENOLCK, "no record locks available")
	ENOSYS          = errors.New(errno.ENOSYS, "invalid system call number")
	ENOTEMPTY       = errors.New(errno.ENOTEMPTY, "directory not empty")
	ELOOP           = errors.New(errno.ELOOP, "too many symbolic links encountered")
	ENOMSG          = errors.New(errno.ENOMSG, "no message of desired type")
	EIDRM           = errors.New(errno.EIDRM, "identifier removed")
	ETIME           = errors.New(errno.ETIME, "timer expired")
	EPROTO          = errors.New(errno.EPROTO, "protocol error")
	EBADMSG         = errors.New(errno.EBADMSG, "not a data message")
	EOVERFLOW       = errors.New(errno.EOVERFLOW, "value too large for defined data type")
	EILSEQ          = errors.New(errno.EILSEQ, "illegal byte sequence")
	ERESTART        = errors.New(errno.ERESTART, "interrupted system call should be restarted")
	EUSERS          = errors.New(errno.EUSERS, "too many users")
	ENOTSOCK        = errors.New(errno.ENOTSOCK, "socket operation on non-socket")
	EDESTADDRREQ    = errors.New(errno.EDESTADDRREQ, "destination address required")
	EMSGSIZE        = errors.New(errno.EMSGSIZE, "message too long")
	EPROTOTYPE      = errors.New(errno.EPROTOTYPE, "protocol wrong type for socket")
	ENOPROTOOPT     = errors.New(errno.ENOPROTOOPT, "protocol not available")
	EPROTONOSUPPORT = errors.New(errno.EPROTONOSUPPORT, "protocol not supported")
	ESOCKTNOSUPPORT = errors.New(errno.ESOCKTNOSUPPORT, "socket type not supported")
	EOPNOTSUPP      = errors.New(errno.EOPNOTSUPP, "operation not supported on transport endpoint")
	EPFNOSUPPORT    = errors.New(errno.EPFNOSUPPORT, "protocol family not supported")
	EAFNOSUPPORT    = errors.New(errno.EAFNOSUPPORT, "address family not supported by protocol")
	EADDRINUSE      = errors.New(errno.EADDRINUSE, "address already in use")
	EADDRNOTAVAIL   = errors.New(errno.EADDRNOTAVAIL, "cannot assign requested address")
	ENETDOWN        = errors.New(errno.ENETDOWN, "network is down")
	ENETUNREACH     = errors.New(errno.ENETUNREACH, "network is unreachable")
	ENETRESET       = errors.New(errno.ENETRESET, "network dropped connection because of reset")
	ECONNABORTED    = errors.New(errno.ECONNABORTED, "software caused connection abort")
	ECONNRESET      = errors.New(errno.ECONNRESET, "connection reset by peer")
	ENOBUFS         = errors.New(errno.ENOBUFS, "no buffer space available")
	EISCONN         = errors.New(errno.EISCONN, "transport endpoint is already connected")
	ENOTCONN        = errors.New(errno.ENOTCONN, "transport endpoint is not connected")
	ESHUTDOWN       = errors.New(errno.ESHUTDOWN, "cannot send after transport endpoint shutdown")
	ETIMEDOUT       = errors.New(errno.ETIMEDOUT, "connection timed out")
	ECONNREFUSED    = errors.New(errno.ECONNREFUSED, "connection refused")
	EHOSTDOWN       = errors.New(errno.EHOSTDOWN, "host is down")
	EHOSTUNREACH    = errors.New(errno.EHOSTUNREACH, "no route to host")
	EALREADY        = errors.New(errno.EALREADY, "operation already in progress")
	EINPROGRESS     = errors.New(errno.EINPROGRESS, "operation now in progress")
	ESTALE          = errors.New(errno.ESTALE, "stale file handle")
	EDQUOT          = errors.New(errno.EDQUOT, "quota exceeded")
	ENOMEDIUM       = errors.New(errno.ENOMEDIUM, "no medium found")
	EMEDIUMTYPE     = errors.New(errno.EMEDIUMTYPE, "wrong medium type")
	ECANCELED       = errors.New(errno.ECANCELED, "operation canceled")
	ENOKEY          = errors.New(errno.ENOKEY, "required key not available")
	EKEYEXPIRED     = errors.New(errno.EKEYEXPIRED, "key has expired")
	EKEYREVOKED     = errors.New(errno.EKEYREVOKED, "key has been revoked")
	EKEYREJECTED    = errors.New(errno.EKEYREJECTED, "key was rejected by service")
	EOWNERDEAD      = errors.New(errno.EOWNERDEAD, "owner died")
	ENOTRECOVERABLE = errors.New(errno.ENOTRECOVERABLE, "state not recoverable")
	ERFKILL         = errors.New(errno.ERFKILL, "operation not possible due to RF-kill")
	EHWPOISON       = errors.New(errno.EHWPOISON, "memory page has hardware error")

	// Aliases.
	EWOULDBLOCK = EAGAIN
	EDEADLOCK   = EDEADLK
)

// errnoToError is the flat lookup table, populated from the values above.
var errnoToError [maxErrno]*errors.Error

func init() {
	for _, err := range []*errors.Error{
		EPERM, ENOENT, ESRCH, EINTR, EIO, ENXIO, E2BIG, ENOEXEC, EBADF,
		ECHILD, EAGAIN, ENOMEM, EACCES, EFAULT, ENOTBLK, EBUSY, EEXIST,
		EXDEV, ENODEV, ENOTDIR, EISDIR, EINVAL, ENFILE, EMFILE, ENOTTY,
		ETXTBSY, EFBIG, ENOSPC, ESPIPE, EROFS, EMLINK, EPIPE, EDOM, ERANGE,
		EDEADLK, ENAMETOOLONG, ENOLCK, ENOSYS, ENOTEMPTY, ELOOP, ENOMSG,
		EIDRM, ETIME, EPROTO, EBADMSG, EOVERFLOW, EILSEQ, ERESTART, EUSERS,
		ENOTSOCK, EDESTADDRREQ, EMSGSIZE, EPROTOTYPE, ENOPROTOOPT,
		EPROTONOSUPPORT, ESOCKTNOSUPPORT, EOPNOTSUPP, EPFNOSUPPORT,
		EAFNOSUPPORT, EADDRINUSE, EADDRNOTAVAIL, ENETDOWN, ENETUNREACH,
		ENETRESET, ECONNABORTED, ECONNRESET, ENOBUFS, EISCONN, ENOTCONN,
		ESHUTDOWN, ETIMEDOUT, ECONNREFUSED, EHOSTDOWN, EHOSTUNREACH,
		EALREADY, EINPROGRESS, ESTALE, EDQUOT, ENOMEDIUM, EMEDIUMTYPE,
		ECANCELED, ENOKEY, EKEYEXPIRED, EKEYREVOKED, EKEYREJECTED,
		EOWNERDEAD, ENOTRECOVERABLE, ERFKILL, EHWPOISON,
	} {
		if errnoToError[err.Errno()] != nil {
			panic(fmt.Sprintf("duplicate errno %d", err.Errno()))
		}
		errnoToError[err.Errno()] = err
	}
}

// ErrorFromErrno returns the canonical *errors.Error for the given errno, or
// nil for the zero errno or an errno with no canonical value.
func ErrorFromErrno(e errno.Errno) *errors.Error {
	if uint32(e) < maxErrno {
		return errnoToError[e]
	}
	return nil
}

// ErrorFromUnix returns the canonical *errors.Error corresponding to a
// unix.Errno.
func ErrorFromUnix(err unix.Errno) *errors.Error {
	return ErrorFromErrno(errno.Errno(err))
}

// Equals compares a *errors.Error against an arbitrary error, treating the
// canonical value and the corresponding unix.Errno as equal.
func Equals(e *errors.Error, err error) bool {
	if err == nil {
		return e == nil
	}
	if e == nil {
		return false
	}
	switch err := err.(type) {
	case *errors.Error:
		return e == err
	case unix.Errno:
		return unix.Errno(e.Errno()) == err
	}
	return false
}
