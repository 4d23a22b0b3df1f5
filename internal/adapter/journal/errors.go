package journal

import (
	"errors"
	"strconv"
	"strings"
	"syscall"

	"github.com/V4T54L/journalview/internal/domain"
)

// RuntimeDirectory holds the volatile journal files.
const RuntimeDirectory = "/run/log/journal"

// knownErrnos are recognized by name in error text that carries no number.
var knownErrnos = []syscall.Errno{
	syscall.ENOENT,
	syscall.EADDRNOTAVAIL,
	syscall.E2BIG,
	syscall.ENOBUFS,
	syscall.EPROTONOSUPPORT,
	syscall.EBADMSG,
	syscall.EINVAL,
	syscall.EIO,
	syscall.ENOMEM,
	syscall.EACCES,
	syscall.EPERM,
}

// errnoOf recovers the native error number from err. The sdjournal bindings
// format the number into the message instead of wrapping it, e.g.
// "failed to read message: 2".
func errnoOf(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno, true
	}

	msg := err.Error()
	if i := strings.LastIndexByte(msg, ' '); i >= 0 {
		if n, convErr := strconv.Atoi(strings.TrimPrefix(msg[i+1:], "-")); convErr == nil && n > 0 {
			return syscall.Errno(n), true
		}
	}
	for _, e := range knownErrnos {
		if strings.HasSuffix(msg, e.Error()) {
			return e, true
		}
	}
	return 0, false
}

// storeError maps an sdjournal error to a domain.StoreError.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errno, ok := errnoOf(err); ok {
		return &domain.StoreError{Op: op, Code: -int(errno), Err: errno}
	}
	return domain.NewStoreError(op, err)
}

var _ domain.StoreOpener = Open
