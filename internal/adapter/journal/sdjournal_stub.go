//go:build !linux || !cgo

package journal

import (
	"fmt"
	"runtime"

	"github.com/V4T54L/journalview/internal/domain"
)

// Open reports domain.ErrStoreUnavailable: reading the journal needs libsystemd through cgo.
func Open(opts domain.OpenOptions) (domain.JournalStore, error) {
	return nil, fmt.Errorf("%w: %s/%s build has no libsystemd support", domain.ErrStoreUnavailable, runtime.GOOS, runtime.GOARCH)
}
