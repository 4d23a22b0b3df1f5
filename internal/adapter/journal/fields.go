package journal

import (
	"sort"
	"syscall"
	"unicode/utf8"

	"github.com/V4T54L/journalview/internal/domain"
)

// fallbackFields are read one at a time when an entry cannot be read as a
// whole because one of its fields is oversized or uses an unsupported
// compression.
var fallbackFields = append(domain.DefaultFields(),
	domain.FieldMessageID,
	domain.FieldGID,
	domain.FieldExe,
	domain.FieldCmdline,
	domain.FieldUnit,
	"SYSLOG_IDENTIFIER",
	"SYSLOG_FACILITY",
	"SYSLOG_PID",
	"CODE_FILE",
	"CODE_LINE",
	"CODE_FUNC",
	"_HOSTNAME",
	"_MACHINE_ID",
	"_CAP_EFFECTIVE",
	"_SYSTEMD_INVOCATION_ID",
	"_SYSTEMD_OWNER_UID",
	"_SYSTEMD_USER_UNIT",
	"_SYSTEMD_USER_SLICE",
	"_SYSTEMD_SESSION",
	"_AUDIT_SESSION",
	"_AUDIT_LOGINUID",
	"_STREAM_ID",
	"_SELINUX_CONTEXT",
	"_KERNEL_DEVICE",
	"_KERNEL_SUBSYSTEM",
	"_UDEV_SYSNAME",
	"_UDEV_DEVNODE",
)

// entrySource reads the current entry of an open journal.
type entrySource interface {
	// entryFields returns every field of the entry. It fails as a whole
	// when any one field cannot be read.
	entryFields() (map[string]string, error)
	dataValue(field string) (string, error)
}

// fieldCursor enumerates the fields of the current entry in name order.
type fieldCursor struct {
	fields map[string]string
	names  []string
	next   int
	loaded bool
}

func (c *fieldCursor) reset() {
	*c = fieldCursor{}
}

func (c *fieldCursor) restart() {
	c.next = 0
}

func (c *fieldCursor) load(src entrySource) error {
	c.loaded = true
	fields, err := src.entryFields()
	if err != nil {
		serr := storeError("enumerate_data", err)
		if !domain.IsSkippableField(serr) {
			return serr
		}
		if fields, err = readEach(src); err != nil {
			return err
		}
	}

	c.fields = fields
	c.names = make([]string, 0, len(fields))
	for name := range fields {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return nil
}

// readEach collects the fallback fields present on the entry. Missing,
// oversized and unsupported fields are left out.
func readEach(src entrySource) (map[string]string, error) {
	fields := make(map[string]string, len(fallbackFields))
	for _, name := range fallbackFields {
		if _, seen := fields[name]; seen {
			continue
		}
		v, err := src.dataValue(name)
		if err != nil {
			serr := storeError("get_data", err)
			if errno, ok := errnoOf(err); ok && errno == syscall.ENOENT {
				continue
			}
			if domain.IsSkippableField(serr) {
				continue
			}
			return nil, serr
		}
		fields[name] = v
	}
	return fields, nil
}

// nextField returns the next field, or domain.ErrEndOfData once all have
// been returned. A failure to load the entry ends its enumeration.
func (c *fieldCursor) nextField(src entrySource) (string, string, error) {
	if !c.loaded {
		if err := c.load(src); err != nil {
			return "", "", err
		}
	}
	if c.next >= len(c.names) {
		return "", "", domain.ErrEndOfData
	}
	name := c.names[c.next]
	c.next++
	value := c.fields[name]
	if !utf8.ValidString(value) {
		return "", "", domain.InvalidTextError("enumerate_data", name)
	}
	return name, value, nil
}
