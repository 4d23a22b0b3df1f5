package journal

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/V4T54L/journalview/internal/domain"
)

// fakeSource fails entryFields the way the bindings do: the whole entry is
// lost as soon as one field cannot be read.
type fakeSource struct {
	fields    map[string]string
	fieldErrs map[string]error
	entryErr  error
	reads     int
}

func (f *fakeSource) entryFields() (map[string]string, error) {
	for name, err := range f.fieldErrs {
		if _, ok := f.fields[name]; ok {
			return nil, fmt.Errorf("failed to read message field: %w", err)
		}
	}
	if f.entryErr != nil {
		return nil, f.entryErr
	}
	out := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSource) dataValue(field string) (string, error) {
	f.reads++
	if err, ok := f.fieldErrs[field]; ok {
		return "", fmt.Errorf("failed to read message field: %s", err.Error())
	}
	v, ok := f.fields[field]
	if !ok {
		return "", fmt.Errorf("failed to read message field: %d", syscall.ENOENT)
	}
	return v, nil
}

func drain(t *testing.T, c *fieldCursor, src entrySource) (map[string]string, error) {
	t.Helper()
	got := map[string]string{}
	for {
		name, value, err := c.nextField(src)
		if errors.Is(err, domain.ErrEndOfData) {
			return got, nil
		}
		if err != nil {
			return got, err
		}
		got[name] = value
	}
}

func sampleFields() map[string]string {
	return map[string]string{
		domain.FieldMessage:  "worker crashed",
		domain.FieldPriority: "2",
		domain.FieldComm:     "nginx",
		domain.FieldCmdline:  "nginx -g daemon off;",
	}
}

func TestFieldCursor(t *testing.T) {
	t.Run("Whole Entry", func(t *testing.T) {
		src := &fakeSource{fields: sampleFields()}
		var c fieldCursor
		got, err := drain(t, &c, src)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 4 {
			t.Errorf("fields = %v", got)
		}
		if src.reads != 0 {
			t.Errorf("expected no per-field reads, got %d", src.reads)
		}
	})

	t.Run("Oversized Field Falls Back To Single Reads", func(t *testing.T) {
		for _, errno := range []syscall.Errno{syscall.E2BIG, syscall.ENOBUFS, syscall.EPROTONOSUPPORT} {
			t.Run(errno.Error(), func(t *testing.T) {
				src := &fakeSource{
					fields:    sampleFields(),
					fieldErrs: map[string]error{domain.FieldCmdline: errno},
				}
				var c fieldCursor
				got, err := drain(t, &c, src)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if _, ok := got[domain.FieldCmdline]; ok {
					t.Error("expected the unreadable field to be skipped")
				}
				for _, name := range []string{domain.FieldMessage, domain.FieldPriority, domain.FieldComm} {
					if _, ok := got[name]; !ok {
						t.Errorf("missing %s in %v", name, got)
					}
				}
			})
		}
	})

	t.Run("Fatal Entry Error", func(t *testing.T) {
		src := &fakeSource{fields: sampleFields(), entryErr: fmt.Errorf("failed to read message field: %d", syscall.EIO)}
		var c fieldCursor
		if _, err := drain(t, &c, src); domain.IsSkippableField(err) || err == nil {
			t.Fatalf("expected a non-skippable error, got %v", err)
		}
		if _, _, err := c.nextField(src); !errors.Is(err, domain.ErrEndOfData) {
			t.Errorf("expected end of data after a failed load, got %v", err)
		}
	})

	t.Run("Fatal Single Read", func(t *testing.T) {
		src := &fakeSource{
			fields:    sampleFields(),
			fieldErrs: map[string]error{domain.FieldCmdline: syscall.E2BIG, domain.FieldMessage: syscall.EIO},
		}
		var c fieldCursor
		if _, err := drain(t, &c, src); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("Invalid Text", func(t *testing.T) {
		src := &fakeSource{fields: map[string]string{domain.FieldMessage: "\xff\xfe"}}
		var c fieldCursor
		_, err := drain(t, &c, src)
		var se *domain.StoreError
		if !errors.As(err, &se) || se.Code != domain.CodeInternal {
			t.Errorf("expected an internal StoreError, got %v", err)
		}
	})

	t.Run("Restart And Reset", func(t *testing.T) {
		src := &fakeSource{fields: sampleFields()}
		var c fieldCursor
		first, _, _ := c.nextField(src)
		c.restart()
		again, _, _ := c.nextField(src)
		if first != again {
			t.Errorf("restart returned %q then %q", first, again)
		}
		c.reset()
		if c.loaded || c.names != nil {
			t.Error("reset should drop the loaded entry")
		}
	})
}
