package logq

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/V4T54L/journalview/internal/domain"
	"github.com/V4T54L/journalview/internal/domain/mocks"
	"github.com/V4T54L/journalview/internal/usecase"
)

var (
	now  = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	base = uint64(now.Add(-2 * time.Hour).UnixMicro())
)

func newDeps(journal *mocks.Journal) Deps {
	return Deps{
		Open: journal.Opener(),
		Units: &mocks.MockUnitLister{Units: []domain.Unit{
			{UnitFile: "nginx.service", State: "enabled"},
			{UnitFile: "sshd.service", State: "disabled"},
		}},
		Boots: &mocks.MockBootLister{Boots: []domain.Boot{
			{Index: 0, BootID: "b1", FirstEntry: int64(base), LastEntry: int64(base) + 1000},
		}},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return now },
	}
}

func sampleJournal() *mocks.Journal {
	crash := mocks.LogEntry(base+2_000_000, 2, "nginx.service", "worker crashed")
	crash.Fields[domain.FieldCmdline] = "nginx --secret abc"
	return mocks.NewJournal(
		mocks.LogEntry(base, 3, "nginx.service", "upstream timed out"),
		mocks.LogEntry(base+1_000_000, 6, "sshd.service", "session opened"),
		crash,
	)
}

func execute(t *testing.T, deps Deps, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(deps)
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestQuery_Table(t *testing.T) {
	out, err := execute(t, newDeps(sampleJournal()), "query", "--fields", "MESSAGE,PRIORITY", "--priority", "3")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "MESSAGE") || !strings.Contains(lines[0], "PRIORITY") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "worker crashed") || !strings.HasPrefix(lines[2], "upstream timed out") {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestQuery_JSONWithRedaction(t *testing.T) {
	out, err := execute(t, newDeps(sampleJournal()),
		"query", "--json", "--fields", "MESSAGE,_CMDLINE", "--limit", "1", "--redact", "_CMDLINE")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var rs domain.ResultSet
	if err := json.Unmarshal([]byte(out), &rs); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(rs.Rows) != 1 || rs.Rows[0][0] != "worker crashed" || rs.Rows[0][1] != "[REDACTED]" {
		t.Errorf("rows = %v", rs.Rows)
	}
}

func TestQuery_InitUnitAndSearch(t *testing.T) {
	journal := sampleJournal()
	_, err := execute(t, newDeps(journal), "query", "--services", usecase.InitUnit+",sshd", "-q", "SESSION")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	matches := strings.Join(journal.ActiveMatches(), " ")
	if !strings.Contains(matches, "_PID=1") || !strings.Contains(matches, "_SYSTEMD_UNIT=sshd.service") {
		t.Errorf("matches = %s", matches)
	}
	if strings.Contains(matches, usecase.InitUnit) {
		t.Errorf("init unit leaked into the unit filter: %s", matches)
	}
}

func TestQuery_Errors(t *testing.T) {
	t.Run("Unknown Transport", func(t *testing.T) {
		_, err := execute(t, newDeps(sampleJournal()), "query", "--transports", "fax")
		if !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("err = %v, want ErrInvalidQuery", err)
		}
	})

	t.Run("Open Failure", func(t *testing.T) {
		journal := sampleJournal()
		journal.OpenErr = domain.ErrStoreUnavailable
		_, err := execute(t, newDeps(journal), "query")
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			t.Errorf("err = %v, want ErrStoreUnavailable", err)
		}
	})

	t.Run("Unexpected Argument", func(t *testing.T) {
		if _, err := execute(t, newDeps(sampleJournal()), "query", "extra"); err == nil {
			t.Error("expected an error for a positional argument")
		}
	})
}

func TestEntry(t *testing.T) {
	t.Run("Prints Fields", func(t *testing.T) {
		out, err := execute(t, newDeps(sampleJournal()), "entry", strconv.FormatUint(base+1_000_000, 10))
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		if !strings.Contains(out, "MESSAGE=session opened\n") || !strings.Contains(out, "_SYSTEMD_UNIT=sshd.service\n") {
			t.Errorf("output:\n%s", out)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		_, err := execute(t, newDeps(sampleJournal()), "entry", strconv.FormatUint(base+1, 10))
		if !errors.Is(err, domain.ErrEntryNotFound) {
			t.Errorf("err = %v, want ErrEntryNotFound", err)
		}
	})

	t.Run("Bad Timestamp", func(t *testing.T) {
		if _, err := execute(t, newDeps(sampleJournal()), "entry", "noon"); err == nil {
			t.Error("expected an error for a non-numeric timestamp")
		}
	})
}

func TestSummary(t *testing.T) {
	out, err := execute(t, newDeps(sampleJournal()), "summary", "--priority", "3", "--interval", "1h")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one bucket, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], now.Add(-2*time.Hour).Format(time.RFC3339)) || !strings.HasSuffix(lines[1], "2") {
		t.Errorf("bucket line = %q", lines[1])
	}
}

func TestServicesAndBoots(t *testing.T) {
	deps := newDeps(sampleJournal())

	out, err := execute(t, deps, "services")
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[1], usecase.InitUnit) {
		t.Errorf("services output:\n%s", out)
	}

	out, err = execute(t, deps, "boots")
	if err != nil {
		t.Fatalf("boots: %v", err)
	}
	if !strings.Contains(out, "b1") {
		t.Errorf("boots output:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	t.Run("Stdout", func(t *testing.T) {
		out, err := execute(t, newDeps(sampleJournal()), "export", "--fields", "MESSAGE")
		if err != nil {
			t.Fatalf("execute: %v", err)
		}
		var messages []string
		scanner := bufio.NewScanner(strings.NewReader(out))
		for scanner.Scan() {
			var obj map[string]string
			if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
				t.Fatalf("decode line %q: %v", scanner.Text(), err)
			}
			messages = append(messages, obj["MESSAGE"])
		}
		want := []string{"worker crashed", "upstream timed out"}
		if strings.Join(messages, "|") != strings.Join(want, "|") {
			t.Errorf("messages = %v, want %v", messages, want)
		}
	})

	t.Run("Compressed File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.ndjson.zst")
		if _, err := execute(t, newDeps(sampleJournal()), "export", "--fields", "MESSAGE", "--zstd", "-o", path); err != nil {
			t.Fatalf("execute: %v", err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open export: %v", err)
		}
		defer f.Close()
		dec, err := zstd.NewReader(f)
		if err != nil {
			t.Fatalf("zstd reader: %v", err)
		}
		defer dec.Close()
		data, err := io.ReadAll(dec)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if got := strings.Count(string(data), "\n"); got != 2 {
			t.Errorf("lines = %d, want 2:\n%s", got, data)
		}
	})
}
