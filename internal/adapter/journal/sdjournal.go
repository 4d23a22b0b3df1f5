//go:build linux && cgo

package journal

import (
	"unicode/utf8"

	"github.com/coreos/go-systemd/v22/sdjournal"

	"github.com/V4T54L/journalview/internal/domain"
)

// Store is a domain.JournalStore backed by libsystemd.
type Store struct {
	j      *sdjournal.Journal
	cursor fieldCursor
}

// source adapts the bindings to entrySource.
type source struct {
	j *sdjournal.Journal
}

func (s source) entryFields() (map[string]string, error) {
	entry, err := s.j.GetEntry()
	if err != nil {
		return nil, err
	}
	return entry.Fields, nil
}

func (s source) dataValue(field string) (string, error) {
	return s.j.GetDataValue(field)
}

// Open opens the journal selected by opts. It satisfies domain.StoreOpener.
//
// The bindings always open the default journal as local-only with every
// scope, so System and CurrentUser cannot narrow it further. RuntimeOnly
// and Directory switch to reading a single directory.
func Open(opts domain.OpenOptions) (domain.JournalStore, error) {
	var (
		j   *sdjournal.Journal
		err error
	)
	switch {
	case opts.Directory != "":
		j, err = sdjournal.NewJournalFromDir(opts.Directory)
	case opts.RuntimeOnly:
		j, err = sdjournal.NewJournalFromDir(RuntimeDirectory)
	default:
		j, err = sdjournal.NewJournal()
	}
	if err != nil {
		return nil, storeError("open", err)
	}
	return &Store{j: j}, nil
}

func (s *Store) Close() error {
	return storeError("close", s.j.Close())
}

func (s *Store) AddMatch(match string) error {
	return storeError("add_match", s.j.AddMatch(match))
}

func (s *Store) FlushMatches() {
	s.j.FlushMatches()
}

func (s *Store) moved(op string, n uint64, err error) (bool, error) {
	s.resetEntry()
	if err != nil {
		return false, storeError(op, err)
	}
	return n > 0, nil
}

func (s *Store) Next() (bool, error) {
	n, err := s.j.Next()
	return s.moved("next", n, err)
}

func (s *Store) Previous() (bool, error) {
	n, err := s.j.Previous()
	return s.moved("previous", n, err)
}

func (s *Store) NextSkip(skip uint64) (bool, error) {
	n, err := s.j.NextSkip(skip)
	return s.moved("next_skip", n, err)
}

func (s *Store) PreviousSkip(skip uint64) (bool, error) {
	n, err := s.j.PreviousSkip(skip)
	return s.moved("previous_skip", n, err)
}

func (s *Store) SeekHead() error {
	s.resetEntry()
	return storeError("seek_head", s.j.SeekHead())
}

func (s *Store) SeekTail() error {
	s.resetEntry()
	return storeError("seek_tail", s.j.SeekTail())
}

func (s *Store) SeekRealtime(usec uint64) error {
	s.resetEntry()
	return storeError("seek_realtime_usec", s.j.SeekRealtimeUsec(usec))
}

func (s *Store) RealtimeUsec() (uint64, error) {
	usec, err := s.j.GetRealtimeUsec()
	if err != nil {
		return 0, storeError("get_realtime_usec", err)
	}
	return usec, nil
}

func (s *Store) Field(name string) (string, error) {
	v, err := s.j.GetDataValue(name)
	if err != nil {
		return "", storeError("get_data", err)
	}
	if !utf8.ValidString(v) {
		return "", domain.InvalidTextError("get_data", name)
	}
	return v, nil
}

func (s *Store) EnumerateField() (string, string, error) {
	return s.cursor.nextField(source{j: s.j})
}

func (s *Store) RestartFields() {
	s.cursor.restart()
}

func (s *Store) resetEntry() {
	s.cursor.reset()
}
