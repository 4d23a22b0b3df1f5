package mocks

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/V4T54L/journalview/internal/domain"
)

// Entry is one journal entry held by Journal.
type Entry struct {
	Realtime uint64
	Fields   map[string]string
}

// LogEntry builds an entry with the fields most tests care about. The source
// timestamp equals the receipt time and the transport is "journal".
func LogEntry(realtime uint64, priority int, unit, message string) Entry {
	return Entry{
		Realtime: realtime,
		Fields: map[string]string{
			domain.FieldMessage:                 message,
			domain.FieldPriority:                strconv.Itoa(priority),
			domain.FieldSystemdUnit:             unit,
			domain.FieldTransport:               domain.TransportJournal,
			domain.FieldSourceRealtimeTimestamp: strconv.FormatUint(realtime, 10),
			domain.FieldPID:                     "1234",
			domain.FieldBootID:                  "b0",
		},
	}
}

// Journal is an in-memory domain.JournalStore. Matches on the same field
// are OR-ed and matches on different fields are AND-ed. Cursor movement
// follows sd-journal: a seek leaves no current entry until the next move.
type Journal struct {
	mu sync.Mutex

	entries []Entry
	matches []string

	// Recorded calls.
	History []string
	Flushes int
	Closes  int
	Opens   int

	// Injected failures.
	OpenErr       error
	MatchErrs     map[string]error
	FieldErrs     map[string]error
	EnumerateErrs map[string]error
	SeekErr       error
	PreviousErr   error
	RealtimeErr   error

	current   int
	prevBound int
	nextBound int

	enumNames []string
	enumIdx   int
}

// NewJournal returns a journal holding entries ordered by receipt time, positioned at the head.
func NewJournal(entries ...Entry) *Journal {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Realtime < sorted[j].Realtime })
	return &Journal{
		entries:   sorted,
		current:   -1,
		prevBound: -1,
		nextBound: 0,
	}
}

// Opener returns a domain.StoreOpener that hands out this journal.
func (j *Journal) Opener() domain.StoreOpener {
	return func(domain.OpenOptions) (domain.JournalStore, error) {
		j.mu.Lock()
		defer j.mu.Unlock()
		if j.OpenErr != nil {
			return nil, j.OpenErr
		}
		j.Opens++
		return j, nil
	}
}

// ActiveMatches returns the matches applied since the last flush.
func (j *Journal) ActiveMatches() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.matches))
	copy(out, j.matches)
	return out
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Closes++
	return nil
}

func (j *Journal) AddMatch(match string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err, ok := j.MatchErrs[match]; ok {
		return err
	}
	if idx := strings.IndexByte(match, '='); idx <= 0 {
		return domain.FromReturnCode("add_match", -int(syscall.EINVAL))
	}
	j.matches = append(j.matches, match)
	j.History = append(j.History, match)
	return nil
}

func (j *Journal) FlushMatches() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.matches = nil
	j.Flushes++
}

func (j *Journal) matchesEntry(e Entry) bool {
	groups := make(map[string][]string)
	for _, m := range j.matches {
		field, value, _ := strings.Cut(m, "=")
		groups[field] = append(groups[field], value)
	}
	for field, values := range groups {
		got, ok := e.Fields[field]
		if !ok {
			return false
		}
		found := false
		for _, v := range values {
			if v == got {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (j *Journal) land(i int) {
	j.current = i
	j.prevBound = i - 1
	j.nextBound = i + 1
	j.enumNames = nil
	j.enumIdx = 0
}

func (j *Journal) unset() {
	j.current = -1
	j.enumNames = nil
	j.enumIdx = 0
}

func (j *Journal) previous() bool {
	for i := min(j.prevBound, len(j.entries)-1); i >= 0; i-- {
		if j.matchesEntry(j.entries[i]) {
			j.land(i)
			return true
		}
	}
	return false
}

func (j *Journal) next() bool {
	for i := max(j.nextBound, 0); i < len(j.entries); i++ {
		if j.matchesEntry(j.entries[i]) {
			j.land(i)
			return true
		}
	}
	return false
}

func (j *Journal) Previous() (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.PreviousErr != nil {
		return false, j.PreviousErr
	}
	return j.previous(), nil
}

func (j *Journal) Next() (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.next(), nil
}

func (j *Journal) PreviousSkip(skip uint64) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.PreviousErr != nil {
		return false, j.PreviousErr
	}
	moved := false
	for n := uint64(0); n < skip; n++ {
		if !j.previous() {
			break
		}
		moved = true
	}
	return moved, nil
}

func (j *Journal) NextSkip(skip uint64) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	moved := false
	for n := uint64(0); n < skip; n++ {
		if !j.next() {
			break
		}
		moved = true
	}
	return moved, nil
}

func (j *Journal) SeekHead() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.SeekErr != nil {
		return j.SeekErr
	}
	j.prevBound = -1
	j.nextBound = 0
	j.unset()
	return nil
}

func (j *Journal) SeekTail() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.SeekErr != nil {
		return j.SeekErr
	}
	j.prevBound = len(j.entries) - 1
	j.nextBound = len(j.entries)
	j.unset()
	return nil
}

func (j *Journal) SeekRealtime(usec uint64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.SeekErr != nil {
		return j.SeekErr
	}
	j.nextBound = sort.Search(len(j.entries), func(i int) bool { return j.entries[i].Realtime >= usec })
	j.prevBound = sort.Search(len(j.entries), func(i int) bool { return j.entries[i].Realtime > usec }) - 1
	j.unset()
	return nil
}

func (j *Journal) currentEntry(op string) (Entry, error) {
	if j.current < 0 || j.current >= len(j.entries) {
		return Entry{}, domain.FromReturnCode(op, -int(syscall.EADDRNOTAVAIL))
	}
	return j.entries[j.current], nil
}

func (j *Journal) RealtimeUsec() (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.RealtimeErr != nil {
		return 0, j.RealtimeErr
	}
	e, err := j.currentEntry("get_realtime_usec")
	if err != nil {
		return 0, err
	}
	return e.Realtime, nil
}

func (j *Journal) Field(name string) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err, ok := j.FieldErrs[name]; ok {
		return "", err
	}
	e, err := j.currentEntry("get_data")
	if err != nil {
		return "", err
	}
	v, ok := e.Fields[name]
	if !ok {
		return "", domain.FromReturnCode("get_data", -int(syscall.ENOENT))
	}
	return v, nil
}

func (j *Journal) EnumerateField() (string, string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, err := j.currentEntry("enumerate_data")
	if err != nil {
		return "", "", err
	}
	if j.enumNames == nil {
		j.enumNames = make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			j.enumNames = append(j.enumNames, name)
		}
		sort.Strings(j.enumNames)
	}
	if j.enumIdx >= len(j.enumNames) {
		return "", "", domain.ErrEndOfData
	}
	name := j.enumNames[j.enumIdx]
	j.enumIdx++
	if err, ok := j.EnumerateErrs[name]; ok {
		return "", "", err
	}
	return name, e.Fields[name], nil
}

func (j *Journal) RestartFields() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.enumIdx = 0
}
