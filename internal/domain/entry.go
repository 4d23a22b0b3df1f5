package domain

// ResultSet is the tabular result of a journal query.
type ResultSet struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// NewResultSet returns an empty result projecting headers, with room for capacity rows.
func NewResultSet(headers []string, capacity int) *ResultSet {
	h := make([]string, len(headers))
	copy(h, headers)
	return &ResultSet{
		Headers: h,
		Rows:    make([][]string, 0, capacity),
	}
}

// FullRecord holds every field stored on one journal entry.
// Headers[i] names the field whose value is Values[i].
type FullRecord struct {
	Headers []string `json:"headers"`
	Values  []string `json:"values"`
}

// Get returns the value of the named field.
func (r *FullRecord) Get(field string) (string, bool) {
	for i, h := range r.Headers {
		if h == field {
			return r.Values[i], true
		}
	}
	return "", false
}

// Unit is an installed systemd unit file.
type Unit struct {
	UnitFile string  `json:"unit_file"`
	State    string  `json:"state"`
	Preset   *string `json:"preset"`
}

// Boot is one system startup session recorded in the journal.
type Boot struct {
	Index      int    `json:"index"`
	BootID     string `json:"boot_id"`
	FirstEntry int64  `json:"first_entry"`
	LastEntry  int64  `json:"last_entry"`
}

// HistogramPoint counts entries received in the bucket starting at Time (microseconds).
type HistogramPoint struct {
	Time  int64 `json:"time"`
	Count int   `json:"count"`
}
