package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/V4T54L/journalview/internal/domain"
)

// Writer emits result rows as newline-delimited JSON objects keyed by header.
type Writer struct {
	buf  *bufio.Writer
	enc  *zstd.Encoder
	json *json.Encoder
	rows int
}

// NewWriter returns a Writer on w. With compress set the stream is zstd-compressed.
func NewWriter(w io.Writer, compress bool) (*Writer, error) {
	out := &Writer{}
	if compress {
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		out.enc = enc
		w = enc
	}
	out.buf = bufio.NewWriter(w)
	out.json = json.NewEncoder(out.buf)
	return out, nil
}

// WriteResultSet writes one object per row of rs.
func (w *Writer) WriteResultSet(rs *domain.ResultSet) error {
	for _, row := range rs.Rows {
		obj := make(map[string]string, len(rs.Headers))
		for i, h := range rs.Headers {
			if i < len(row) {
				obj[h] = row[i]
			}
		}
		if err := w.json.Encode(obj); err != nil {
			return fmt.Errorf("write row %d: %w", w.rows, err)
		}
		w.rows++
	}
	return nil
}

// WriteRecord writes rec as a single object.
func (w *Writer) WriteRecord(rec *domain.FullRecord) error {
	obj := make(map[string]string, len(rec.Headers))
	for i, h := range rec.Headers {
		obj[h] = rec.Values[i]
	}
	if err := w.json.Encode(obj); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.rows++
	return nil
}

// Rows returns the number of objects written.
func (w *Writer) Rows() int {
	return w.rows
}

// Close flushes buffered output and ends the compressed stream. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.enc != nil {
		return w.enc.Close()
	}
	return nil
}
