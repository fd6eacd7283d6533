package csv

import (
	"bytes"
	"encoding/csv"
)

// Record is a row that can be written as CSV cells.
type Record interface {
	Fields() []string
}

// Create renders a header line followed by one line per record.
func Create[T Record](header []string, records []T) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range records {
		if err := w.Write(r.Fields()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
