package player

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// WriteCSV writes players under the given header, one row per player.
func WriteCSV(w io.Writer, players []Player, columns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, p := range players {
		rec := Record(p)
		for i, col := range columns {
			row[i] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write player %s: %w", p.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a header-driven record set. Unknown columns are kept and ignored by Ingest.
func ReadCSV(r io.Reader) ([]RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []RawRecord
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		rec := RawRecord{Row: line, Fields: make(map[string]string, len(header))}
		for i, col := range header {
			if i < len(fields) {
				rec.Fields[col] = fields[i]
			}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
