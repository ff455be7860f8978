package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// CSV columns of a file search export.
const (
	colBoxID    = 0
	colName     = 1
	colCreated  = 3
	colFolder   = 6
	colStatus   = 8
	statusNoHit = "not_found"
)

// ImportStats counts what ImportCSV changed.
type ImportStats struct {
	Parsed  int
	Added   int
	Updated int
}

// ParseCSV reads a file search export. Rows without an id, rows whose file
// was not found and rows marked not_found are skipped.
func ParseCSV(r io.Reader, today time.Time) ([]Detail, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	organized := today.Format("2006/01/02")
	var out []Detail
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if field(fields, colName) == NotFoundName || field(fields, colStatus) == statusNoHit || field(fields, colBoxID) == "" {
			continue
		}
		d := Detail{
			No:          Text(strconv.Itoa(len(out) + 1)),
			BoxID:       Text(field(fields, colBoxID)),
			Completion:  "3",
			OrganizedOn: Text(organized),
			FolderID:    Text(field(fields, colFolder)),
			FileName:    Text(field(fields, colName)),
		}
		if created := field(fields, colCreated); created != "" {
			date, _, _ := strings.Cut(created, "T")
			d.CreatedDate = Text(strings.ReplaceAll(date, "-", "/"))
		}
		out = append(out, d)
	}
	return out, nil
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// Merge folds incoming rows into existing. Known ids are replaced only while
// their name is still NotFoundName and keep their No; new ids are appended
// with the next free No.
func Merge(existing, incoming []Detail) ([]Detail, ImportStats) {
	out := make([]Detail, len(existing))
	copy(out, existing)

	byID := make(map[string]int, len(existing))
	maxNo := 0
	for i, d := range existing {
		byID[normKey(d.BoxID.String())] = i
		if n := d.No.Int(); n > maxNo {
			maxNo = n
		}
	}

	stats := ImportStats{Parsed: len(incoming)}
	for _, d := range incoming {
		id := normKey(d.BoxID.String())
		if i, ok := byID[id]; ok {
			if existing[i].FileName == NotFoundName {
				d.No = existing[i].No
				out[i] = d
				stats.Updated++
			}
			continue
		}
		stats.Added++
		d.No = Text(strconv.Itoa(maxNo + stats.Added))
		byID[id] = len(out)
		out = append(out, d)
	}
	return out, stats
}

// ImportCSV parses r and merges it into existing.
func ImportCSV(existing []Detail, r io.Reader, today time.Time) ([]Detail, ImportStats, error) {
	incoming, err := ParseCSV(r, today)
	if err != nil {
		return nil, ImportStats{}, err
	}
	merged, stats := Merge(existing, incoming)
	return merged, stats, nil
}
