package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

const utf8BOM = "\uFEFF"

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// WriteCSV writes a BOM-prefixed export: the header line, then one line per
// row. Newlines inside cells become spaces so every row is one line.
func WriteCSV(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(bw)
	header := make([]string, len(Columns))
	for i, c := range Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(Columns))
	for _, row := range rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = newlines.Replace(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return bw.Flush()
}

// FileName returns the download name of a month export made on now's date.
func FileName(year, month int, now time.Time) string {
	return fmt.Sprintf("zisseki_data_%d_%d_%s.csv", year, month, now.Format("2006-01-02"))
}
