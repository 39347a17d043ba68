package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSV renders a CSV dataset as retrieval-friendly text: a dataset header
// followed by one self-describing line per record, so each chunk cut from the
// output still carries its column names.
func CSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Scraped government CSVs are ragged and not always well-quoted.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	headers := rows[0]
	records := rows[1:]

	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %s\n", filepath.Base(path))
	fmt.Fprintf(&b, "Columns: %s\n", strings.Join(headers, ", "))
	fmt.Fprintf(&b, "Total Records: %d\n", len(records))
	b.WriteString("\nData Summary:\n")
	for i, rec := range records {
		b.WriteString(formatRecord(i+1, headers, rec))
		b.WriteByte('\n')
	}
	return b.String(), nil
}
