package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSX renders every sheet of a workbook the same way CSV renders its rows.
func XLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "Spreadsheet: %s\n", filepath.Base(path))

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		headers := rows[0]
		records := rows[1:]

		fmt.Fprintf(&b, "\nSheet: %s\n", sheet)
		fmt.Fprintf(&b, "Columns: %s\n", strings.Join(headers, ", "))
		fmt.Fprintf(&b, "Total Records: %d\n", len(records))
		for i, rec := range records {
			b.WriteString(formatRecord(i+1, headers, rec))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
