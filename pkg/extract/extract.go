package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType marks file extensions the extractor cannot handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// Legacy .xls is out: the spreadsheet reader only understands OOXML.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".csv":  true,
	".xlsx": true,
	".json": true,
}

// SupportedExtension reports whether files with the given extension can be
// ingested. The check is case-insensitive.
func SupportedExtension(ext string) bool {
	return supportedExtensions[strings.ToLower(ext)]
}

// File extracts plain text from the file at path, dispatching on the
// extension.
func File(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return Text(path)
	case ".pdf":
		return PDF(path)
	case ".csv":
		return CSV(path)
	case ".xlsx":
		return XLSX(path)
	case ".json":
		return JSON(path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(path))
	}
}

// Text reads a plain-text file as-is.
func Text(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(raw), nil
}

// WithProvenance prepends the origin header so every chunk cut from the
// document can name its source file even after splitting.
func WithProvenance(path, text string) string {
	return fmt.Sprintf("Source: %s\nFile Type: %s\nPath: %s\n\n%s",
		filepath.Base(path), filepath.Ext(path), path, text)
}

// formatRecord renders one data row as "Record N: col: val | col: val",
// skipping empty cells. Rows wider than the header get positional column
// names.
func formatRecord(n int, headers, values []string) string {
	pairs := make([]string, 0, len(values))
	for i, val := range values {
		val = strings.TrimSpace(val)
		if val == "" {
			continue
		}
		name := fmt.Sprintf("col%d", i+1)
		if i < len(headers) && strings.TrimSpace(headers[i]) != "" {
			name = strings.TrimSpace(headers[i])
		}
		pairs = append(pairs, fmt.Sprintf("%s: %s", name, val))
	}
	return fmt.Sprintf("Record %d: %s", n, strings.Join(pairs, " | "))
}
