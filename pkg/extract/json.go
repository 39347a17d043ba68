package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSON validates and pretty-prints a JSON document so nested values end up on
// their own lines for chunking.
func JSON(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read json: %w", err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("parse json: %w", err)
	}

	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("format json: %w", err)
	}

	return fmt.Sprintf("JSON Document: %s\n%s", filepath.Base(path), pretty), nil
}
