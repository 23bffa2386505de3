package htmloutput

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteHTMLString writes a pre-generated HTML string to a file, creating its directory.
func WriteHTMLString(path string, html string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}
