// Package inventory loads the set of image references to resolve.
package inventory

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads image references from a file, one per line. Blank lines and
// lines starting with '#' are skipped.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening inventory file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var images []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		images = append(images, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading inventory file: %w", err)
	}
	return images, nil
}
