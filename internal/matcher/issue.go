// Package matcher matches unmatched container image names to existing
// image-request issues using a language model.
package matcher

import (
	"encoding/json"
	"fmt"
	"os"
)

// Issue is a tracking issue that may request a container image.
type Issue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	URL       string `json:"url"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
}

// LoadIssues reads a JSON array of issues from a file. The file is the
// narrow interface to whatever issue tracker feeds the pipeline.
func LoadIssues(path string) ([]Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading issues file: %w", err)
	}
	var issues []Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, fmt.Errorf("parsing issues file: %w", err)
	}
	return issues, nil
}
