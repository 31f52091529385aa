// Package telemetry appends structured per-attempt records to a JSONL file.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one issue-match attempt. Negative and cached attempts are
// recorded too; the log is append-only and one line per attempt.
type Record struct {
	Timestamp   int64   `json:"timestamp"`
	RunID       string  `json:"run_id"`
	Image       string  `json:"image_name"`
	Model       string  `json:"model"`
	IssueNumber int     `json:"issue_number,omitempty"`
	IssueTitle  string  `json:"issue_title,omitempty"`
	Confidence  float64 `json:"confidence"`
	Success     bool    `json:"success"`
	Cached      bool    `json:"cached"`
	LatencyMS   float64 `json:"latency_ms"`
}

// Logger writes Records to an append-only file. Safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	path  string
	runID string
}

// NewLogger creates a Logger writing to path. Each Logger carries a fresh
// run id stamped on every record it writes.
func NewLogger(path string) *Logger {
	return &Logger{
		path:  path,
		runID: uuid.New().String(),
	}
}

// RunID returns the run id stamped on records from this Logger.
func (l *Logger) RunID() string {
	return l.runID
}

// Log appends one record. A nil Logger is a no-op.
func (l *Logger) Log(rec Record) error {
	if l == nil || l.path == "" {
		return nil
	}

	rec.RunID = l.runID
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().Unix()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling telemetry record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening telemetry file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing telemetry record: %w", err)
	}
	return nil
}
