package matcher

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // sqlite driver
)

// Cache persists issue-match results across runs in SQLite. Results are
// keyed by (image name, model): switching models invalidates reuse for an
// image. Negative results are cached too, so a known no-match costs no
// model call on the next run.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS issue_match_cache (
			image_name   TEXT NOT NULL,
			model        TEXT NOT NULL,
			issue_number INTEGER,
			issue_title  TEXT,
			issue_url    TEXT,
			confidence   REAL,
			reasoning    TEXT,
			timestamp    INTEGER,
			PRIMARY KEY (image_name, model)
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached result for (image, model). Issues from the
// current list are preferred when reconstructing the matched issue; a
// cached issue no longer in the list comes back with the stored fields
// only. A read failure is a miss, never an error.
func (c *Cache) Get(image, model string, issues []Issue) (MatchResult, bool) {
	row := c.db.QueryRow(`
		SELECT issue_number, issue_title, issue_url, confidence, reasoning
		FROM issue_match_cache
		WHERE image_name = ? AND model = ?
	`, image, model)

	var (
		number     sql.NullInt64
		title, url sql.NullString
		confidence sql.NullFloat64
		reasoning  sql.NullString
	)
	if err := row.Scan(&number, &title, &url, &confidence, &reasoning); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logrus.WithError(err).Debug("issue match cache read failed")
		}
		return MatchResult{}, false
	}

	var matched *Issue
	if number.Valid && number.Int64 != 0 {
		for i := range issues {
			if issues[i].Number == int(number.Int64) {
				matched = &issues[i]
				break
			}
		}
		if matched == nil {
			matched = &Issue{
				Number: int(number.Int64),
				Title:  title.String,
				URL:    url.String,
				State:  "open",
			}
		}
	}

	return MatchResult{
		Image:      image,
		Issue:      matched,
		Confidence: confidence.Float64,
		Reasoning:  reasoning.String,
		Cached:     true,
	}, true
}

// Put stores a result for (image, model), replacing any previous entry.
func (c *Cache) Put(image, model string, result MatchResult) error {
	var (
		number sql.NullInt64
		title  sql.NullString
		url    sql.NullString
	)
	if result.Issue != nil {
		number = sql.NullInt64{Int64: int64(result.Issue.Number), Valid: true}
		title = sql.NullString{String: result.Issue.Title, Valid: true}
		url = sql.NullString{String: result.Issue.URL, Valid: true}
	}

	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO issue_match_cache
		(image_name, model, issue_number, issue_title, issue_url, confidence, reasoning, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, image, model, number, title, url, result.Confidence, result.Reasoning, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("writing issue match cache: %w", err)
	}
	return nil
}

// Prune deletes cached entries older than ttl and returns how many were
// removed.
func (c *Cache) Prune(ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl).Unix()
	res, err := c.db.Exec(`DELETE FROM issue_match_cache WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning issue match cache: %w", err)
	}
	return res.RowsAffected()
}
