package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gaugeproj/gauge/internal/metrics"
	"github.com/gaugeproj/gauge/internal/telemetry"
)

// maxPromptIssues bounds how many issues go into a single prompt.
const maxPromptIssues = 100

// maxBodyPreview bounds the issue body excerpt in the prompt.
const maxBodyPreview = 500

// Completer produces a completion for a prompt. Implementations call a
// language model backend; failures surface as errors and the Matcher
// degrades them to a no-match result.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// MatchResult is the outcome of matching one image against the issue list.
type MatchResult struct {
	// Image is the unmatched image name that was searched.
	Image string

	// Issue is the matched issue, nil when no confident match was found.
	Issue *Issue

	// Confidence scores the match in [0, 1].
	Confidence float64

	// Reasoning is the model's explanation for the verdict.
	Reasoning string

	// Cached is true when the result came from the persistent cache.
	Cached bool

	// LatencyMS is the model call latency. Zero for cached results.
	LatencyMS float64
}

// Matcher matches unmatched image names to tracking issues. A nil Cache
// or Telemetry disables that concern; Match itself never returns an
// error: every failure degrades to a zero-confidence result so a batch
// run keeps moving.
type Matcher struct {
	// Cache is the persistent result cache, consulted before any model
	// call and written after every attempt.
	Cache *Cache

	// Telemetry records one entry per attempt.
	Telemetry *telemetry.Logger

	// Metrics counts attempts and cache hits when set.
	Metrics *metrics.Counters

	completer Completer
	model     string
	threshold float64
}

// NewMatcher creates a Matcher using completer and model, accepting
// matches at or above threshold.
func NewMatcher(completer Completer, model string, threshold float64) *Matcher {
	return &Matcher{
		completer: completer,
		model:     model,
		threshold: threshold,
	}
}

// modelResponse is the JSON verdict expected from the model.
type modelResponse struct {
	IssueNumber *int    `json:"issue_number"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// Match matches an image name against the given issues.
func (m *Matcher) Match(ctx context.Context, image string, issues []Issue) MatchResult {
	if m.Metrics != nil {
		m.Metrics.RecordMatchAttempt()
	}

	if m.completer == nil {
		return MatchResult{Image: image, Reasoning: "issue matching disabled (no model client)"}
	}

	if m.Cache != nil {
		if cached, ok := m.Cache.Get(image, m.model, issues); ok {
			logrus.WithField("image", image).Debug("issue match cache hit")
			if m.Metrics != nil {
				m.Metrics.RecordMatchCacheHit()
			}
			m.log(cached)
			return cached
		}
	}
	if m.Metrics != nil {
		m.Metrics.RecordMatchCacheMiss()
	}

	if len(issues) == 0 {
		result := MatchResult{Image: image, Reasoning: "no open issues to search"}
		m.store(result)
		return result
	}

	start := time.Now()
	raw, err := m.completer.Complete(ctx, buildPrompt(image, issues))
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		logrus.WithField("image", image).WithError(err).Warn("issue match model call failed")
		result := MatchResult{Image: image, Reasoning: fmt.Sprintf("model error: %v", err), LatencyMS: latency}
		m.log(result)
		return result
	}

	var resp modelResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &resp); err != nil {
		logrus.WithField("image", image).WithError(err).Warn("unparsable issue match response")
		result := MatchResult{Image: image, Reasoning: fmt.Sprintf("response parse error: %v", err), LatencyMS: latency}
		m.store(result)
		m.log(result)
		return result
	}

	result := MatchResult{
		Image:      image,
		Confidence: resp.Confidence,
		Reasoning:  resp.Reasoning,
		LatencyMS:  latency,
	}

	if resp.IssueNumber != nil && resp.Confidence >= m.threshold {
		for i := range issues {
			if issues[i].Number == *resp.IssueNumber {
				result.Issue = &issues[i]
				break
			}
		}
		if result.Issue == nil {
			logrus.WithFields(logrus.Fields{"image": image, "issue": *resp.IssueNumber}).
				Warn("model suggested an issue not in the list")
			result.Confidence = 0.0
			result.Reasoning = fmt.Sprintf("suggested issue #%d not found", *resp.IssueNumber)
		}
	}

	m.store(result)
	m.log(result)

	if result.Issue != nil {
		logrus.WithFields(logrus.Fields{
			"image":      image,
			"issue":      result.Issue.Number,
			"confidence": result.Confidence,
		}).Info("issue match found")
	} else {
		logrus.WithField("image", image).Debug("no issue match found")
	}
	return result
}

func (m *Matcher) store(result MatchResult) {
	if m.Cache == nil {
		return
	}
	if err := m.Cache.Put(result.Image, m.model, result); err != nil {
		logrus.WithError(err).Warn("failed to cache issue match result")
	}
}

func (m *Matcher) log(result MatchResult) {
	rec := telemetry.Record{
		Image:      result.Image,
		Model:      m.model,
		Confidence: result.Confidence,
		Success:    result.Issue != nil && result.Confidence >= m.threshold,
		Cached:     result.Cached,
		LatencyMS:  result.LatencyMS,
	}
	if result.Issue != nil {
		rec.IssueNumber = result.Issue.Number
		rec.IssueTitle = result.Issue.Title
	}
	if err := m.Telemetry.Log(rec); err != nil {
		logrus.WithError(err).Debug("failed to write telemetry record")
	}
}

// buildPrompt renders the matching prompt for one image against the
// issue list.
func buildPrompt(image string, issues []Issue) string {
	var sb strings.Builder

	if len(issues) > maxPromptIssues {
		issues = issues[:maxPromptIssues]
	}
	for i, issue := range issues {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		body := issue.Body
		if body == "" {
			body = "(no description)"
		} else if len(body) > maxBodyPreview {
			body = body[:maxBodyPreview]
		}
		body = strings.TrimSpace(strings.ReplaceAll(body, "\n", " "))
		fmt.Fprintf(&sb, "Issue #%d: %s\n  URL: %s\n  Description: %s...", issue.Number, issue.Title, issue.URL, body)
	}
	issuesText := sb.String()
	if issuesText == "" {
		issuesText = "(no open issues)"
	}

	return fmt.Sprintf(`You are an expert at matching container images to image request issues.

**Task:** Determine if any of the issues below is requesting the same container image (or a functionally equivalent image) as the one provided.

**Image to match:** %s

**Open image-request issues:**

%s

**Matching Guidelines:**
1. Look for issues requesting the same software/tool
2. Consider name variations (e.g., "postgres" vs "postgresql", "mongo" vs "mongodb")
3. Consider registry prefixes - ignore them for matching (e.g., "docker.io/nginx" matches "nginx")
4. Consider version tags - ignore them for matching (e.g., "nginx:1.25" matches "nginx:latest")
5. The issue should be requesting a NEW image, not reporting bugs about an existing one

**Confidence Scoring:**
- 0.9+: Exact match - issue explicitly requests this exact image
- 0.8-0.89: Strong match - issue requests the same software with minor name variation
- 0.7-0.79: Reasonable match - issue requests functionally equivalent software
- Below 0.7: Return null (no confident match)

**Output Format (JSON):**
{
  "issue_number": 123,
  "confidence": 0.85,
  "reasoning": "Brief explanation of why this issue matches"
}

If no issue matches with sufficient confidence:
{
  "issue_number": null,
  "confidence": 0.0,
  "reasoning": "No matching issue found"
}

Respond with ONLY the JSON output, no additional text.`, image, issuesText)
}

// stripCodeFences removes a surrounding markdown code block from a model
// response, if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
