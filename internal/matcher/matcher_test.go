package matcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// fakeCompleter returns a canned response and records prompts.
type fakeCompleter struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (c *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func testIssues() []Issue {
	return []Issue{
		{Number: 101, Title: "Request: nginx image", Body: "Please add nginx", URL: "https://example.com/101"},
		{Number: 202, Title: "Request: postgresql image", Body: "Need postgres", URL: "https://example.com/202"},
	}
}

func TestMatch_FindsIssue(t *testing.T) {
	c := &fakeCompleter{response: `{"issue_number": 202, "confidence": 0.85, "reasoning": "same software"}`}
	m := NewMatcher(c, "test-model", 0.7)

	r := m.Match(context.Background(), "corp.io/postgres:15", testIssues())
	if r.Issue == nil {
		t.Fatal("expected a match")
	}
	if r.Issue.Number != 202 {
		t.Errorf("expected issue 202, got %d", r.Issue.Number)
	}
	if r.Confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", r.Confidence)
	}
}

func TestMatch_PromptContainsImageAndIssues(t *testing.T) {
	c := &fakeCompleter{response: `{"issue_number": null, "confidence": 0.0, "reasoning": "no match"}`}
	m := NewMatcher(c, "test-model", 0.7)

	_ = m.Match(context.Background(), "corp.io/widget:1", testIssues())
	if len(c.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(c.prompts))
	}
	p := c.prompts[0]
	if !strings.Contains(p, "corp.io/widget:1") {
		t.Error("expected prompt to contain the image name")
	}
	if !strings.Contains(p, "Issue #101") || !strings.Contains(p, "Issue #202") {
		t.Error("expected prompt to contain the issue list")
	}
}

func TestMatch_BelowThresholdIsNoMatch(t *testing.T) {
	c := &fakeCompleter{response: `{"issue_number": 101, "confidence": 0.5, "reasoning": "weak"}`}
	m := NewMatcher(c, "test-model", 0.7)

	r := m.Match(context.Background(), "corp.io/nginx:1", testIssues())
	if r.Issue != nil {
		t.Errorf("expected no match below threshold, got issue %d", r.Issue.Number)
	}
	if r.Confidence != 0.5 {
		t.Errorf("expected reported confidence 0.5, got %v", r.Confidence)
	}
}

func TestMatch_UnknownIssueNumberZeroed(t *testing.T) {
	c := &fakeCompleter{response: `{"issue_number": 999, "confidence": 0.9, "reasoning": "hallucinated"}`}
	m := NewMatcher(c, "test-model", 0.7)

	r := m.Match(context.Background(), "corp.io/nginx:1", testIssues())
	if r.Issue != nil {
		t.Error("expected no match for unknown issue number")
	}
	if r.Confidence != 0.0 {
		t.Errorf("expected confidence zeroed, got %v", r.Confidence)
	}
}

func TestMatch_CodeFencedResponse(t *testing.T) {
	c := &fakeCompleter{response: "```json\n{\"issue_number\": 101, \"confidence\": 0.9, \"reasoning\": \"exact\"}\n```"}
	m := NewMatcher(c, "test-model", 0.7)

	r := m.Match(context.Background(), "nginx:1.25", testIssues())
	if r.Issue == nil || r.Issue.Number != 101 {
		t.Fatalf("expected issue 101 from fenced response, got %+v", r)
	}
}

func TestMatch_ModelErrorDegrades(t *testing.T) {
	c := &fakeCompleter{err: fmt.Errorf("boom")}
	m := NewMatcher(c, "test-model", 0.7)

	r := m.Match(context.Background(), "nginx:1.25", testIssues())
	if r.Issue != nil || r.Confidence != 0.0 {
		t.Errorf("expected degraded no-match, got %+v", r)
	}
	if !strings.Contains(r.Reasoning, "model error") {
		t.Errorf("expected reasoning to mention the error, got %q", r.Reasoning)
	}
}

func TestMatch_UnparsableResponseDegrades(t *testing.T) {
	c := &fakeCompleter{response: "definitely not json"}
	m := NewMatcher(c, "test-model", 0.7)

	r := m.Match(context.Background(), "nginx:1.25", testIssues())
	if r.Issue != nil || r.Confidence != 0.0 {
		t.Errorf("expected degraded no-match, got %+v", r)
	}
}

func TestMatch_NoCompleterIsDisabled(t *testing.T) {
	m := NewMatcher(nil, "test-model", 0.7)
	r := m.Match(context.Background(), "nginx:1.25", testIssues())
	if r.Issue != nil {
		t.Error("expected no match when matching is disabled")
	}
}

func TestMatch_NoIssues(t *testing.T) {
	c := &fakeCompleter{response: `{}`}
	m := NewMatcher(c, "test-model", 0.7)

	r := m.Match(context.Background(), "nginx:1.25", nil)
	if r.Issue != nil {
		t.Error("expected no match with empty issue list")
	}
	if c.calls != 0 {
		t.Error("expected no model call with empty issue list")
	}
}

func TestMatch_CacheHitSkipsModel(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	c := &fakeCompleter{response: `{"issue_number": 101, "confidence": 0.9, "reasoning": "exact"}`}
	m := NewMatcher(c, "test-model", 0.7)
	m.Cache = cache

	first := m.Match(context.Background(), "nginx:1.25", testIssues())
	if first.Issue == nil || first.Cached {
		t.Fatalf("expected fresh match, got %+v", first)
	}

	second := m.Match(context.Background(), "nginx:1.25", testIssues())
	if !second.Cached {
		t.Error("expected second match to come from cache")
	}
	if second.Issue == nil || second.Issue.Number != 101 {
		t.Errorf("expected cached issue 101, got %+v", second.Issue)
	}
	if c.calls != 1 {
		t.Errorf("expected exactly 1 model call, got %d", c.calls)
	}
}

func TestMatch_ModelChangeInvalidatesCache(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	c := &fakeCompleter{response: `{"issue_number": 101, "confidence": 0.9, "reasoning": "exact"}`}
	m := NewMatcher(c, "model-a", 0.7)
	m.Cache = cache
	_ = m.Match(context.Background(), "nginx:1.25", testIssues())

	m2 := NewMatcher(c, "model-b", 0.7)
	m2.Cache = cache
	r := m2.Match(context.Background(), "nginx:1.25", testIssues())
	if r.Cached {
		t.Error("expected a different model to miss the cache")
	}
	if c.calls != 2 {
		t.Errorf("expected 2 model calls, got %d", c.calls)
	}
}

func TestMatch_NegativeResultsCached(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	c := &fakeCompleter{response: `{"issue_number": null, "confidence": 0.0, "reasoning": "no match"}`}
	m := NewMatcher(c, "test-model", 0.7)
	m.Cache = cache

	_ = m.Match(context.Background(), "obscure:1", testIssues())
	r := m.Match(context.Background(), "obscure:1", testIssues())
	if !r.Cached {
		t.Error("expected negative result to be served from cache")
	}
	if c.calls != 1 {
		t.Errorf("expected 1 model call, got %d", c.calls)
	}
}
