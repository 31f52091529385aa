package config

import (
	"testing"
	"time"
)

func TestNew_ConfidenceDefaults(t *testing.T) {
	cfg := New()
	if cfg.MinConfidence != DefaultMinConfidence {
		t.Errorf("expected MinConfidence=%v, got %v", DefaultMinConfidence, cfg.MinConfidence)
	}
	if cfg.MatchConfidence != DefaultMatchConfidence {
		t.Errorf("expected MatchConfidence=%v, got %v", DefaultMatchConfidence, cfg.MatchConfidence)
	}
}

func TestNew_ProbeDefaults(t *testing.T) {
	cfg := New()
	if cfg.ProbeTimeout != 15*time.Second {
		t.Errorf("expected ProbeTimeout=15s, got %v", cfg.ProbeTimeout)
	}
	if cfg.ProbeMemoSize != DefaultProbeMemoSize {
		t.Errorf("expected ProbeMemoSize=%d, got %d", DefaultProbeMemoSize, cfg.ProbeMemoSize)
	}
}

func TestCommonRegistries_Order(t *testing.T) {
	// The probe order is part of the discovery contract: Docker Hub
	// official images win over user namespaces and other registries.
	want := []string{"docker.io/library", "docker.io", "quay.io", "ghcr.io", "gcr.io"}
	if len(CommonRegistries) != len(want) {
		t.Fatalf("expected %d registries, got %d", len(want), len(CommonRegistries))
	}
	for i, reg := range want {
		if CommonRegistries[i] != reg {
			t.Errorf("registry %d: expected %q, got %q", i, reg, CommonRegistries[i])
		}
	}
}

func TestToolSuffixes_ContainsExporter(t *testing.T) {
	found := false
	for _, s := range ToolSuffixes {
		if s == "exporter" {
			found = true
		}
	}
	if !found {
		t.Error("expected 'exporter' in ToolSuffixes")
	}
}
