package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gaugeproj/gauge/internal/config"
	"github.com/gaugeproj/gauge/internal/inventory"
	"github.com/gaugeproj/gauge/internal/matcher"
	"github.com/gaugeproj/gauge/internal/metrics"
	"github.com/gaugeproj/gauge/internal/notify"
	"github.com/gaugeproj/gauge/internal/registry"
	"github.com/gaugeproj/gauge/internal/telemetry"
	"github.com/gaugeproj/gauge/internal/upstream"
	"github.com/gaugeproj/gauge/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "gauge",
		Short:        "Find public upstream equivalents for private container images",
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newUpstreamCmd())
	root.AddCommand(newMatchCmd())

	return root
}

// resolution is one image's outcome in the JSON report.
type resolution struct {
	Image      string  `json:"image"`
	Upstream   string  `json:"upstream,omitempty"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

func newUpstreamCmd() *cobra.Command {
	var (
		inputFile     string
		mappingsFile  string
		minConfidence float64
		probeTimeout  time.Duration
		memoSize      int
		insecure      bool
		metricsAddr   string
		webhookURL    string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "upstream [image...]",
		Short: "Resolve public upstream equivalents for image references",
		RunE: func(cmd *cobra.Command, args []string) error {
			images := args
			if inputFile != "" {
				loaded, err := inventory.Load(inputFile)
				if err != nil {
					return err
				}
				images = append(images, loaded...)
			}
			if len(images) == 0 {
				return fmt.Errorf("no images given: pass image references or --input")
			}
			return runUpstream(cmd.Context(), images, mappingsFile, minConfidence, probeTimeout, memoSize, insecure, metricsAddr, webhookURL, output)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "file with image references, one per line")
	cmd.Flags().StringVar(&mappingsFile, "mappings", config.DefaultMappingsFile, "manual upstream mappings YAML file")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", config.DefaultMinConfidence, "confidence floor for accepting a result")
	cmd.Flags().DurationVar(&probeTimeout, "probe-timeout", config.DefaultProbeTimeout, "timeout for a single registry probe")
	cmd.Flags().IntVar(&memoSize, "probe-memo-size", config.DefaultProbeMemoSize, "probe memo cache size (0 disables memoization)")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "allow HTTP connections to registries")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address for the metrics endpoint (empty = disabled)")
	cmd.Flags().StringVar(&webhookURL, "webhook", "", "URL to notify with per-image resolution events")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON report to a file instead of stdout")

	return cmd
}

func runUpstream(ctx context.Context, images []string, mappingsFile string, minConfidence float64, probeTimeout time.Duration, memoSize int, insecure bool, metricsAddr, webhookURL, output string) error {
	counters := metrics.NewCounters(prometheus.DefaultRegisterer)
	if metricsAddr != "" {
		serveMetrics(metricsAddr)
	}

	var checker registry.Checker = &registry.TimeoutChecker{
		Next:    &registry.RemoteChecker{Insecure: insecure, Metrics: counters},
		Timeout: probeTimeout,
	}
	if memoSize > 0 {
		memo, err := registry.NewMemoChecker(checker, memoSize)
		if err != nil {
			return fmt.Errorf("creating probe memo cache: %w", err)
		}
		checker = memo
	}

	finder := upstream.NewFinder(checker, upstream.NewAccessCache(), mappingsFile, minConfidence)
	finder.Metrics = counters
	notifier := notify.NewNotifier(webhookURL, nil)

	report := make([]resolution, 0, len(images))
	for _, image := range images {
		r := finder.Resolve(ctx, image)

		res := resolution{
			Image:      image,
			Upstream:   r.Upstream,
			Confidence: r.Confidence,
			Method:     string(r.Method),
		}
		report = append(report, res)

		evt := notify.Event{
			Type:       "resolved",
			Image:      image,
			Upstream:   r.Upstream,
			Confidence: r.Confidence,
			Method:     string(r.Method),
		}
		if !r.Found() {
			evt.Type = "unresolved"
		}
		if err := notifier.Notify(ctx, evt); err != nil {
			logrus.WithError(err).Warn("webhook notification failed")
		}
	}

	return writeReport(report, output)
}

func writeReport(report []resolution, output string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func newMatchCmd() *cobra.Command {
	var (
		inputFile  string
		issuesFile string
		model      string
		apiKey     string
		threshold  float64
		cacheDir   string
		noCache    bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match unresolved image names to open image-request issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("ANTHROPIC_API_KEY")
			}
			return runMatch(cmd.Context(), inputFile, issuesFile, model, apiKey, threshold, cacheDir, noCache, output)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "file with image references, one per line (required)")
	cmd.Flags().StringVar(&issuesFile, "issues", "", "JSON file with open image-request issues (required)")
	cmd.Flags().StringVar(&model, "model", config.DefaultModel, "model for issue matching")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Anthropic API key (defaults to ANTHROPIC_API_KEY)")
	cmd.Flags().Float64Var(&threshold, "confidence", config.DefaultMatchConfidence, "confidence floor for accepting a match")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", defaultCacheDir(), "directory for the match cache and telemetry log")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the persistent match cache")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON report to a file instead of stdout")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("issues")

	return cmd
}

// matchReport is one image's match outcome in the JSON report.
type matchReport struct {
	Image       string  `json:"image"`
	IssueNumber int     `json:"issue_number,omitempty"`
	IssueTitle  string  `json:"issue_title,omitempty"`
	IssueURL    string  `json:"issue_url,omitempty"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning,omitempty"`
	Cached      bool    `json:"cached"`
}

func runMatch(ctx context.Context, inputFile, issuesFile, model, apiKey string, threshold float64, cacheDir string, noCache bool, output string) error {
	if apiKey == "" {
		return fmt.Errorf("no API key: pass --api-key or set ANTHROPIC_API_KEY")
	}

	images, err := inventory.Load(inputFile)
	if err != nil {
		return err
	}
	issues, err := matcher.LoadIssues(issuesFile)
	if err != nil {
		return err
	}

	counters := metrics.NewCounters(prometheus.DefaultRegisterer)
	m := matcher.NewMatcher(matcher.NewAnthropicCompleter(apiKey, model), model, threshold)
	m.Metrics = counters

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory: %w", err)
		}
		m.Telemetry = telemetry.NewLogger(filepath.Join(cacheDir, "match_telemetry.jsonl"))

		if !noCache {
			cache, err := matcher.OpenCache(filepath.Join(cacheDir, "match_cache.db"))
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			if n, err := cache.Prune(config.DefaultMatchCacheTTL); err != nil {
				logrus.WithError(err).Warn("pruning match cache failed")
			} else if n > 0 {
				logrus.WithField("pruned", n).Debug("pruned stale match cache entries")
			}
			m.Cache = cache
		}
	}

	report := make([]matchReport, 0, len(images))
	for _, image := range images {
		r := m.Match(ctx, image, issues)
		entry := matchReport{
			Image:      image,
			Confidence: r.Confidence,
			Reasoning:  r.Reasoning,
			Cached:     r.Cached,
		}
		if r.Issue != nil {
			entry.IssueNumber = r.Issue.Number
			entry.IssueTitle = r.Issue.Title
			entry.IssueURL = r.Issue.URL
		}
		report = append(report, entry)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	data = append(data, '\n')
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gauge"
	}
	return filepath.Join(home, ".gauge")
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logrus.WithError(err).Error("metrics server failed")
		}
	}()
}
