package config

import "time"

const (
	// IronBankRegistry is the DoD hardened-image registry. Images from it
	// are used directly when the registry is accessible, never substituted.
	IronBankRegistry = "registry1.dso.mil"

	// DefaultMinConfidence is the default confidence floor for upstream
	// discovery results.
	DefaultMinConfidence = 0.7

	// DefaultMatchConfidence is the default confidence floor for issue
	// matching.
	DefaultMatchConfidence = 0.7

	// DefaultModel is the default model for issue matching.
	DefaultModel = "claude-3-5-haiku-latest"

	// DefaultMappingsFile is the default manual upstream mappings file.
	DefaultMappingsFile = "config/upstream_mappings.yaml"

	// DefaultProbeTimeout bounds a single registry existence probe.
	DefaultProbeTimeout = 15 * time.Second

	// DefaultProbeMemoSize is the default size of the probe memo cache.
	DefaultProbeMemoSize = 512

	// DefaultMatchCacheTTL is how long cached issue-match results are kept
	// before Prune discards them.
	DefaultMatchCacheTTL = 30 * 24 * time.Hour
)

// CommonRegistries are the public registries checked in order by the
// common-registry discovery strategy.
var CommonRegistries = []string{
	"docker.io/library",
	"docker.io",
	"quay.io",
	"ghcr.io",
	"gcr.io",
}

// CommonBases are base-software names checked by the base-extraction
// discovery strategy.
var CommonBases = []string{
	"python", "node", "nginx", "postgres", "postgresql", "mysql", "mariadb",
	"redis", "mongo", "mongodb", "golang", "go", "java", "openjdk",
	"ruby", "php", "perl", "alpine", "ubuntu", "debian", "centos",
	"httpd", "apache", "tomcat", "rabbitmq", "kafka", "elasticsearch",
}

// ToolSuffixes mark derivative tools. An image named <base>-<suffix> is a
// tool built around the base software, not the base software itself, so
// base extraction must not match it (node-exporter is not node).
var ToolSuffixes = []string{
	"exporter",
	"operator",
	"controller",
	"agent",
	"proxy",
	"gateway",
	"client",
}

// Config holds runtime configuration for a gauge run.
type Config struct {
	// MinConfidence is the confidence floor for upstream discovery.
	MinConfidence float64

	// MappingsFile is the manual upstream mappings YAML file. A missing
	// file is not an error.
	MappingsFile string

	// ProbeTimeout bounds each registry existence probe.
	ProbeTimeout time.Duration

	// ProbeMemoSize is the probe memo cache size. 0 disables memoization.
	ProbeMemoSize int

	// Model is the model used for issue matching.
	Model string

	// MatchConfidence is the confidence floor for issue matching.
	MatchConfidence float64

	// CacheDir is the directory for the issue-match cache and telemetry.
	// Empty disables persistence.
	CacheDir string
}

// New creates a Config with default values.
func New() Config {
	return Config{
		MinConfidence:   DefaultMinConfidence,
		MappingsFile:    DefaultMappingsFile,
		ProbeTimeout:    DefaultProbeTimeout,
		ProbeMemoSize:   DefaultProbeMemoSize,
		Model:           DefaultModel,
		MatchConfidence: DefaultMatchConfidence,
	}
}
