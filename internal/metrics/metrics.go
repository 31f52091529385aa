package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counters holds all gauge Prometheus metrics.
type Counters struct {
	UpstreamResolved   prometheus.Counter
	UpstreamUnresolved prometheus.Counter
	RegistryProbes     prometheus.Counter
	ProbeFailures      prometheus.Counter
	AccessCacheHits    prometheus.Counter
	MatchAttempts      prometheus.Counter
	MatchCacheHits     prometheus.Counter
	MatchCacheMisses   prometheus.Counter
}

// NewCounters creates and registers Prometheus counters with the given registry.
func NewCounters(reg prometheus.Registerer) *Counters {
	c := &Counters{
		UpstreamResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gauge_upstream_resolved_total",
			Help: "Total number of images resolved to a public upstream equivalent.",
		}),
		UpstreamUnresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gauge_upstream_unresolved_total",
			Help: "Total number of images where no upstream cleared the confidence floor.",
		}),
		RegistryProbes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gauge_registry_probes_total",
			Help: "Total number of registry existence probes issued.",
		}),
		ProbeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gauge_registry_probe_failures_total",
			Help: "Total number of registry existence probes that failed or found nothing.",
		}),
		AccessCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gauge_access_cache_hits_total",
			Help: "Total number of hardened-registry checks answered from the access cache.",
		}),
		MatchAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gauge_issue_match_attempts_total",
			Help: "Total number of issue match attempts.",
		}),
		MatchCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gauge_issue_match_cache_hits_total",
			Help: "Total number of issue matches answered from the persistent cache.",
		}),
		MatchCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gauge_issue_match_cache_misses_total",
			Help: "Total number of issue matches that required a model call.",
		}),
	}

	reg.MustRegister(
		c.UpstreamResolved,
		c.UpstreamUnresolved,
		c.RegistryProbes,
		c.ProbeFailures,
		c.AccessCacheHits,
		c.MatchAttempts,
		c.MatchCacheHits,
		c.MatchCacheMisses,
	)

	return c
}

// RecordResolved increments the resolved upstream counter.
func (c *Counters) RecordResolved() {
	c.UpstreamResolved.Inc()
}

// RecordUnresolved increments the unresolved counter.
func (c *Counters) RecordUnresolved() {
	c.UpstreamUnresolved.Inc()
}

// RecordProbe increments the registry probe counter.
func (c *Counters) RecordProbe() {
	c.RegistryProbes.Inc()
}

// RecordProbeFailure increments the probe failure counter.
func (c *Counters) RecordProbeFailure() {
	c.ProbeFailures.Inc()
}

// RecordAccessCacheHit increments the access cache hit counter.
func (c *Counters) RecordAccessCacheHit() {
	c.AccessCacheHits.Inc()
}

// RecordMatchAttempt increments the issue match attempt counter.
func (c *Counters) RecordMatchAttempt() {
	c.MatchAttempts.Inc()
}

// RecordMatchCacheHit increments the match cache hit counter.
func (c *Counters) RecordMatchCacheHit() {
	c.MatchCacheHits.Inc()
}

// RecordMatchCacheMiss increments the match cache miss counter.
func (c *Counters) RecordMatchCacheMiss() {
	c.MatchCacheMisses.Inc()
}
