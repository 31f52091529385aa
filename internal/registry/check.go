package registry

import (
	"context"
	"time"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/gaugeproj/gauge/internal/metrics"
)

// Checker answers whether a fully-qualified image reference exists in its
// registry. Any failure (network, auth, timeout, unparsable ref) counts as
// non-existence; a Checker never reports errors to the caller.
type Checker interface {
	Exists(ctx context.Context, ref string) bool
}

// RemoteChecker verifies existence with a manifest HEAD request against the
// remote registry, authenticating via the default keychain.
type RemoteChecker struct {
	// Insecure allows HTTP registries (used by tests).
	Insecure bool

	// Metrics counts probes when set.
	Metrics *metrics.Counters
}

// Exists performs the manifest check. The caller bounds the request via ctx.
func (c *RemoteChecker) Exists(ctx context.Context, ref string) bool {
	if c.Metrics != nil {
		c.Metrics.RecordProbe()
	}

	parsed, err := name.ParseReference(ref, c.nameOpts()...)
	if err != nil {
		logrus.WithField("ref", ref).WithError(err).Debug("unparsable image reference")
		if c.Metrics != nil {
			c.Metrics.RecordProbeFailure()
		}
		return false
	}

	_, err = remote.Head(parsed,
		remote.WithContext(ctx),
		remote.WithAuthFromKeychain(authn.DefaultKeychain),
	)
	if err != nil {
		logrus.WithField("ref", ref).WithError(err).Debug("manifest check failed")
		if c.Metrics != nil {
			c.Metrics.RecordProbeFailure()
		}
		return false
	}
	return true
}

func (c *RemoteChecker) nameOpts() []name.Option {
	if c.Insecure {
		return []name.Option{name.Insecure}
	}
	return nil
}

// MemoChecker memoizes verdicts from an underlying Checker. Batch runs
// probe the same candidates over and over (docker.io/library/python:latest
// for every python-ish image), so verdicts are cached per ref for the
// process lifetime. A verdict produced during a transient outage sticks
// until the process exits.
type MemoChecker struct {
	next  Checker
	cache *lru.Cache[string, bool]
}

// NewMemoChecker wraps next with an LRU memo of at most size verdicts.
func NewMemoChecker(next Checker, size int) (*MemoChecker, error) {
	cache, err := lru.New[string, bool](size)
	if err != nil {
		return nil, err
	}
	return &MemoChecker{next: next, cache: cache}, nil
}

// Exists returns the memoized verdict for ref, probing once on first use.
func (m *MemoChecker) Exists(ctx context.Context, ref string) bool {
	if verdict, ok := m.cache.Get(ref); ok {
		return verdict
	}
	verdict := m.next.Exists(ctx, ref)
	m.cache.Add(ref, verdict)
	return verdict
}

// TimeoutChecker bounds each probe of the underlying Checker. A zero
// Timeout passes the caller's context through unchanged.
type TimeoutChecker struct {
	Next    Checker
	Timeout time.Duration
}

// Exists probes with a per-call deadline.
func (c *TimeoutChecker) Exists(ctx context.Context, ref string) bool {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return c.Next.Exists(ctx, ref)
}
