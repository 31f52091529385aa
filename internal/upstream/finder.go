package upstream

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gaugeproj/gauge/internal/metrics"
	"github.com/gaugeproj/gauge/internal/registry"
)

// Finder discovers public upstream equivalents for private/internal
// images. Strategies run in a fixed priority order; the first result that
// clears the confidence floor wins.
//
// A Finder is safe for concurrent use. The only shared mutable state is
// the injected AccessCache.
type Finder struct {
	// Metrics counts resolutions when set.
	Metrics *metrics.Counters

	minConfidence float64
	direct        *ironBankStrategy
	strategies    []strategy
}

// NewFinder creates a Finder. Manual mappings are loaded once from
// mappingsPath (missing file means no mappings). The access cache is
// shared process state injected by the caller so tests can reset it.
func NewFinder(checker registry.Checker, access *AccessCache, mappingsPath string, minConfidence float64) *Finder {
	return &Finder{
		minConfidence: minConfidence,
		direct:        &ironBankStrategy{cache: access, checker: checker},
		strategies: []strategy{
			&manualStrategy{mappings: LoadMappings(mappingsPath)},
			&stripStrategy{checker: checker},
			&commonStrategy{checker: checker},
			&baseStrategy{checker: checker},
		},
	}
}

// Resolve finds the public upstream equivalent for an image reference.
//
// The Iron Bank strategy runs first and short-circuits unconditionally
// when it produces a result: an accessible hardened image is used
// directly, not substituted, so the confidence floor does not apply.
// The remaining strategies run in order behind the floor. Resolution
// never fails; when nothing qualifies the result carries MethodNone.
func (f *Finder) Resolve(ctx context.Context, image string) Result {
	settled := f.direct.cache.State() == AccessConfirmed
	if r := f.direct.resolve(ctx, image); r != nil {
		if settled && f.Metrics != nil {
			f.Metrics.RecordAccessCacheHit()
		}
		f.record(*r)
		return *r
	}

	for _, s := range f.strategies {
		r := s.resolve(ctx, image)
		if r == nil {
			continue
		}
		if r.Confidence >= f.minConfidence {
			f.record(*r)
			return *r
		}
	}

	logrus.WithField("image", image).Debug("no upstream found")
	none := Result{Confidence: 0.0, Method: MethodNone}
	f.record(none)
	return none
}

func (f *Finder) record(r Result) {
	if f.Metrics == nil {
		return
	}
	if r.Found() {
		f.Metrics.RecordResolved()
	} else {
		f.Metrics.RecordUnresolved()
	}
}
