package upstream

import (
	"context"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gaugeproj/gauge/internal/config"
	"github.com/gaugeproj/gauge/internal/registry"
)

// strategy attempts one discovery approach. A nil result means the
// strategy did not apply or produced nothing; it is distinct from a
// zero-confidence result.
type strategy interface {
	resolve(ctx context.Context, image string) *Result
}

// privateRegistryPatterns match image references that carry a private
// registry prefix worth stripping: generic company domains, GCP project
// registries, AWS ECR and Azure ACR hosts.
var privateRegistryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[a-z0-9.-]+\.(io|com|net|org|dev)/`),
	regexp.MustCompile(`^gcr\.io/[a-z0-9-]+/`),
	regexp.MustCompile(`^[a-z0-9-]+\.gcr\.io/`),
	regexp.MustCompile(`^[0-9]+\.dkr\.ecr\.`),
	regexp.MustCompile(`^.*\.azurecr\.io/`),
}

func isPrivateRegistry(image string) bool {
	for _, p := range privateRegistryPatterns {
		if p.MatchString(image) {
			return true
		}
	}
	return false
}

// ironBankStrategy uses Iron Bank images directly when the registry is
// accessible. Hardened images should never be substituted if they can be
// pulled as-is, so a hit here bypasses the confidence gate entirely.
type ironBankStrategy struct {
	cache   *AccessCache
	checker registry.Checker
}

func (s *ironBankStrategy) resolve(ctx context.Context, image string) *Result {
	if !strings.HasPrefix(image, config.IronBankRegistry+"/") {
		return nil
	}

	switch s.cache.State() {
	case AccessConfirmed:
		logrus.WithField("image", image).Debug("iron bank access confirmed (cached)")
		return &Result{Upstream: image, Confidence: 1.0, Method: MethodIronBankDirect}
	case AccessDenied:
		logrus.WithField("image", image).Debug("skipping iron bank check (previously denied)")
		return nil
	}

	logrus.WithField("image", image).Debug("checking iron bank access")
	if s.checker.Exists(ctx, image) {
		s.cache.Confirm()
		return &Result{Upstream: image, Confidence: 1.0, Method: MethodIronBankDirect}
	}

	if s.cache.Deny() {
		logrus.Warnf("cannot access Iron Bank registry (%s); if you have an account, run: docker login %s. Falling back to public upstream alternatives",
			config.IronBankRegistry, config.IronBankRegistry)
	}
	return nil
}

// manualStrategy consults the loaded manual mappings table. Mappings are
// ground truth, so hits carry full confidence.
type manualStrategy struct {
	mappings map[string]string
}

func (s *manualStrategy) resolve(_ context.Context, image string) *Result {
	mapped, ok := s.mappings[image]
	if !ok {
		return nil
	}
	logrus.WithFields(logrus.Fields{"image": image, "upstream": mapped}).Debug("manual mapping found")
	return &Result{Upstream: mapped, Confidence: 1.0, Method: MethodManual}
}

// stripStrategy removes a private registry prefix and verifies the
// remaining path against Docker Hub, trying several variants in order of
// likelihood. When none verifies, the stripped path is still returned at
// low confidence so a caller with a low floor can attempt a pull anyway.
type stripStrategy struct {
	checker registry.Checker
}

func (s *stripStrategy) resolve(ctx context.Context, image string) *Result {
	if !isPrivateRegistry(image) {
		return nil
	}

	parts := strings.Split(image, "/")
	if len(parts) < 2 {
		return nil
	}

	stripped := strings.Join(parts[1:], "/")
	nameOnly := parts[len(parts)-1]

	// Full path preserved, for multi-part names like jenkins/jenkins.
	if s.checker.Exists(ctx, "docker.io/"+stripped) {
		logrus.WithFields(logrus.Fields{"image": image, "upstream": stripped}).Debug("registry strip verified")
		return &Result{Upstream: stripped, Confidence: 0.90, Method: MethodRegistryStrip}
	}

	// library/ prefix, only for single-part names.
	if base, _, _ := strings.Cut(stripped, ":"); !strings.Contains(base, "/") {
		if s.checker.Exists(ctx, "docker.io/library/"+stripped) {
			logrus.WithFields(logrus.Fields{"image": image, "upstream": stripped}).Debug("registry strip verified")
			return &Result{Upstream: stripped, Confidence: 0.90, Method: MethodRegistryStrip}
		}
	}

	// Last segment alone, for cases like eks/coredns → coredns.
	if stripped != nameOnly {
		if s.checker.Exists(ctx, "docker.io/"+nameOnly) {
			logrus.WithFields(logrus.Fields{"image": image, "upstream": nameOnly}).Debug("registry strip verified")
			return &Result{Upstream: nameOnly, Confidence: 0.85, Method: MethodRegistryStrip}
		}
		if s.checker.Exists(ctx, "docker.io/library/"+nameOnly) {
			logrus.WithFields(logrus.Fields{"image": image, "upstream": nameOnly}).Debug("registry strip verified")
			return &Result{Upstream: nameOnly, Confidence: 0.85, Method: MethodRegistryStrip}
		}
	}

	logrus.WithFields(logrus.Fields{"image": image, "upstream": stripped}).Debug("registry strip unverified")
	return &Result{Upstream: stripped, Confidence: 0.70, Method: MethodRegistryStripUnverified}
}

// commonStrategy probes well-known public registries for the image's full
// path, then for its bare base name.
type commonStrategy struct {
	checker registry.Checker
}

func (s *commonStrategy) resolve(ctx context.Context, image string) *Result {
	baseName := registry.BaseName(image)
	fullPath := registry.FullPath(image)

	for _, reg := range config.CommonRegistries {
		if fullPath != "" && fullPath != baseName {
			candidate := reg + "/" + fullPath
			if s.checker.Exists(ctx, candidate) {
				logrus.WithField("upstream", candidate).Debug("found in common registry (full path)")
				return &Result{Upstream: candidate, Confidence: 0.80, Method: MethodCommonRegistry}
			}
		}

		candidate := reg + "/" + baseName
		if s.checker.Exists(ctx, candidate) {
			logrus.WithField("upstream", candidate).Debug("found in common registry")
			return &Result{Upstream: candidate, Confidence: 0.80, Method: MethodCommonRegistry}
		}
	}
	return nil
}

// baseStrategy extracts a common base-software name from internal naming
// patterns (company-nginx-prod → nginx) and verifies it on Docker Hub.
type baseStrategy struct {
	checker registry.Checker
}

func (s *baseStrategy) resolve(ctx context.Context, image string) *Result {
	baseName := registry.BaseName(image)

	for _, base := range config.CommonBases {
		if isDerivativeTool(baseName, base) {
			continue
		}
		if !strings.Contains(baseName, base) {
			continue
		}

		for _, candidate := range []string{
			"docker.io/library/" + base + ":latest",
			"docker.io/" + base + ":latest",
		} {
			if s.checker.Exists(ctx, candidate) {
				logrus.WithFields(logrus.Fields{"image": image, "base": base}).Debug("base extraction verified")
				return &Result{Upstream: base + ":latest", Confidence: 0.70, Method: MethodBaseExtract}
			}
		}
	}
	return nil
}

// isDerivativeTool reports whether name follows <base>-<suffix> with a
// known tool suffix, meaning it is a tool for the base software rather
// than the base software itself (node-exporter, postgres-operator).
func isDerivativeTool(name, base string) bool {
	if !strings.HasPrefix(name, base+"-") {
		return false
	}
	suffix := name[len(base)+1:]
	for _, tool := range config.ToolSuffixes {
		if suffix == tool || strings.HasPrefix(suffix, tool+"-") {
			return true
		}
	}
	return false
}
