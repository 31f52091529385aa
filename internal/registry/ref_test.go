package registry

import "testing"

func TestHost(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{"bare image", "nginx:latest", "docker.io"},
		{"hub namespace", "library/nginx:latest", "docker.io"},
		{"user image", "myuser/myimage", "docker.io"},
		{"gcr", "gcr.io/myproject/app:v1", "gcr.io"},
		{"ghcr", "ghcr.io/org/image:latest", "ghcr.io"},
		{"iron bank", "registry1.dso.mil/ironbank/nginx:1.25", "registry1.dso.mil"},
		{"localhost with port", "localhost:5000/myimage:dev", "localhost:5000"},
		{"digest only", "nginx@sha256:abc", "docker.io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Host(tt.image); got != tt.want {
				t.Errorf("Host(%q) = %q, want %q", tt.image, got, tt.want)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{"registry and tag", "mycompany.io/python:3.12", "python"},
		{"no slash keeps name", "internal-python-app:v1", "internal-python-app"},
		{"nested path", "gcr.io/project/nginx", "nginx"},
		{"digest stripped", "nginx@sha256:abc123", "nginx"},
		{"tag and digest", "repo/app:v2@sha256:abc123", "app"},
		{"upper-cased input", "Repo/APP:v1", "app"},
		{"bare name", "redis", "redis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BaseName(tt.image); got != tt.want {
				t.Errorf("BaseName(%q) = %q, want %q", tt.image, got, tt.want)
			}
		})
	}
}

// BaseName splits on the first colon in the whole reference. A host:port
// prefix therefore wins over the tag. The behavior is locked in here so a
// change is deliberate, not accidental.
func TestBaseName_PortColonAmbiguity(t *testing.T) {
	if got := BaseName("localhost:5000/nginx:1.0"); got != "localhost" {
		t.Errorf("BaseName = %q, want %q", got, "localhost")
	}
}

func TestFullPath(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{"registry stripped", "gcr.io/project/nginx:1.0", "project/nginx"},
		{"library stripped", "docker.io/library/nginx", "nginx"},
		{"org path kept", "kaniko-project/executor:v1.0", "kaniko-project/executor"},
		{"bare image", "nginx:latest", "nginx"},
		{"no slash unchanged", "internal-python-app", "internal-python-app"},
		{"digest stripped", "quay.io/org/app@sha256:abc", "org/app"},
		{"lower-cased", "Org/App", "org/app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FullPath(tt.image); got != tt.want {
				t.Errorf("FullPath(%q) = %q, want %q", tt.image, got, tt.want)
			}
		})
	}
}

func TestFullPath_NeverReturnsHost(t *testing.T) {
	for _, image := range []string{
		"gcr.io/project/nginx",
		"registry.example.com/team/app:v1",
		"localhost/app",
	} {
		got := FullPath(image)
		if got != "" && looksLikeHost(got[:indexOrLen(got, '/')]) {
			t.Errorf("FullPath(%q) = %q still starts with a host segment", image, got)
		}
	}
}

func indexOrLen(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return len(s)
}
