package upstream

import "testing"

func TestIsPrivateRegistry(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  bool
	}{
		{"company io", "mycompany.io/python:3.12", true},
		{"artifactory com", "docker.artifactory.com/jenkins/jenkins:2.426", true},
		{"gcr project", "gcr.io/myproject/nginx:latest", true},
		{"project gcr", "myproject.gcr.io/nginx:latest", true},
		{"aws ecr", "012345678901.dkr.ecr.us-east-1.amazonaws.com/app:v1", true},
		{"azure acr", "myregistry.azurecr.io/app:v1", true},
		{"bare image", "nginx:latest", false},
		{"hub namespace", "library/nginx", false},
		{"iron bank mil tld", "registry1.dso.mil/ironbank/nginx", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPrivateRegistry(tt.image); got != tt.want {
				t.Errorf("isPrivateRegistry(%q) = %v, want %v", tt.image, got, tt.want)
			}
		})
	}
}

func TestIsDerivativeTool(t *testing.T) {
	tests := []struct {
		name string
		img  string
		base string
		want bool
	}{
		{"exporter", "node-exporter", "node", true},
		{"operator", "postgres-operator", "postgres", true},
		{"chained suffix", "redis-exporter-sidecar", "redis", true},
		{"plain base", "node", "node", false},
		{"unrelated suffix", "my-postgres-db", "postgres", false},
		{"suffix not after base", "postgres-db", "postgres", false},
		{"prefix only", "nodejs", "node", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDerivativeTool(tt.img, tt.base); got != tt.want {
				t.Errorf("isDerivativeTool(%q, %q) = %v, want %v", tt.img, tt.base, got, tt.want)
			}
		})
	}
}
