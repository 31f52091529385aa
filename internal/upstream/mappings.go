package upstream

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LoadMappings reads a YAML file mapping exact image references to their
// known-correct upstream equivalents. Keys and values are opaque strings;
// they are never validated against any registry.
//
// A missing file is not an error and yields an empty mapping. A file whose
// top-level structure is not a flat mapping also yields an empty mapping,
// with a logged warning.
func LoadMappings(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.WithField("path", path).Debug("no manual upstream mappings file")
		} else {
			logrus.WithField("path", path).WithError(err).Warn("failed to read manual upstream mappings")
		}
		return map[string]string{}
	}

	mappings := map[string]string{}
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		logrus.WithField("path", path).WithError(err).Warn("invalid manual upstream mappings format")
		return map[string]string{}
	}
	if mappings == nil {
		return map[string]string{}
	}

	logrus.WithField("count", len(mappings)).Debug("loaded manual upstream mappings")
	return mappings
}
