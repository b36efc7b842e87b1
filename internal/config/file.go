package config

import (
	"fmt"
	"os"

	"github.com/futig/docs-assistant/internal/entity"
	"gopkg.in/yaml.v3"
)

// LoadConfiguration reads a YAML pipeline configuration from path. Fields
// missing from the file keep their values from defaults. Values of the form
// ${VAR} are expanded from the environment so keys can stay out of the file.
func LoadConfiguration(path string, defaults entity.Configuration) (entity.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Configuration{}, fmt.Errorf("read configuration file: %w", err)
	}

	cfg := defaults
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return entity.Configuration{}, fmt.Errorf("parse configuration file %s: %w", path, err)
	}

	return cfg, nil
}
