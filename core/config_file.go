package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFileConfigLoader reads a raw config map from a YAML file. An empty
// Path yields an empty map. A missing file is an error unless Optional is set.
type YAMLFileConfigLoader struct {
	Path     string
	Optional bool
}

func (l YAMLFileConfigLoader) LoadRaw(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimSpace(l.Path)
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if l.Optional && errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("core: read config file %q: %w", path, err)
	}
	return DecodeYAMLConfig(data)
}

// DecodeYAMLConfig decodes data into the raw map shape cfgx builds from.
func DecodeYAMLConfig(data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("core: decode yaml config: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}
