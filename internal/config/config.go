// Package config loads the project-level ".richapi.yaml" file a compile
// invocation is scoped to: which package prefixes count as "user code"
// (registry.ScanScope), the project root, and the exception base class
// name raise sites are checked against.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrMissingScope is returned when no scan scope was given on the CLI and
// none could be inferred from the project layout. Go has no caller-frame
// introspection to fall back on the way a Python tool could inspect the
// call stack to find where an app object was defined, so a failed
// inference is always terminal here, never a silent default.
var ErrMissingScope = errors.New("config: could not infer scan scope; pass scan_module explicitly or add a .richapi.yaml")

// DefaultExceptionRoot is the base class raise sites are checked against
// when no ".richapi.yaml" or CLI override names one.
const DefaultExceptionRoot = "HTTPException"

// FileName is the project config file's conventional name, searched for
// relative to --root when inferring scope.
const FileName = ".richapi.yaml"

// Config is the parsed ".richapi.yaml": everything a compile pass needs
// beyond the module:attribute target itself.
type Config struct {
	Root           string   `yaml:"-"`
	ScanPrefixes   []string `yaml:"scan_scope"`
	ExceptionRoots []string `yaml:"exception_roots"`
}

// Load reads and parses path, defaulting ExceptionRoots when the file
// omits it. Root is left for the caller to set from --root/cwd.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(cfg.ExceptionRoots) == 0 {
		cfg.ExceptionRoots = []string{DefaultExceptionRoot}
	}
	return cfg, nil
}

// InferScope resolves the scan scope for a compile pass. explicitModule is
// the scan_module CLI argument, if given, and always wins. Otherwise a
// ".richapi.yaml" under root supplies scan_scope; failing that, the
// top-level package segment of the target module (e.g. "app" from
// "app.main:api") is used as a single-prefix scope. If neither yields
// anything, ErrMissingScope is returned.
func InferScope(root, explicitModule, targetModule string) ([]string, error) {
	if explicitModule != "" {
		return []string{explicitModule}, nil
	}

	cfgPath := filepath.Join(root, FileName)
	if cfg, err := Load(cfgPath); err == nil && len(cfg.ScanPrefixes) > 0 {
		return cfg.ScanPrefixes, nil
	}

	if top := firstSegment(targetModule); top != "" {
		return []string{top}, nil
	}

	return nil, ErrMissingScope
}

func firstSegment(dotted string) string {
	for i, r := range dotted {
		if r == '.' {
			return dotted[:i]
		}
	}
	return dotted
}
