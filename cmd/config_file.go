package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
)

// SetFlagsFromConfigFile sets flags from a YAML file mapping flag names to
// values. Flags already set, whether on the command line or from the
// environment, are left unchanged.
//
// Keys may use underscores in place of hyphens:
//
//	secret: my-secret-key-of-sixteen-bytes
//	freshness_window: 15s
//	store: pebble
func SetFlagsFromConfigFile(fs *pflag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	for key, val := range values {
		name := strings.ReplaceAll(key, "_", "-")
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("config file %s: unknown flag: %s", path, key)
		}
		if f.Changed {
			continue
		}
		if err := setFlagFromConfig(fs, f, val); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return nil
}

func setFlagFromConfig(fs *pflag.FlagSet, f *pflag.Flag, val any) error {
	switch v := val.(type) {
	case map[string]any:
		return fmt.Errorf("%s: nested values are not supported", f.Name)
	case []any:
		sv, ok := f.Value.(pflag.SliceValue)
		if !ok {
			return fmt.Errorf("%s: does not accept a list", f.Name)
		}
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}
		if err := sv.Replace(items); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		f.Changed = true
		return nil
	case nil:
		return nil
	default:
		if err := fs.Set(f.Name, fmt.Sprint(v)); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		return nil
	}
}
