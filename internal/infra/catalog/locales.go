package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"toolsapp/internal/domain"
)

// LoadLocales reads every <locale>.yaml, <locale>.yml and <locale>.toml bundle
// in dir. Nested keys are flattened into lower-cased dotted keys. Bundles for
// the same locale are merged in file name order.
func LoadLocales(dir string) (map[string]domain.Messages, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	out := make(map[string]domain.Messages)
	for _, name := range names {
		ext := strings.ToLower(filepath.Ext(name))
		locale := strings.TrimSuffix(name, filepath.Ext(name))
		if locale == "" {
			continue
		}

		var tree map[string]any
		switch ext {
		case ".yaml", ".yml":
			tree, err = readYAMLBundle(filepath.Join(dir, name))
		case ".toml":
			tree, err = readTOMLBundle(filepath.Join(dir, name))
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", name, err)
		}

		bundle, ok := out[locale]
		if !ok {
			bundle = domain.Messages{}
			out[locale] = bundle
		}
		flattenMessages("", tree, bundle)
	}
	return out, nil
}

func readYAMLBundle(path string) (map[string]any, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return v.AllSettings(), nil
}

func readTOMLBundle(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	return tree, nil
}

func flattenMessages(prefix string, tree map[string]any, out domain.Messages) {
	for key, value := range tree {
		full := strings.ToLower(key)
		if prefix != "" {
			full = prefix + "." + full
		}
		switch v := value.(type) {
		case map[string]any:
			flattenMessages(full, v, out)
		case map[any]any:
			nested := make(map[string]any, len(v))
			for k, val := range v {
				nested[fmt.Sprint(k)] = val
			}
			flattenMessages(full, nested, out)
		case string:
			out[full] = v
		case nil:
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
