package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	engineopts "github.com/phyten/jaspace/internal/engine/opts"
)

// configKey は設定ファイルで受け付けるキー 1 つ分です。
// トップレベルにも section の中にも書けます。
type configKey struct {
	name    string
	section string
	aliases []string
	assign  func(cfg *Config, name string, v any) error
}

var configKeys = []configKey{
	{"path", "engine", []string{"paths"}, assignList(func(c *Config) **[]string { return &c.Engine.Paths })},
	{"exclude", "engine", []string{"excludes"}, assignList(func(c *Config) **[]string { return &c.Engine.Excludes })},
	{"path_regex", "engine", []string{"path_regexes"}, assignList(func(c *Config) **[]string { return &c.Engine.PathRegex })},
	{"exclude_typical", "engine", nil, assignBool(func(c *Config) **bool { return &c.Engine.ExcludeTypical })},
	{"formats", "engine", []string{"format"}, assignList(func(c *Config) **[]string { return &c.Engine.Formats })},
	{"max_file_bytes", "engine", []string{"max_bytes"}, assignInt(func(c *Config) **int { return &c.Engine.MaxFileBytes })},
	{"jobs", "engine", nil, assignInt(func(c *Config) **int { return &c.Engine.Jobs })},
	{"git", "engine", []string{"use_git"}, assignBool(func(c *Config) **bool { return &c.Engine.Git })},
	{"cache", "engine", nil, assignBool(func(c *Config) **bool { return &c.Engine.Cache })},
	{"cache_location", "engine", nil, assignString(true, func(c *Config) **string { return &c.Engine.CacheLocation })},
	{"repo", "engine", nil, assignString(false, func(c *Config) **string { return &c.Engine.Repo })},
	{"output", "engine", nil, assignString(true, func(c *Config) **string { return &c.Engine.Output })},
	{"color", "engine", nil, assignString(true, func(c *Config) **string { return &c.Engine.Color })},
	{"fields", "ui", nil, assignString(false, func(c *Config) **string { return &c.UI.Fields })},
	{"sort", "ui", nil, assignString(false, func(c *Config) **string { return &c.UI.Sort })},
	{"with_link", "ui", nil, assignBool(func(c *Config) **bool { return &c.UI.WithLink })},
}

var sections = map[string]struct{}{"engine": {}, "ui": {}}

// lookupKey は正規化済みのキーを探します。section が空ならどのセクションのキーでも受け付けます。
func lookupKey(section, norm string) (configKey, bool) {
	for _, k := range configKeys {
		if section != "" && k.section != section {
			continue
		}
		if k.name == norm {
			return k, true
		}
		for _, a := range k.aliases {
			if a == norm {
				return k, true
			}
		}
	}
	return configKey{}, false
}

// Load は拡張子に応じて YAML/TOML/JSON の設定ファイルを読み込みます。未知のキーはエラーです。
func Load(path string) (Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	raw, err := unmarshalByExt(filepath.Ext(path), data)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		return cfg, nil
	}
	cfg, err = decodeConfigMap(raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func unmarshalByExt(ext string, data []byte) (map[string]any, error) {
	var raw map[string]any
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported config extension: %q", ext)
	}
	return raw, err
}

// decodeConfigMap はセクション内のキーを先に、トップレベルのキーを後に適用します。
func decodeConfigMap(raw map[string]any) (Config, error) {
	var cfg Config
	type pending struct {
		key   configKey
		value any
	}
	var sectioned, top []pending

	for rawKey, value := range raw {
		norm := normalizeKey(rawKey)
		if _, ok := sections[norm]; ok {
			sub, err := toStringKeyMap(value)
			if err != nil {
				return cfg, fmt.Errorf("%s: %w", norm, err)
			}
			for subKey, v := range sub {
				k, ok := lookupKey(norm, normalizeKey(subKey))
				if !ok {
					return cfg, fmt.Errorf("unknown %s key: %s", norm, subKey)
				}
				sectioned = append(sectioned, pending{k, v})
			}
			continue
		}
		k, ok := lookupKey("", norm)
		if !ok {
			return cfg, fmt.Errorf("unknown config key: %s", rawKey)
		}
		top = append(top, pending{k, value})
	}

	for _, p := range append(sectioned, top...) {
		if err := p.key.assign(&cfg, p.key.name, p.value); err != nil {
			return cfg, fmt.Errorf("%s: %w", p.key.section, err)
		}
	}
	return cfg, nil
}

func assignString(trim bool, target func(*Config) **string) func(*Config, string, any) error {
	return func(cfg *Config, name string, v any) error {
		s, err := expectString(v, name)
		if err != nil {
			return err
		}
		if trim {
			s = strings.TrimSpace(s)
		}
		*target(cfg) = &s
		return nil
	}
}

func assignBool(target func(*Config) **bool) func(*Config, string, any) error {
	return func(cfg *Config, name string, v any) error {
		var b bool
		switch x := v.(type) {
		case bool:
			b = x
		case string:
			parsed, err := engineopts.ParseBool(x, name)
			if err != nil {
				return err
			}
			b = parsed
		default:
			return fmt.Errorf("expected bool for %s, got %T", name, v)
		}
		*target(cfg) = &b
		return nil
	}
}

func assignInt(target func(*Config) **int) func(*Config, string, any) error {
	return func(cfg *Config, name string, v any) error {
		n, err := expectInt(v, name)
		if err != nil {
			return err
		}
		*target(cfg) = &n
		return nil
	}
}

func assignList(target func(*Config) **[]string) func(*Config, string, any) error {
	return func(cfg *Config, name string, v any) error {
		var items []string
		switch x := v.(type) {
		case string:
			items = engineopts.SplitMulti([]string{x})
		case []any:
			for _, item := range x {
				s, err := expectString(item, name)
				if err != nil {
					return err
				}
				items = append(items, s)
			}
		case []string:
			items = x
		default:
			return fmt.Errorf("expected string or list for %s, got %T", name, v)
		}
		list := make([]string, 0, len(items))
		for _, s := range items {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		*target(cfg) = &list
		return nil
	}
}

func expectString(v any, name string) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", fmt.Errorf("%s cannot be null", name)
	case string:
		return x, nil
	}
	return "", fmt.Errorf("expected string for %s, got %T", name, v)
}

// expectInt は YAML の int、TOML の int64、JSON の float64 を受け付けます。小数はエラーです。
func expectInt(v any, name string) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case uint64:
		if x > math.MaxInt {
			return 0, fmt.Errorf("integer out of range for %s: %d", name, x)
		}
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || math.Abs(x) > 1<<53 {
			return 0, fmt.Errorf("expected integer for %s, got %v", name, x)
		}
		return int(x), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %q", name, x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected integer for %s, got %T", name, v)
}

func toStringKeyMap(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, value := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key: %v", k)
			}
			out[key] = value
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected map, got %T", v)
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}
