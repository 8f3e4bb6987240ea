package config

import (
	"errors"
	"math"
	"strings"

	engineopts "github.com/phyten/jaspace/internal/engine/opts"
)

// envBinding は 1 つの JASPACE_* 変数を設定層のフィールドに結び付けます。
type envBinding struct {
	key string
	set func(cfg *Config, raw string) error
}

func envString(field func(*Config) **string) func(*Config, string) error {
	return func(cfg *Config, raw string) error {
		v := raw
		*field(cfg) = &v
		return nil
	}
}

// envList はカンマ区切りです。区切りしかない値は空リスト（クリア）です。
func envList(field func(*Config) **[]string) func(*Config, string) error {
	return func(cfg *Config, raw string) error {
		list := engineopts.SplitMulti([]string{raw})
		if list == nil {
			list = []string{}
		}
		*field(cfg) = &list
		return nil
	}
}

func envBool(key string, field func(*Config) **bool) func(*Config, string) error {
	return func(cfg *Config, raw string) error {
		v, err := engineopts.ParseBool(raw, key)
		if err != nil {
			return err
		}
		*field(cfg) = &v
		return nil
	}
}

// envInt の上限は緩くし、範囲の検査は NormalizeAndValidate に任せる
func envInt(key string, field func(*Config) **int) func(*Config, string) error {
	return func(cfg *Config, raw string) error {
		v, err := engineopts.ParseIntInRange(raw, key, 0, math.MaxInt)
		if err != nil {
			return err
		}
		*field(cfg) = &v
		return nil
	}
}

var envBindings = []envBinding{
	{"JASPACE_PATH", envList(func(c *Config) **[]string { return &c.Engine.Paths })},
	{"JASPACE_EXCLUDE", envList(func(c *Config) **[]string { return &c.Engine.Excludes })},
	{"JASPACE_PATH_REGEX", envList(func(c *Config) **[]string { return &c.Engine.PathRegex })},
	{"JASPACE_EXCLUDE_TYPICAL", envBool("JASPACE_EXCLUDE_TYPICAL", func(c *Config) **bool { return &c.Engine.ExcludeTypical })},
	{"JASPACE_FORMATS", envList(func(c *Config) **[]string { return &c.Engine.Formats })},
	{"JASPACE_MAX_FILE_BYTES", envInt("JASPACE_MAX_FILE_BYTES", func(c *Config) **int { return &c.Engine.MaxFileBytes })},
	{"JASPACE_JOBS", envInt("JASPACE_JOBS", func(c *Config) **int { return &c.Engine.Jobs })},
	{"JASPACE_GIT", envBool("JASPACE_GIT", func(c *Config) **bool { return &c.Engine.Git })},
	{"JASPACE_CACHE", envBool("JASPACE_CACHE", func(c *Config) **bool { return &c.Engine.Cache })},
	{"JASPACE_CACHE_LOCATION", envString(func(c *Config) **string { return &c.Engine.CacheLocation })},
	{"JASPACE_REPO", envString(func(c *Config) **string { return &c.Engine.Repo })},
	{"JASPACE_OUTPUT", envString(func(c *Config) **string { return &c.Engine.Output })},
	{"JASPACE_COLOR", envString(func(c *Config) **string { return &c.Engine.Color })},
	{"JASPACE_FIELDS", envString(func(c *Config) **string { return &c.UI.Fields })},
	{"JASPACE_SORT", envString(func(c *Config) **string { return &c.UI.Sort })},
	{"JASPACE_WITH_LINK", envBool("JASPACE_WITH_LINK", func(c *Config) **bool { return &c.UI.WithLink })},
}

// FromEnv は JASPACE_* 環境変数から設定層を作ります。空の変数は未指定扱いです。
// 不正な値はまとめて errors.Join で返します。
func FromEnv(getenv func(string) string) (Config, error) {
	var cfg Config
	if getenv == nil {
		return cfg, nil
	}
	var errs []error
	for _, b := range envBindings {
		raw := strings.TrimSpace(getenv(b.key))
		if raw == "" {
			continue
		}
		if err := b.set(&cfg, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return cfg, errors.Join(errs...)
}
