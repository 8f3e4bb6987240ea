package config

import (
	"path/filepath"
	"strings"

	"github.com/phyten/jaspace/internal/engine"
)

// DefaultCacheFile は cache_location 未指定時に repo 直下へ作るキャッシュファイル名です。
const DefaultCacheFile = ".jaspace-cache.db"

type EngineConfig struct {
	Paths          *[]string `yaml:"path" toml:"path" json:"path"`
	Excludes       *[]string `yaml:"exclude" toml:"exclude" json:"exclude"`
	PathRegex      *[]string `yaml:"path_regex" toml:"path_regex" json:"path_regex"`
	ExcludeTypical *bool     `yaml:"exclude_typical" toml:"exclude_typical" json:"exclude_typical"`
	Formats        *[]string `yaml:"formats" toml:"formats" json:"formats"`
	Jobs           *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	MaxFileBytes   *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
	Git            *bool     `yaml:"git" toml:"git" json:"git"`
	Cache          *bool     `yaml:"cache" toml:"cache" json:"cache"`
	CacheLocation  *string   `yaml:"cache_location" toml:"cache_location" json:"cache_location"`
	Repo           *string   `yaml:"repo" toml:"repo" json:"repo"`
	Output         *string   `yaml:"output" toml:"output" json:"output"`
	Color          *string   `yaml:"color" toml:"color" json:"color"`
}

type UIConfig struct {
	Fields   *string `yaml:"fields" toml:"fields" json:"fields"`
	Sort     *string `yaml:"sort" toml:"sort" json:"sort"`
	WithLink *bool   `yaml:"with_link" toml:"with_link" json:"with_link"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine" toml:"engine" json:"engine"`
	UI     UIConfig     `yaml:"ui" toml:"ui" json:"ui"`
}

type EngineSettings struct {
	Paths          []string
	Excludes       []string
	PathRegex      []string
	ExcludeTypical bool
	Formats        []string
	Jobs           int
	MaxFileBytes   int
	Git            bool
	Cache          bool
	CacheLocation  string
	Repo           string
	Output         string
	Color          string
}

type UISettings struct {
	Fields   string
	Sort     string
	WithLink bool
}

func EngineSettingsFromOptions(opts engine.Options) EngineSettings {
	return EngineSettings{
		Paths:          cloneStrings(opts.Paths),
		Excludes:       cloneStrings(opts.Excludes),
		PathRegex:      cloneStrings(opts.PathRegex),
		ExcludeTypical: opts.ExcludeTypical,
		Formats:        cloneStrings(opts.Formats),
		Jobs:           opts.Jobs,
		MaxFileBytes:   opts.MaxFileBytes,
		Git:            opts.UseGit,
		Cache:          opts.CachePath != "",
		CacheLocation:  opts.CachePath,
		Repo:           opts.RepoDir,
		Output:         "stylish",
		Color:          "auto",
	}
}

// ApplyToOptions は設定値を opts に書き戻します。
// cache が有効で cache_location が空なら repo 直下の DefaultCacheFile を使います。
func (s EngineSettings) ApplyToOptions(opts *engine.Options) {
	if opts == nil {
		return
	}
	opts.Paths = cloneStrings(s.Paths)
	opts.Excludes = cloneStrings(s.Excludes)
	opts.PathRegex = cloneStrings(s.PathRegex)
	opts.ExcludeTypical = s.ExcludeTypical
	opts.Formats = cloneStrings(s.Formats)
	opts.Jobs = s.Jobs
	opts.MaxFileBytes = s.MaxFileBytes
	opts.UseGit = s.Git
	if trimmed := strings.TrimSpace(s.Repo); trimmed != "" {
		opts.RepoDir = trimmed
	}
	opts.CachePath = ""
	if s.Cache {
		loc := strings.TrimSpace(s.CacheLocation)
		if loc == "" {
			loc = filepath.Join(opts.RepoDir, DefaultCacheFile)
		}
		opts.CachePath = loc
	}
}

func DefaultUISettings() UISettings {
	return UISettings{
		Fields:   "",
		Sort:     "",
		WithLink: false,
	}
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
