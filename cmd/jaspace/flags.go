package main

import (
	"github.com/spf13/pflag"

	"github.com/phyten/jaspace/internal/config"
	engineopts "github.com/phyten/jaspace/internal/engine/opts"
)

// lintFlags は lint と watch が共有するフラグです。
// 明示されたフラグだけが設定ファイル・環境変数の値を上書きします。
type lintFlags struct {
	config string

	output string
	fields string
	sort   string
	color  string

	excludes       []string
	pathRegex      []string
	formats        []string
	excludeTypical bool
	jobs           int
	maxFileBytes   int
	git            bool
	noGit          bool
	cache          bool
	cacheLocation  string
	withLink       bool
	repo           string

	progress   bool
	noProgress bool

	stdin         bool
	stdinFilename string
}

func (f *lintFlags) bind(fs *pflag.FlagSet, withStdin bool) {
	fs.StringVar(&f.config, "config", "", "config file (default: search .jaspace.{yaml,yml,toml,json})")
	fs.StringVarP(&f.output, "output", "o", "", "stylish|table|tsv|json|ndjson|csv|markdown")
	fs.StringVar(&f.fields, "fields", "", "columns for table/tsv/csv/markdown (file,line,col,kind,action,message,url,...)")
	fs.StringVar(&f.sort, "sort", "", "sort keys, e.g. file,-line")
	fs.StringVar(&f.color, "color", "", "auto|always|never")
	fs.StringArrayVar(&f.excludes, "exclude", nil, "exclude glob (repeatable, comma separated)")
	fs.StringArrayVar(&f.pathRegex, "path-regex", nil, "only lint paths matching the regexp (repeatable)")
	fs.StringArrayVar(&f.formats, "formats", nil, "allowed formats: markdown,text")
	fs.BoolVar(&f.excludeTypical, "exclude-typical", false, "exclude vendor/, node_modules/, dist/, build/, target/, *.min.*")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "parallel workers (1-64, default: CPU count)")
	fs.IntVar(&f.maxFileBytes, "max-file-bytes", 0, "skip files larger than N bytes (0 = unlimited)")
	fs.BoolVar(&f.git, "git", false, "list files with git ls-files")
	fs.BoolVar(&f.noGit, "no-git", false, "walk the file system instead of git ls-files")
	fs.BoolVar(&f.cache, "cache", false, "reuse results for unchanged files")
	fs.StringVar(&f.cacheLocation, "cache-location", "", "cache file (implies --cache, default: <repo>/"+config.DefaultCacheFile+")")
	fs.BoolVar(&f.withLink, "with-link", false, "add blob URLs of the origin remote")
	fs.StringVar(&f.repo, "repo", "", "repository root (default: current dir)")
	fs.BoolVar(&f.progress, "progress", false, "force progress output on stderr")
	fs.BoolVar(&f.noProgress, "no-progress", false, "disable progress output")
	if withStdin {
		fs.BoolVar(&f.stdin, "stdin", false, "lint text read from stdin")
		fs.StringVar(&f.stdinFilename, "stdin-filename", "", "file name used for stdin (selects the format)")
	}
}

// layer は明示されたフラグと位置引数から最上位の設定層を作ります。
func (f *lintFlags) layer(fs *pflag.FlagSet, args []string) config.Config {
	var c config.Config
	if len(args) > 0 {
		paths := append([]string(nil), args...)
		c.Engine.Paths = &paths
	}
	list := func(name string, src []string, dst **[]string) {
		if fs.Changed(name) {
			v := engineopts.SplitMulti(src)
			if v == nil {
				v = []string{}
			}
			*dst = &v
		}
	}
	str := func(name, src string, dst **string) {
		if fs.Changed(name) {
			v := src
			*dst = &v
		}
	}
	boolean := func(name string, src bool, dst **bool) {
		if fs.Changed(name) {
			v := src
			*dst = &v
		}
	}
	integer := func(name string, src int, dst **int) {
		if fs.Changed(name) {
			v := src
			*dst = &v
		}
	}

	list("exclude", f.excludes, &c.Engine.Excludes)
	list("path-regex", f.pathRegex, &c.Engine.PathRegex)
	list("formats", f.formats, &c.Engine.Formats)
	boolean("exclude-typical", f.excludeTypical, &c.Engine.ExcludeTypical)
	integer("jobs", f.jobs, &c.Engine.Jobs)
	integer("max-file-bytes", f.maxFileBytes, &c.Engine.MaxFileBytes)
	boolean("git", f.git, &c.Engine.Git)
	if fs.Changed("no-git") && f.noGit {
		off := false
		c.Engine.Git = &off
	}
	boolean("cache", f.cache, &c.Engine.Cache)
	str("cache-location", f.cacheLocation, &c.Engine.CacheLocation)
	str("repo", f.repo, &c.Engine.Repo)
	str("output", f.output, &c.Engine.Output)
	str("color", f.color, &c.Engine.Color)

	str("fields", f.fields, &c.UI.Fields)
	str("sort", f.sort, &c.UI.Sort)
	boolean("with-link", f.withLink, &c.UI.WithLink)
	return c
}
