// Package opts は CLI と Web で共通の engine.Options の既定値と検証をまとめます。
package opts

import (
	"fmt"
	"math"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/phyten/jaspace/internal/detect"
	"github.com/phyten/jaspace/internal/engine"
)

// MaxJobs は --jobs の上限です。
const MaxJobs = 64

// Outputs は --output に指定できる形式です。先頭が既定値です。
var Outputs = []string{"stylish", "table", "tsv", "json", "ndjson", "csv", "markdown"}

var boolLiterals = map[string]bool{
	"1": true, "true": true, "yes": true, "on": true,
	"0": false, "false": false, "no": false, "off": false,
}

// Defaults は CLI と Web の共通の初期値です。jobs は CPU 数（上限 MaxJobs）です。
func Defaults(repoDir string) engine.Options {
	return engine.Options{
		RepoDir: repoDir,
		Jobs:    min(max(runtime.NumCPU(), 1), MaxJobs),
	}
}

// webParam は /api/run のクエリ 1 つ分です。vals は同名パラメータをカンマで展開済みです。
type webParam struct {
	key   string
	apply func(o *engine.Options, vals []string) error
}

func listParam(set func(*engine.Options, []string)) func(*engine.Options, []string) error {
	return func(o *engine.Options, vals []string) error {
		set(o, vals)
		return nil
	}
}

// boolParam と intParam は最後の値を使う
func boolParam(key string, set func(*engine.Options, bool)) func(*engine.Options, []string) error {
	return func(o *engine.Options, vals []string) error {
		v, err := ParseBool(vals[len(vals)-1], key)
		if err != nil {
			return err
		}
		set(o, v)
		return nil
	}
}

func intParam(key string, lo, hi int, set func(*engine.Options, int)) func(*engine.Options, []string) error {
	return func(o *engine.Options, vals []string) error {
		n, err := ParseIntInRange(vals[len(vals)-1], key, lo, hi)
		if err != nil {
			return err
		}
		set(o, n)
		return nil
	}
}

// repo と cache はサーバー側の設定を優先するため受け付けない
var webParams = []webParam{
	{"path", listParam(func(o *engine.Options, v []string) { o.Paths = v })},
	{"exclude", listParam(func(o *engine.Options, v []string) { o.Excludes = v })},
	{"path_regex", listParam(func(o *engine.Options, v []string) { o.PathRegex = v })},
	{"formats", listParam(func(o *engine.Options, v []string) { o.Formats = v })},
	{"exclude_typical", boolParam("exclude_typical", func(o *engine.Options, v bool) { o.ExcludeTypical = v })},
	{"jobs", intParam("jobs", 1, MaxJobs, func(o *engine.Options, n int) { o.Jobs = n })},
	// 負数の検査は NormalizeAndValidate に任せる
	{"max_file_bytes", intParam("max_file_bytes", math.MinInt, math.MaxInt, func(o *engine.Options, n int) { o.MaxFileBytes = n })},
	{"git", boolParam("git", func(o *engine.Options, v bool) { o.UseGit = v })},
	{"with_link", boolParam("with_link", func(o *engine.Options, v bool) { o.WithLink = v })},
}

// ApplyWebQueryToOptions はクエリ文字列のうち認識できる値を def に重ねます。
// 範囲以外の検証は NormalizeAndValidate で別に行います。
func ApplyWebQueryToOptions(def engine.Options, q url.Values) (engine.Options, error) {
	out := def
	for _, p := range webParams {
		vals := SplitMulti(q[p.key])
		if len(vals) == 0 {
			continue
		}
		if err := p.apply(&out, vals); err != nil {
			return out, err
		}
	}
	return out, nil
}

// NormalizeAndValidate は値を正規化し、許される範囲に収まっているかを確かめます。
// formats は正規名に揃え、path_regex はコンパイル済みの値を PathRegexCompiled に入れます。
func NormalizeAndValidate(o *engine.Options) error {
	if o.Jobs < 1 || o.Jobs > MaxJobs {
		return fmt.Errorf("jobs must be between 1 and %d", MaxJobs)
	}
	if o.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0")
	}
	if strings.TrimSpace(o.RepoDir) == "" {
		o.RepoDir = "."
	}
	o.Paths = trimSlice(o.Paths)
	o.Excludes = trimSlice(o.Excludes)
	o.PathRegex = trimSlice(o.PathRegex)
	o.Formats = trimSlice(o.Formats)
	for _, f := range o.Formats {
		if !detect.KnownFormat(f) {
			return fmt.Errorf("invalid --formats: %s", f)
		}
	}
	if len(o.Formats) > 0 {
		o.Formats = detect.CanonicalFormats(o.Formats)
	}
	o.CachePath = strings.TrimSpace(o.CachePath)

	compiled, err := engine.CompilePathRegex(o.PathRegex)
	if err != nil {
		return fmt.Errorf("invalid --path-regex: %w", err)
	}
	o.PathRegexCompiled = compiled
	return nil
}

// ParseBool は 1/true/yes/on と 0/false/no/off を大文字小文字を問わず受け付けます。
func ParseBool(raw, key string) (bool, error) {
	if v, ok := boolLiterals[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange は raw を整数にして [lo, hi] に収まるかを確かめます。hi < lo なら上限は見ません。
func ParseIntInRange(raw, key string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	bounded := hi >= lo
	if n < lo || (bounded && n > hi) {
		if bounded {
			return 0, fmt.Errorf("%s must be between %d and %d", key, lo, hi)
		}
		return 0, fmt.Errorf("%s must be >= %d", key, lo)
	}
	return n, nil
}

// NormalizeOutput は --output の値を小文字にして検証します。空文字は stylish です。
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Outputs[0], nil
	}
	for _, o := range Outputs {
		if v == o {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid --output: %s (want one of %s)", value, strings.Join(Outputs, ", "))
}

// SplitMulti は繰り返し指定とカンマ区切りを平らな一覧にします。空要素は捨てます。
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		for _, piece := range strings.Split(raw, ",") {
			if part := strings.TrimSpace(piece); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func trimSlice(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := values[:0]
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
