package detect

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
)

type Info struct {
	Name string
}

func FromPathAndContent(p string, data []byte) Info {
	name := detectByPath(p)
	if name != "" {
		return Info{Name: name}
	}
	if filepath.Ext(p) == "" && looksLikeMarkdown(data) {
		return Info{Name: "markdown"}
	}
	return Info{Name: ""}
}

func detectByPath(p string) string {
	base := filepath.Base(p)
	lowerBase := strings.ToLower(base)
	if format, ok := basenameFormats[lowerBase]; ok {
		return format
	}
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return ""
	}
	if format, ok := extensionFormats[ext]; ok {
		return format
	}
	stem := strings.TrimSuffix(lowerBase, ext)
	if format, ok := basenameFormats[stem]; ok {
		return format
	}
	// README.ja.md のような多重拡張子
	if format, ok := extensionFormats[filepath.Ext(stem)]; ok {
		return format
	}
	return ""
}

// looksLikeMarkdown は拡張子のないファイルの先頭数行に Markdown らしい記法があるかを見ます。
func looksLikeMarkdown(data []byte) bool {
	if len(data) == 0 || bytes.HasPrefix(data, []byte("#!")) {
		return false
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	lines := 0
	for sc.Scan() && lines < 20 {
		lines++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == "---" && lines == 1:
			return true
		case strings.HasPrefix(line, "# "), strings.HasPrefix(line, "## "), strings.HasPrefix(line, "```"):
			return true
		}
	}
	return false
}

func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if canon, ok := formatAliases[n]; ok {
		return canon
	}
	return n
}

func MatchesFormat(info Info, allow []string) bool {
	detected := NormalizeFormatName(info.Name)
	if detected == "" {
		return false
	}
	if len(allow) == 0 {
		return true
	}
	for _, raw := range allow {
		if NormalizeFormatName(raw) == detected {
			return true
		}
	}
	return false
}

func KnownFormat(name string) bool {
	if name == "" {
		return false
	}
	_, ok := knownFormats[NormalizeFormatName(name)]
	return ok
}

func CanonicalFormats(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		norm := NormalizeFormatName(raw)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

var basenameFormats = map[string]string{
	"readme":       "markdown",
	"changelog":    "markdown",
	"contributing": "markdown",
	"license":      "text",
	"authors":      "text",
	"notice":       "text",
}

var extensionFormats = map[string]string{
	".md":       "markdown",
	".markdown": "markdown",
	".mdown":    "markdown",
	".mkd":      "markdown",
	".mkdn":     "markdown",
	".mdx":      "markdown",
	".txt":      "text",
	".text":     "text",
}

var formatAliases = map[string]string{
	"md":    "markdown",
	"mdx":   "markdown",
	"gfm":   "markdown",
	"txt":   "text",
	"plain": "text",
}

var knownFormats = map[string]struct{}{
	"markdown": {},
	"text":     {},
}
