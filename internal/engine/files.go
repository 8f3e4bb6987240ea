package engine

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phyten/jaspace/internal/execx"
)

// ディレクトリ走査で常に降りないディレクトリ
var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
}

// collectFiles は lint 候補のファイルを RepoDir からの相対パス（スラッシュ区切り）で返します。
func collectFiles(ctx context.Context, opts Options) ([]string, error) {
	var files []string
	var err error
	if opts.UseGit {
		files, err = gitListFiles(ctx, opts.Runner, opts.RepoDir, opts.Paths, opts.Excludes, opts.ExcludeTypical)
	} else {
		files, err = walkFiles(opts.RepoDir, opts.Paths, opts.Excludes, opts.ExcludeTypical)
	}
	if err != nil {
		return nil, err
	}
	files = filterPathsByRegex(files, opts.PathRegexCompiled)
	sort.Strings(files)
	out := files[:0]
	for i, f := range files {
		if i > 0 && f == files[i-1] {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func walkFiles(repo string, includes, excludes []string, typical bool) ([]string, error) {
	if repo == "" {
		repo = "."
	}
	if len(includes) == 0 {
		includes = []string{"."}
	}
	globs := excludeGlobs(excludes, typical)
	var out []string
	for _, inc := range includes {
		inc = strings.TrimSpace(inc)
		if inc == "" {
			continue
		}
		root := inc
		if !filepath.IsAbs(root) {
			root = filepath.Join(repo, inc)
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inc, err)
		}
		if !info.IsDir() {
			rel := relPath(repo, root)
			if !isExcluded(rel, globs) {
				out = append(out, rel)
			}
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel := relPath(repo, p)
			if d.IsDir() {
				if p == root {
					return nil
				}
				if _, skip := skipDirs[d.Name()]; skip {
					return filepath.SkipDir
				}
				if isExcluded(rel, globs) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if isExcluded(rel, globs) {
				return nil
			}
			out = append(out, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", inc, err)
		}
	}
	return out, nil
}

func relPath(repo, p string) string {
	rel, err := filepath.Rel(repo, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = p
	}
	return filepath.ToSlash(rel)
}

func gitListFiles(ctx context.Context, runner execx.Runner, repo string, includes, excludes []string, typical bool) ([]string, error) {
	args := []string{"-c", "core.quotePath=false", "ls-files", "-z", "--cached", "--others", "--exclude-standard", "--"}
	args = append(args, buildPathspecs(includes, excludes, typical)...)
	out, stderr, err := runner.Run(ctx, repo, "git", args...)
	if err != nil {
		if execx.IsNotFound(err) {
			return nil, fmt.Errorf("git ls-files: git command not found (use --no-git): %w", err)
		}
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return nil, fmt.Errorf("git ls-files: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	parts := bytes.Split(out, []byte{0})
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		paths = append(paths, filepath.ToSlash(string(p)))
	}
	return paths, nil
}

// Selects は rel（RepoDir からのスラッシュ区切り）が opts の
// Paths・Excludes・PathRegex の条件で lint 対象になるかを返します。
// 形式の判定は含みません。watch で変更ファイルを絞り込むのに使います。
func Selects(opts Options, rel string) bool {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	if rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	for _, seg := range strings.Split(rel, "/") {
		if _, skip := skipDirs[seg]; skip {
			return false
		}
	}
	if !underAnyPath(rel, opts.Paths) {
		return false
	}
	if isExcluded(rel, excludeGlobs(opts.Excludes, opts.ExcludeTypical)) {
		return false
	}
	rx := opts.PathRegexCompiled
	if len(rx) == 0 && len(opts.PathRegex) > 0 {
		compiled, err := CompilePathRegex(opts.PathRegex)
		if err != nil {
			return false
		}
		rx = compiled
	}
	return len(filterPathsByRegex([]string{rel}, rx)) > 0
}

func underAnyPath(rel string, paths []string) bool {
	scoped := false
	for _, raw := range paths {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		scoped = true
		p = strings.TrimSuffix(strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "./"), "/")
		if p == "." || rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return !scoped
}
