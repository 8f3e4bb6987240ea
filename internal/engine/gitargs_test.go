package engine

import (
	"path/filepath"
	"regexp"
	"testing"
)

func TestBuildPathspecs_DefaultsToDot(t *testing.T) {
	t.Parallel()

	got := buildPathspecs(nil, nil, false)
	want := []string{"."}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("unexpected result: %#v", got)
	}
}

func TestBuildPathspecsIncludesAndExcludes(t *testing.T) {
	t.Parallel()

	includes := []string{"docs", " notes ", "windows\\path"}
	excludes := []string{"vendor/**", ":(exclude)third_party/**", ":!build/**"}

	got := buildPathspecs(includes, excludes, true)

	expectedHead := []string{"docs", "notes", filepath.ToSlash("windows\\path")}
	for i, want := range expectedHead {
		if i >= len(got) || got[i] != filepath.ToSlash(want) {
			t.Fatalf("include %d mismatch: got=%v want=%v", i, got, expectedHead)
		}
	}

	// typical excludes should follow includes
	typical := typicalExcludePatterns
	start := len(expectedHead)
	if len(got) < start+len(typical) {
		t.Fatalf("expected typical excludes to be appended: %v", got)
	}
	for i, want := range typical {
		if got[start+i] != want {
			t.Fatalf("typical exclude mismatch at %d: got=%q want=%q", start+i, got[start+i], want)
		}
	}

	tail := got[start+len(typical):]
	expectedTail := []string{":(glob,exclude)vendor/**", ":(exclude)third_party/**", ":!build/**"}
	if len(tail) != len(expectedTail) {
		t.Fatalf("exclude length mismatch: got=%v want=%v", tail, expectedTail)
	}
	for i, want := range expectedTail {
		if tail[i] != want {
			t.Fatalf("exclude %d mismatch: got=%q want=%q", i, tail[i], want)
		}
	}
}

func TestExcludeGlobsStripsPathspecMagic(t *testing.T) {
	t.Parallel()

	got := excludeGlobs([]string{":!build/**", ":(exclude)tmp/*.md", "./drafts/**", " "}, false)
	want := []string{"build/**", "tmp/*.md", "drafts/**"}
	if len(got) != len(want) {
		t.Fatalf("unexpected globs: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("glob %d mismatch: got=%q want=%q", i, got[i], want[i])
		}
	}

	withTypical := excludeGlobs(nil, true)
	if len(withTypical) != len(typicalExcludePatterns) || withTypical[0] != "vendor/**" {
		t.Fatalf("typical globs not normalized: %v", withTypical)
	}
}

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	cases := []struct {
		glob string
		rel  string
		want bool
	}{
		{"vendor/**", "vendor", true},
		{"vendor/**", "vendor/a/b.md", true},
		{"vendor/**", "docs/vendor/a.md", false},
		{"**/draft.md", "draft.md", true},
		{"**/draft.md", "docs/x/draft.md", true},
		{"**/draft.md", "docs/x/final.md", false},
		{"*.min.*", "assets/app.min.md", true},
		{"docs/*.md", "docs/a.md", true},
		{"docs/*.md", "docs/sub/a.md", false},
		{"*.txt", "notes/memo.txt", true},
	}
	for _, tc := range cases {
		if got := matchGlob(tc.glob, tc.rel); got != tc.want {
			t.Fatalf("matchGlob(%q, %q) = %v, want %v", tc.glob, tc.rel, got, tc.want)
		}
	}
}

func TestCompilePathRegexTrimsAndValidates(t *testing.T) {
	t.Parallel()

	rx, err := CompilePathRegex([]string{"  ", "^docs/", "(guide|notes)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rx) != 2 {
		t.Fatalf("expected 2 regexps, got %d", len(rx))
	}

	if _, err := CompilePathRegex([]string{"["}); err == nil {
		t.Fatal("expected compile error for invalid regexp")
	}
}

func TestFilterPathsByRegex(t *testing.T) {
	t.Parallel()

	paths := []string{"docs/guide.md", "notes/memo.txt", "README.md"}
	rx := []*regexp.Regexp{regexp.MustCompile(`^docs/`), regexp.MustCompile(`\.txt$`)}

	got := filterPathsByRegex(append([]string(nil), paths...), rx)
	want := []string{"docs/guide.md", "notes/memo.txt"}
	if len(got) != len(want) {
		t.Fatalf("expected %d paths, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path %d mismatch: got=%q want=%q", i, got[i], want[i])
		}
	}

	all := filterPathsByRegex(paths, nil)
	if len(all) != len(paths) {
		t.Fatalf("expected original slice when no regex: %d vs %d", len(all), len(paths))
	}
}

func TestSelects(t *testing.T) {
	opts := Options{
		Paths:          []string{"docs", "./notes/"},
		Excludes:       []string{"docs/drafts/**"},
		ExcludeTypical: true,
		PathRegex:      []string{`\.(md|txt)$`},
	}
	cases := []struct {
		rel  string
		want bool
	}{
		{"docs/a.md", true},
		{"./docs/a.md", true},
		{"notes/b.txt", true},
		{"docs/drafts/x.md", false},
		{"docs/dist/x.md", true},
		{"dist/x.md", false},
		{"src/c.md", false},
		{"docs/image.png", false},
		{"docs/node_modules/x.md", false},
		{"../outside.md", false},
	}
	for _, tc := range cases {
		if got := Selects(opts, tc.rel); got != tc.want {
			t.Fatalf("Selects(%q)=%v want %v", tc.rel, got, tc.want)
		}
	}

	if !Selects(Options{}, "any/file.md") {
		t.Fatal("empty options should select everything")
	}
	if Selects(Options{PathRegex: []string{"["}}, "a.md") {
		t.Fatal("invalid regex should not select")
	}
}
