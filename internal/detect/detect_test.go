package detect

import "testing"

func TestNormalizeFormatNameAliases(t *testing.T) {
	cases := map[string]string{
		"MD":       "markdown",
		" gfm ":    "markdown",
		"Markdown": "markdown",
		"txt":      "text",
		"plain":    "text",
		"":         "",
	}
	for input, want := range cases {
		if got := NormalizeFormatName(input); got != want {
			t.Fatalf("NormalizeFormatName(%q)=%q want %q", input, got, want)
		}
	}
}

func TestCanonicalFormatsDedupes(t *testing.T) {
	in := []string{" md ", "TXT", "markdown", "", "plain"}
	got := CanonicalFormats(in)
	want := []string{"markdown", "text"}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value mismatch at %d: got=%q want=%q", i, got[i], want[i])
		}
	}
}

func TestFromPathAndContentByPath(t *testing.T) {
	cases := map[string]string{
		"docs/guide.md":       "markdown",
		"docs/GUIDE.MARKDOWN": "markdown",
		"README":              "markdown",
		"README.ja.md":        "markdown",
		"notes/memo.txt":      "text",
		"LICENSE":             "text",
		"main.go":             "",
		"Makefile":            "",
	}
	for path, want := range cases {
		if got := FromPathAndContent(path, nil).Name; got != want {
			t.Fatalf("FromPathAndContent(%q)=%q want %q", path, got, want)
		}
	}
}

func TestFromPathAndContentMarkdownHeuristic(t *testing.T) {
	if got := FromPathAndContent("NOTES", []byte("\n# メモ\n本文\n")).Name; got != "markdown" {
		t.Fatalf("expected markdown heading to be detected, got %q", got)
	}
	if got := FromPathAndContent("NOTES", []byte("---\ntitle: x\n---\n")).Name; got != "markdown" {
		t.Fatalf("expected front matter to be detected, got %q", got)
	}
	if got := FromPathAndContent("run", []byte("#!/bin/sh\n# comment\n")).Name; got != "" {
		t.Fatalf("expected shebang script to be skipped, got %q", got)
	}
	if got := FromPathAndContent("data.bin", []byte("# heading")).Name; got != "" {
		t.Fatalf("expected unknown extension to be skipped, got %q", got)
	}
}

func TestMatchesFormat(t *testing.T) {
	md := Info{Name: "markdown"}
	if !MatchesFormat(md, nil) {
		t.Fatalf("empty allow list should match any known format")
	}
	if !MatchesFormat(md, []string{"md"}) {
		t.Fatalf("alias should match")
	}
	if MatchesFormat(md, []string{"text"}) {
		t.Fatalf("text should not match markdown")
	}
	if MatchesFormat(Info{}, nil) {
		t.Fatalf("undetected files should never match")
	}
	if !KnownFormat("TXT") || KnownFormat("rst") || KnownFormat("") {
		t.Fatalf("KnownFormat mismatch")
	}
}
