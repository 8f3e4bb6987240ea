package main

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	engineopts "github.com/phyten/jaspace/internal/engine/opts"
	"github.com/phyten/jaspace/internal/output"
	"github.com/phyten/jaspace/internal/watch"
)

func newTestSession(t *testing.T, dir string) (*watchSession, *bytes.Buffer) {
	t.Helper()
	var out, errb bytes.Buffer
	a := &app{stdout: &out, stderr: &errb, logger: log.New(&errb, "", 0)}
	opts := engineopts.Defaults(dir)
	opts.Excludes = []string{"drafts/**"}
	if err := engineopts.NormalizeAndValidate(&opts); err != nil {
		t.Fatalf("オプションの検証に失敗しました: %v", err)
	}
	sel, err := output.ResolveFields("", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	plan := &lintPlan{opts: opts, out: output.Options{Format: "stylish", Fields: sel}}
	sess, err := newWatchSession(a, plan)
	if err != nil {
		t.Fatalf("セッションの作成に失敗しました: %v", err)
	}
	sess.now = func() time.Time { return time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC) }
	return sess, &out
}

func TestWatchSessionは変更ファイルだけを再検査する(t *testing.T) {
	dir := writeRepo(t, map[string]string{
		"docs/a.md":   "これはhello worldです\n",
		"docs/ok.md":  "これは hello world です\n",
		"other.md":    "これは testです\n",
		"drafts/x.md": "これは testです\n",
		"image.png":   "これは testです\n",
	})
	sess, out := newTestSession(t, dir)

	if err := sess.handle(context.Background(), watch.Event{Path: filepath.Join(dir, "docs", "a.md")}); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "[12:00:00] docs/a.md\n") {
		t.Fatalf("見出しが期待値と異なります: %q", got)
	}
	if !strings.Contains(got, "2 problems in 1 file") || strings.Contains(got, "other.md") {
		t.Fatalf("変更ファイルだけが検査されていません: %q", got)
	}

	out.Reset()
	if err := sess.handle(context.Background(), watch.Event{Path: filepath.Join(dir, "docs", "ok.md")}); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if out.String() != "[12:00:00] docs/ok.md\nno problems\n" {
		t.Fatalf("違反なしの表示が期待値と異なります: %q", out.String())
	}

	out.Reset()
	if err := sess.handle(context.Background(), watch.Event{Path: filepath.Join(dir, "docs", "gone.md"), Removed: true}); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if out.String() != "[12:00:00] docs/gone.md removed\n" {
		t.Fatalf("削除の表示が期待値と異なります: %q", out.String())
	}
}

func TestWatchSessionは対象外のパスを無視する(t *testing.T) {
	dir := writeRepo(t, map[string]string{"a.md": "x\n"})
	sess, out := newTestSession(t, dir)

	ignored := []string{
		filepath.Join(dir, "drafts", "x.md"),
		filepath.Join(dir, "image.png"),
		filepath.Join(dir, "node_modules", "p", "a.md"),
		filepath.Join(filepath.Dir(dir), "outside.md"),
		dir,
	}
	for _, p := range ignored {
		if rel, ok := sess.relevant(p); ok {
			t.Fatalf("%s は対象外のはずです (rel=%s)", p, rel)
		}
		if err := sess.handle(context.Background(), watch.Event{Path: p}); err != nil {
			t.Fatalf("handle failed: %v", err)
		}
	}
	if out.Len() != 0 {
		t.Fatalf("対象外のパスで出力されています: %q", out.String())
	}

	if rel, ok := sess.relevant(filepath.Join(dir, "docs", "README")); !ok || rel != "docs/README" {
		t.Fatalf("README は markdown として対象になるはずです: rel=%q ok=%v", rel, ok)
	}
}
