package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/phyten/jaspace/internal/cache"
	"github.com/phyten/jaspace/internal/detect"
	"github.com/phyten/jaspace/internal/document"
	"github.com/phyten/jaspace/internal/execx"
	"github.com/phyten/jaspace/internal/progress"
	"github.com/phyten/jaspace/internal/rule"
	"github.com/phyten/jaspace/internal/textutil"
)

// ルール実装を変えたら上げる。キャッシュのダイジェストに含まれる
const ruleRevision = rule.ID + "@1"

// Run は指定されたオプションに従ってファイルを集め、スペース規則の違反一覧を返します。
//
// 成功時には違反と補助情報を保持した Result を返し、
// ファイル単位で発生したエラー情報は Result.Errors に集約されます。
func Run(opts Options) (*Result, error) {
	return RunContext(context.Background(), opts)
}

// RunContext は Run の context 付き版です。
func RunContext(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.RepoDir == "" {
		opts.RepoDir = "."
	}
	if opts.Runner == nil {
		opts.Runner = execx.DefaultRunner()
	}
	for _, f := range opts.Formats {
		if !detect.KnownFormat(f) {
			return nil, fmt.Errorf("invalid --formats: %s", f)
		}
	}
	if len(opts.PathRegexCompiled) == 0 && len(opts.PathRegex) > 0 {
		rx, err := CompilePathRegex(opts.PathRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid --path-regex: %w", err)
		}
		opts.PathRegexCompiled = rx
	}
	obs := opts.ProgressObserver
	if obs == nil && opts.Progress {
		obs = progress.NewObserver(os.Stderr)
	}
	rep := progress.NewReporter(obs)
	rep.Stage(progress.StageCollect, 0)

	files, err := collectFiles(ctx, opts)
	if err != nil {
		return nil, err
	}
	rep.Stage(progress.StageLint, len(files))

	var store *cache.Store
	if opts.CachePath != "" {
		store, err = cache.Open(opts.CachePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
	}

	var errsMu sync.Mutex
	var errs []ItemError
	addErrs := func(e ...ItemError) {
		if len(e) == 0 {
			return
		}
		errsMu.Lock()
		errs = append(errs, e...)
		errsMu.Unlock()
	}

	var lk *linker
	if opts.WithLink {
		lk, err = newLinker(ctx, opts.Runner, opts.RepoDir)
		if err != nil {
			addErrs(newItemError("", 0, "link", err))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// worker pool
	type fileResult struct {
		items  []Item
		linted bool
		hit    bool
	}
	out := make([]fileResult, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range jobs {
			items, linted, hit, itemErrs := lintFile(opts, store, files[idx])
			addErrs(itemErrs...)
			if lk != nil {
				for i := range items {
					items[i].URL = lk.url(items[i].File, items[i].Line)
				}
			}
			out[idx] = fileResult{items: items, linted: linted, hit: hit}
			rep.Advance(1)
		}
	}

	nw := opts.Jobs
	if nw > 64 {
		nw = 64
	}
	wg.Add(nw)
	for i := 0; i < nw; i++ {
		go worker()
	}
feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	rep.Done()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{HasURL: lk != nil}
	for _, fr := range out {
		if fr.linted {
			res.Files++
		}
		if fr.hit {
			res.CacheHits++
		}
		res.Items = append(res.Items, fr.items...)
	}
	sortItems(res.Items)

	if store != nil && len(opts.Paths) == 0 && len(opts.PathRegexCompiled) == 0 {
		keep := make(map[string]struct{}, len(files))
		for _, f := range files {
			keep[f] = struct{}{}
		}
		if _, err := store.Prune(keep); err != nil {
			addErrs(newItemError("", 0, "cache", err))
		}
	}

	sort.Slice(errs, func(i, j int) bool {
		if errs[i].File == errs[j].File {
			if errs[i].Line == errs[j].Line {
				return errs[i].Stage < errs[j].Stage
			}
			return errs[i].Line < errs[j].Line
		}
		return errs[i].File < errs[j].File
	})

	res.Total = len(res.Items)
	res.ElapsedMS = msSince(start)
	res.Errors = errs
	res.ErrorCount = len(errs)
	return res, nil
}

// LintSource は 1 つのソースを format として解析し、違反を返します。
// 標準入力・Web・watch から呼ばれます。
func LintSource(name, format string, src []byte) ([]Item, error) {
	if format == "" {
		format = detect.FromPathAndContent(name, src).Name
	}
	if format == "" {
		format = document.FormatMarkdown
	}
	doc, err := document.Parse(detect.NormalizeFormatName(format), src)
	if err != nil {
		return nil, err
	}
	text := string(src)
	reports := rule.Lint(doc, text)
	items := make([]Item, 0, len(reports))
	for _, r := range reports {
		it := Item{
			File:    name,
			Offset:  r.Offset(),
			Kind:    string(r.Kind),
			Action:  string(r.Action),
			Rule:    rule.ID,
			Message: r.Message,
		}
		if r.Node != nil {
			it.Node = string(r.Node.Kind)
		}
		items = append(items, it)
	}
	locate(items, text)
	return items, nil
}

func lintFile(opts Options, store *cache.Store, rel string) (items []Item, linted, hit bool, errs []ItemError) {
	full := rel
	if !filepath.IsAbs(full) {
		full = filepath.Join(opts.RepoDir, rel)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, false, false, []ItemError{newItemError(rel, 0, "read", err)}
	}
	info := detect.FromPathAndContent(rel, data)
	if !detect.MatchesFormat(info, opts.Formats) {
		return nil, false, false, nil
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, false, false, nil
	}
	if !utf8.Valid(data) {
		return nil, false, false, []ItemError{newItemError(rel, 0, "read", errors.New("invalid UTF-8"))}
	}
	if opts.MaxFileBytes > 0 && len(data) > opts.MaxFileBytes {
		return nil, false, false, []ItemError{newItemError(rel, 0, "size", fmt.Errorf("%d bytes exceeds --max-file-bytes %d", len(data), opts.MaxFileBytes))}
	}

	var digest string
	if store != nil {
		digest = cache.Digest(ruleRevision+"|"+info.Name, data)
		payload, ok, err := store.Load(rel, digest)
		if err != nil {
			errs = append(errs, newItemError(rel, 0, "cache", err))
		}
		if ok {
			var cached []Item
			if err := json.Unmarshal(payload, &cached); err == nil {
				// URL は実行ごとに linker が付け直す
				for i := range cached {
					cached[i].URL = ""
				}
				locate(cached, string(data))
				return cached, true, true, errs
			}
		}
	}

	items, err = LintSource(rel, info.Name, data)
	if err != nil {
		return nil, false, false, append(errs, newItemError(rel, 0, "parse", err))
	}
	if store != nil {
		payload, err := json.Marshal(items)
		if err == nil {
			err = store.Save(rel, digest, payload)
		}
		if err != nil {
			errs = append(errs, newItemError(rel, 0, "cache", err))
		}
	}
	return items, true, false, errs
}

// locate は Offset から行・列と表示用の行テキストを埋めます。
func locate(items []Item, src string) {
	if len(items) == 0 {
		return
	}
	loc := textutil.NewLocator(src)
	for i := range items {
		pos := loc.Position(items[i].Offset)
		items[i].Line = pos.Line
		items[i].Column = pos.Column
		items[i].DisplayColumn = pos.DisplayColumn
		items[i].LineText = loc.Line(pos.Line)
	}
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].File != items[j].File {
			return items[i].File < items[j].File
		}
		return items[i].Offset < items[j].Offset
	})
}

func newItemError(file string, line int, stage string, err error) ItemError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return ItemError{File: file, Line: line, Stage: stage, Message: msg}
}

func msSince(t time.Time) int64 { return time.Since(t).Milliseconds() }
