// Package watch は fsnotify でディレクトリを再帰的に監視し、
// 変更されたファイルを間引いてコールバックへ渡します。
// エディタは 1 回の保存で複数の書き込みイベントを出すため、同じパスへの連続イベントはまとめます。
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce は同一パスのイベントを 1 回に畳む間隔
const DefaultDebounce = 100 * time.Millisecond

var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
	"dist":         true,
	"build":        true,
	"target":       true,
}

var ignoreSuffixes = []string{".swp", ".swx", "~", ".tmp", ".DS_Store"}

// Event は間引き後の変更通知
type Event struct {
	Path    string // 絶対パス
	Removed bool   // 削除またはリネームで消えた
}

// Watcher は再帰的なファイル監視
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	filter   func(path string) bool
	errs     func(error)

	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
	timers  map[string]*time.Timer
	roots   []string
}

// Option は Watcher の設定
type Option func(*Watcher)

// WithDebounce は間引き間隔を変えます。0 以下なら間引きません。
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithFilter は通知対象のファイルを絞ります。false を返したパスは通知しません。
func WithFilter(fn func(path string) bool) Option {
	return func(w *Watcher) { w.filter = fn }
}

// WithErrorHandler は fsnotify のエラーを受け取ります。未指定なら捨てます。
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) { w.errs = fn }
}

// New は Watcher を作ります。
func New(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch は root 以下を監視し、変更ごとに onChange を呼びます。
// onChange は監視用 goroutine から呼ばれるので、重い処理は呼び出し側で制御してください。
func (w *Watcher) Watch(root string, onChange func(Event)) error {
	if onChange == nil {
		return errors.New("watch: onChange is nil")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	base := abs
	if !info.IsDir() {
		base = filepath.Dir(abs)
	}
	w.mu.Lock()
	w.roots = append(w.roots, base)
	w.mu.Unlock()
	if !info.IsDir() {
		if err := w.fw.Add(base); err != nil {
			return err
		}
		only := abs
		prev := w.filter
		w.filter = func(p string) bool {
			return p == only && (prev == nil || prev(p))
		}
	} else if err := w.addTree(abs); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.loop(onChange)
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && ignoreDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.fw.Add(p)
	})
}

func (w *Watcher) loop(onChange func(Event)) {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(ev, onChange)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			if w.errs != nil {
				w.errs(err)
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event, onChange func(Event)) {
	path := ev.Name
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !ignoreDirs[info.Name()] {
				_ = w.addTree(path)
			}
			return
		}
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	if w.ignored(path) {
		return
	}
	if w.filter != nil && !w.filter(path) {
		return
	}

	fire := func() {
		_, statErr := os.Stat(path)
		onChange(Event{Path: path, Removed: statErr != nil})
	}
	if w.debounce <= 0 {
		fire()
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			fire()
		}
	})
}

// Stop は監視を終了します。複数回呼んでも安全です。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fw.Close()
	w.wg.Wait()
	return err
}

// ignored は一時ファイルか、監視ルートより下に除外ディレクトリを含むパスかを返します。
// ルート自身とその祖先の名前は見ません。
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, suf := range ignoreSuffixes {
		if strings.HasSuffix(base, suf) {
			return true
		}
	}
	rel := path
	w.mu.Lock()
	root := longestRoot(w.roots, path)
	w.mu.Unlock()
	if root != "" {
		if r, err := filepath.Rel(root, path); err == nil {
			rel = r
		}
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if ignoreDirs[part] {
			return true
		}
	}
	return false
}

func longestRoot(roots []string, path string) string {
	best := ""
	for _, r := range roots {
		if path != r && !strings.HasPrefix(path, r+string(filepath.Separator)) {
			continue
		}
		if len(r) > len(best) {
			best = r
		}
	}
	return best
}
