package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Observer は進捗の通知先です。
type Observer interface {
	Publish(Snapshot)
	Done(Snapshot)
}

// ShouldShow は --progress / --no-progress と出力先から進捗表示の有無を決めます。
// 指定がなければ stdout と stderr の両方が端末のときだけ表示します。
func ShouldShow(force, off bool, stdout, stderr io.Writer) bool {
	if off {
		return false
	}
	return force || (isTerminal(stdout) && isTerminal(stderr))
}

// NewObserver は w が端末なら 1 行を書き換える表示、そうでなければ key=value の行出力を返します。
func NewObserver(w io.Writer) Observer {
	if isTerminal(w) {
		return &ttyObserver{w: w}
	}
	return &lineObserver{w: w}
}

type ttyObserver struct {
	mu sync.Mutex
	w  io.Writer
}

func (o *ttyObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, "\r\033[K%s", renderTTY(s))
}

func (o *ttyObserver) Done(Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprint(o.w, "\r\033[K")
}

type lineObserver struct {
	mu sync.Mutex
	w  io.Writer
}

func (o *lineObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.w, renderLine(s))
}

func (o *lineObserver) Done(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, "progress stage=%s done=%d elapsed=%s\n", s.Stage, s.Done, s.Elapsed.Round(time.Millisecond))
}

func renderTTY(s Snapshot) string {
	rate, eta := "--/s", "--:--"
	if !s.Warmup {
		if s.Rate > 0 {
			rate = fmt.Sprintf("%.1f/s", s.Rate)
		}
		if s.ETA > 0 {
			eta = formatETA(s.ETA)
		}
	}
	return fmt.Sprintf("[jaspace] %s %3d%% %d/%d files %s ETA %s", s.Stage, s.Percent(), s.Done, s.Total, rate, eta)
}

func renderLine(s Snapshot) string {
	eta := -1.0
	if s.ETA > 0 {
		eta = s.ETA.Seconds()
	}
	return fmt.Sprintf("progress stage=%s total=%d done=%d rate=%.3f eta=%g warmup=%t", s.Stage, s.Total, s.Done, s.Rate, eta, s.Warmup)
}

// formatETA は HH:MM:SS。99 時間で頭打ちにします。
func formatETA(d time.Duration) string {
	sec := int(d.Round(time.Second).Seconds())
	if sec < 0 {
		sec = 0
	}
	h := min(sec/3600, 99)
	return fmt.Sprintf("%02d:%02d:%02d", h, sec%3600/60, sec%60)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f != nil && term.IsTerminal(int(f.Fd()))
}
