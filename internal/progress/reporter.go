package progress

import (
	"sort"
	"sync"
	"time"
)

// Stage は lint 実行の段階です。
type Stage string

const (
	StageCollect Stage = "collect"
	StageLint    Stage = "lint"
)

// Snapshot はある時点の進捗です。ETA はウォームアップ後にだけ埋まります。
type Snapshot struct {
	Stage   Stage         `json:"stage"`
	Total   int           `json:"total"`
	Done    int           `json:"done"`
	Rate    float64       `json:"rate_per_sec"`
	ETA     time.Duration `json:"eta"`
	Warmup  bool          `json:"warmup"`
	Elapsed time.Duration `json:"elapsed"`
}

// Remaining は残りのファイル数です。
func (s Snapshot) Remaining() int {
	if s.Done >= s.Total {
		return 0
	}
	return s.Total - s.Done
}

// Percent は 0〜100 に丸めた進捗率です。
func (s Snapshot) Percent() int {
	switch {
	case s.Total <= 0 && s.Done > 0:
		return 100
	case s.Total <= 0 || s.Done <= 0:
		return 0
	case s.Done >= s.Total:
		return 100
	}
	return s.Done * 100 / s.Total
}

const (
	notifyInterval = 250 * time.Millisecond
	warmupFiles    = 20
	warmupTime     = 2 * time.Second
	rateWindow     = 32
)

// Reporter はファイルの処理数から速度と ETA を見積もり、Observer に通知します。
// Publish は段階の切り替え時と notifyInterval ごと、最後の 1 件で呼ばれます。
// nil の Reporter に対する呼び出しは何もしません。
type Reporter struct {
	obs Observer
	now func() time.Time

	mu         sync.Mutex
	stage      Stage
	total      int
	done       int
	start      time.Time
	last       time.Time
	lastNotify time.Time
	rates      []float64
}

// NewReporter は obs が nil なら nil を返します。
func NewReporter(obs Observer) *Reporter {
	if obs == nil {
		return nil
	}
	return newReporter(obs, time.Now)
}

func newReporter(obs Observer, now func() time.Time) *Reporter {
	t := now()
	return &Reporter{obs: obs, now: now, start: t, last: t, lastNotify: t}
}

// Stage は段階を切り替えて処理数を数え直します。
func (r *Reporter) Stage(stage Stage, total int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	changed := r.stage != stage
	now := r.now()
	r.stage, r.total, r.done = stage, total, 0
	r.last, r.lastNotify = now, now
	r.rates = r.rates[:0]
	snap := r.snapshotLocked(now)
	r.mu.Unlock()
	if changed {
		r.obs.Publish(snap)
	}
}

func (r *Reporter) Advance(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.mu.Lock()
	now := r.now()
	if dt := now.Sub(r.last).Seconds(); dt > 0 {
		if len(r.rates) == rateWindow {
			r.rates = append(r.rates[:0], r.rates[1:]...)
		}
		r.rates = append(r.rates, float64(n)/dt)
		r.last = now
	}
	r.done += n
	snap := r.snapshotLocked(now)
	notify := snap.Remaining() == 0 || now.Sub(r.lastNotify) >= notifyInterval
	if notify {
		r.lastNotify = now
	}
	r.mu.Unlock()
	if notify {
		r.obs.Publish(snap)
	}
}

// Done は残りを完了扱いにして Observer.Done を呼びます。
func (r *Reporter) Done() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.done < r.total {
		r.done = r.total
	}
	snap := r.snapshotLocked(r.now())
	r.mu.Unlock()
	r.obs.Done(snap)
}

func (r *Reporter) snapshotLocked(now time.Time) Snapshot {
	s := Snapshot{
		Stage:   r.stage,
		Total:   r.total,
		Done:    r.done,
		Rate:    median(r.rates),
		Elapsed: now.Sub(r.start),
	}
	s.Warmup = r.done < warmupFiles || s.Elapsed < warmupTime
	if !s.Warmup && s.Rate > 0 {
		s.ETA = time.Duration(float64(s.Remaining()) / s.Rate * float64(time.Second))
	}
	return s
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
