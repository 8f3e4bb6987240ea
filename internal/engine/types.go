package engine

import (
	"regexp"

	"github.com/phyten/jaspace/internal/execx"
	"github.com/phyten/jaspace/internal/progress"
)

// Item は 1 件のスペース規則違反を表す
type Item struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
	Kind    string `json:"kind"`
	Action  string `json:"action"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Node    string `json:"node,omitempty"`
	URL     string `json:"url,omitempty"`

	// 表示用。キャッシュには保存せず、読み込み時に再計算する
	DisplayColumn int    `json:"-"`
	LineText      string `json:"-"`
}

// ItemError は 1 ファイルの処理に失敗した際の情報を表す
type ItemError struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Options は実行オプション
type Options struct {
	Paths             []string
	Excludes          []string
	ExcludeTypical    bool
	PathRegex         []string
	PathRegexCompiled []*regexp.Regexp
	Formats           []string
	Jobs              int
	MaxFileBytes      int
	UseGit            bool
	RepoDir           string
	CachePath         string // 空ならキャッシュしない
	WithLink          bool
	Progress          bool
	ProgressObserver  progress.Observer `json:"-"`
	Runner            execx.Runner      `json:"-"`
}

// Result は出力
type Result struct {
	Items      []Item      `json:"items"`
	Files      int         `json:"files"`
	HasURL     bool        `json:"has_url"`
	Total      int         `json:"total"`
	CacheHits  int         `json:"cache_hits"`
	ElapsedMS  int64       `json:"elapsed_ms"`
	Errors     []ItemError `json:"errors,omitempty"`
	ErrorCount int         `json:"error_count"`
}
