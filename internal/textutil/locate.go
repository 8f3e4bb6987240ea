package textutil

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Position は 1 始まりの行・列です。Column はルーン数、DisplayColumn は端末上の表示幅で数えます。
type Position struct {
	Line          int `json:"line"`
	Column        int `json:"column"`
	DisplayColumn int `json:"-"`
}

// Locator はバイトオフセットを行・列に変換します。
type Locator struct {
	src        string
	lineStarts []int
}

func NewLocator(src string) *Locator {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Locator{src: src, lineStarts: starts}
}

// Position は offset の位置を返します。範囲外は先頭・末尾に丸めます。
func (l *Locator) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(l.src) {
		offset = len(l.src)
	}
	idx := sort.Search(len(l.lineStarts), func(i int) bool { return l.lineStarts[i] > offset }) - 1
	start := l.lineStarts[idx]
	prefix := l.src[start:offset]
	return Position{
		Line:          idx + 1,
		Column:        utf8.RuneCountInString(prefix) + 1,
		DisplayColumn: VisibleWidth(prefix) + 1,
	}
}

// Line は 1 始まりの行番号 n の内容を改行なしで返します。
func (l *Locator) Line(n int) string {
	if n < 1 || n > len(l.lineStarts) {
		return ""
	}
	start := l.lineStarts[n-1]
	end := len(l.src)
	if n < len(l.lineStarts) {
		end = l.lineStarts[n] - 1
	}
	return strings.TrimSuffix(l.src[start:end], "\r")
}

// LineCount は行数を返します。末尾の改行の後も 1 行と数えます。
func (l *Locator) LineCount() int {
	return len(l.lineStarts)
}
