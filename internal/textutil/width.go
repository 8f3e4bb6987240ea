package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// CSI と OSC（ハイパーリンク）のエスケープシーケンス
var ansiSeq = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI は ANSI エスケープシーケンスを取り除きます。
func StripANSI(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	return ansiSeq.ReplaceAllString(s, "")
}

// eachGrapheme は書記素クラスタごとに表示幅を添えて fn を呼びます。fn が false を返すと止めます。
// 幅は runewidth.DefaultCondition（East Asian Ambiguous の扱いを含む）に従います。
func eachGrapheme(s string, fn func(cluster string, width int) bool) {
	g := uniseg.NewGraphemes(StripANSI(s))
	for g.Next() {
		c := g.Str()
		if !fn(c, runewidth.StringWidth(c)) {
			return
		}
	}
}

// VisibleWidth は端末上の表示幅です。全角は 2、結合文字は前の文字と合わせて数えます。
func VisibleWidth(s string) int {
	w := 0
	eachGrapheme(s, func(_ string, cw int) bool {
		w += cw
		return true
	})
	return w
}

// Truncate は s を表示幅 w に収まるよう書記素単位で切り詰めます。
// 切り詰めたときは ellipsis を付けますが、ellipsis 自体が w に収まらなければ付けません。
func Truncate(s string, w int, ellipsis string) string {
	if w <= 0 {
		return ""
	}
	if VisibleWidth(s) <= w {
		return s
	}
	budget := w - VisibleWidth(ellipsis)
	if budget < 0 {
		budget, ellipsis = w, ""
	}
	var b strings.Builder
	used := 0
	eachGrapheme(s, func(c string, cw int) bool {
		if used+cw > budget {
			return false
		}
		b.WriteString(c)
		used += cw
		return true
	})
	return b.String() + ellipsis
}

// PadRight は表示幅が w になるまで右に空白を足します。
func PadRight(s string, w int) string {
	if pad := w - VisibleWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// PadLeft は表示幅が w になるまで左に空白を足します。
func PadLeft(s string, w int) string {
	if pad := w - VisibleWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}
