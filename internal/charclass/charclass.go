// Package charclass は全角・半角・記号の文字種判定を提供します。
//
// IsFullWidth と IsSymbol は独立した述語で、「、」のように両方に該当する文字も
// あります。スペース規則は常に「全角かつ記号ではない」ことを確認してから適用します。
package charclass

// Class は 1 文字の文字種です。
type Class int

const (
	Other Class = iota
	FullWidth
	HalfWidth
	Symbol
)

func (c Class) String() string {
	switch c {
	case FullWidth:
		return "full-width"
	case HalfWidth:
		return "half-width"
	case Symbol:
		return "symbol"
	default:
		return "other"
	}
}

type runeRange struct {
	lo, hi rune
}

// 全角として扱うコードポイント範囲（両端を含む）。
var fullWidthRanges = []runeRange{
	{0x3000, 0x303F}, // CJK 記号・句読点
	{0x3040, 0x309F}, // ひらがな
	{0x30A0, 0x30FF}, // カタカナ
	{0x4E00, 0x9FFF}, // CJK 統合漢字
	{0xFF00, 0xFFEF}, // 全角英数・半角カナ
}

const symbolChars = "" +
	".,;:!?()[]{}<>'\"`-=+*/\\|~@#$%^&_" +
	"¥$€£" +
	"（）「」『』【】〈〉《》〔〕［］｛｝〝〟≪≫" +
	"、。！？：；・…‥〜～※" +
	"→←↑↓⇒⇐⇔" +
	"●○◎◆◇■□▲△▼▽★☆" +
	"×÷±" +
	"°′″®™©§¶〒♪♫"

var symbols = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(symbolChars))
	for _, r := range symbolChars {
		m[r] = struct{}{}
	}
	return m
}()

// IsFullWidth は r が全角の範囲に含まれるかを返します。BMP 外の文字は対象外です。
func IsFullWidth(r rune) bool {
	if r <= 0 {
		return false
	}
	for _, rr := range fullWidthRanges {
		if r >= rr.lo && r <= rr.hi {
			return true
		}
	}
	return false
}

// IsSymbol は r が記号・約物として扱われるかを返します。
func IsSymbol(r rune) bool {
	if r <= 0 {
		return false
	}
	_, ok := symbols[r]
	return ok
}

// IsHalfWidth は r が半角英数字 [A-Za-z0-9] かを返します。
func IsHalfWidth(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsSpacingTarget は r が境界規則の対象になる文字（全角かつ記号ではない）かを返します。
func IsSpacingTarget(r rune) bool {
	return IsFullWidth(r) && !IsSymbol(r)
}

// Classify は r の代表的な文字種を返します。記号は全角判定より優先されます。
func Classify(r rune) Class {
	switch {
	case IsSymbol(r):
		return Symbol
	case IsFullWidth(r):
		return FullWidth
	case IsHalfWidth(r):
		return HalfWidth
	default:
		return Other
	}
}
