package charclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFullWidth(t *testing.T) {
	cases := []struct {
		name string
		r    rune
		want bool
	}{
		{name: "ひらがな", r: 'あ', want: true},
		{name: "カタカナ", r: 'テ', want: true},
		{name: "長音記号", r: 'ー', want: true},
		{name: "漢字", r: '漢', want: true},
		{name: "句読点", r: '、', want: true},
		{name: "全角英字", r: 'Ａ', want: true},
		{name: "半角カナ", r: 'ｱ', want: true},
		{name: "和文スペース", r: '　', want: true},
		{name: "ASCII", r: 'a', want: false},
		{name: "数字", r: '1', want: false},
		{name: "空白", r: ' ', want: false},
		{name: "ハングル", r: '한', want: false},
		{name: "BMP外", r: '𠮷', want: false},
		{name: "ゼロ", r: 0, want: false},
		{name: "範囲下限の直前", r: 0x2FFF, want: false},
		{name: "範囲上限の直後", r: 0xFFF0, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsFullWidth(tc.r), "IsFullWidth(%q)", tc.r)
		})
	}
}

func TestIsSymbol(t *testing.T) {
	for _, r := range ".,;:!?()[]{}<>'\"`-=+*/\\|~@#$%^&_¥€£（）「」『』【】〈〉《》〔〕［］｛｝〝〟≪≫、。！？：；・…‥〜～※→←↑↓⇒⇐⇔●○◎◆◇■□▲△▼▽★☆×÷±°′″®™©§¶〒♪♫" {
		assert.True(t, IsSymbol(r), "IsSymbol(%q)", r)
	}
	for _, r := range "aZ09 あア漢ー—" {
		assert.False(t, IsSymbol(r), "IsSymbol(%q)", r)
	}
	assert.False(t, IsSymbol(0))
}

func TestIsSpacingTarget(t *testing.T) {
	assert.True(t, IsSpacingTarget('は'))
	assert.True(t, IsSpacingTarget('ー'))
	assert.False(t, IsSpacingTarget('、'), "全角でも記号なら対象外")
	assert.False(t, IsSpacingTarget('（'))
	assert.False(t, IsSpacingTarget('a'))
}

func TestClassify(t *testing.T) {
	cases := map[rune]Class{
		'あ': FullWidth,
		'、': Symbol,
		'(': Symbol,
		'x': HalfWidth,
		'7': HalfWidth,
		' ': Other,
		'é': Other,
	}
	for r, want := range cases {
		assert.Equal(t, want, Classify(r), "Classify(%q)", r)
	}
	assert.Equal(t, "full-width", FullWidth.String())
	assert.Equal(t, "other", Class(99).String())
}
