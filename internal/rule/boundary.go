package rule

import (
	"unicode/utf8"

	"github.com/phyten/jaspace/internal/charclass"
	"github.com/phyten/jaspace/internal/sequence"
)

// Side はシーケンスのどちら側の境界を調べるかを表します。
type Side int

const (
	Before Side = iota
	After
)

func (s Side) String() string {
	if s == After {
		return "after"
	}
	return "before"
}

// CheckBoundary は seq の片側の境界を判定し、違反があれば返します。
//
// 隣接文字が全角かつ記号でない場合だけ規則が働きます。フレーズ（空白・URL・メール）は
// スペースを必須とし、単語はスペースを禁止します。
func CheckBoundary(text string, seq sequence.Sequence, side Side) (Violation, bool) {
	switch side {
	case Before:
		if seq.RawStart <= 0 || seq.RawStart > len(text) {
			return Violation{}, false
		}
		adj, _ := utf8.DecodeLastRuneInString(text[:seq.RawStart])
		if !charclass.IsSpacingTarget(adj) {
			return Violation{}, false
		}
		if seq.IsPhrase && !seq.HasLeadingSpace {
			return Violation{
				Kind:    KindPhraseSpaceRequired,
				Action:  ActionInsertSpace,
				Message: phraseBeforeMessage(adj, seq.Text),
				Index:   seq.Start,
			}, true
		}
		if !seq.IsPhrase && seq.HasLeadingSpace {
			return Violation{
				Kind:    KindWordSpaceForbidden,
				Action:  ActionRemoveSpace,
				Message: wordBeforeMessage(adj, seq.Text),
				Index:   seq.RawStart,
			}, true
		}
	case After:
		if seq.RawEnd < 0 || seq.RawEnd >= len(text) {
			return Violation{}, false
		}
		adj, _ := utf8.DecodeRuneInString(text[seq.RawEnd:])
		if !charclass.IsSpacingTarget(adj) {
			return Violation{}, false
		}
		if seq.IsPhrase && !seq.HasTrailingSpace {
			return Violation{
				Kind:    KindPhraseSpaceRequired,
				Action:  ActionInsertSpace,
				Message: phraseAfterMessage(seq.Text, adj),
				Index:   seq.End,
			}, true
		}
		if !seq.IsPhrase && seq.HasTrailingSpace {
			return Violation{
				Kind:    KindWordSpaceForbidden,
				Action:  ActionRemoveSpace,
				Message: wordAfterMessage(seq.Text, adj),
				Index:   seq.End,
			}, true
		}
	}
	return Violation{}, false
}

// CheckText は text 内のすべてのシーケンスについて前後の境界を判定します。
// 直前が記号のシーケンスは両側とも判定しません。結果は出現順です。
func CheckText(text string) []Violation {
	var out []Violation
	for _, seq := range sequence.Extract(text) {
		if seq.RawStart > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:seq.RawStart])
			if charclass.IsSymbol(prev) {
				continue
			}
		}
		if v, ok := CheckBoundary(text, seq, Before); ok {
			out = append(out, v)
		}
		if v, ok := CheckBoundary(text, seq, After); ok {
			out = append(out, v)
		}
	}
	return out
}
