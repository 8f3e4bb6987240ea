// Package sequence は文字列から半角英数字の連なり（シーケンス）を抽出します。
package sequence

import (
	"regexp"
	"strings"
)

// spaceClass は ECMAScript の \s と同じ空白文字集合です（U+3000 を含む）。
const spaceClass = `\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var (
	tokenRe = regexp.MustCompile(
		`[` + spaceClass + `]*[a-zA-Z0-9][a-zA-Z0-9` + spaceClass + `.:/?#&=_%+@-]*[a-zA-Z0-9][` + spaceClass + `]*` +
			`|[` + spaceClass + `]*[a-zA-Z0-9][` + spaceClass + `]*`)
	urlRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z+]*://`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Sequence は 1 件の半角シーケンスです。オフセットはすべてバイト単位です。
type Sequence struct {
	Text             string `json:"text"`
	Start            int    `json:"start"`
	End              int    `json:"end"`
	RawStart         int    `json:"raw_start"`
	RawEnd           int    `json:"raw_end"`
	IsPhrase         bool   `json:"is_phrase"`
	HasLeadingSpace  bool   `json:"has_leading_space"`
	HasTrailingSpace bool   `json:"has_trailing_space"`
}

// Extract は text を左から走査し、重ならないシーケンスを出現順に返します。
// 空白だけのマッチは捨てられます。
func Extract(text string) []Sequence {
	if text == "" {
		return nil
	}
	locs := tokenRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Sequence, 0, len(locs))
	for _, loc := range locs {
		raw := text[loc[0]:loc[1]]
		trimmed := strings.TrimFunc(raw, IsSpace)
		if trimmed == "" {
			continue
		}
		leading := len(raw) - len(strings.TrimLeftFunc(raw, IsSpace))
		trailing := len(raw) - len(strings.TrimRightFunc(raw, IsSpace))
		out = append(out, Sequence{
			Text:             trimmed,
			Start:            loc[0] + leading,
			End:              loc[1] - trailing,
			RawStart:         loc[0],
			RawEnd:           loc[1],
			IsPhrase:         IsPhrase(trimmed),
			HasLeadingSpace:  leading > 0,
			HasTrailingSpace: trailing > 0,
		})
	}
	return out
}

// IsPhrase は s が空白を含むか、URL またはメールアドレスであるかを返します。
func IsPhrase(s string) bool {
	return strings.IndexFunc(s, IsSpace) >= 0 || IsURL(s) || IsEmail(s)
}

// IsURL は s が scheme:// で始まるかを返します（git+https なども可）。
func IsURL(s string) bool {
	return urlRe.MatchString(s)
}

// IsEmail は s 全体がメールアドレスの形をしているかを返します。
func IsEmail(s string) bool {
	return emailRe.MatchString(s)
}

// IsSpace は r が ECMAScript の空白文字（行終端を含む）かを返します。
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}
