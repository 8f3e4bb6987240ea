package rule

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/phyten/jaspace/internal/charclass"
)

// LinkType は LinkExtraction が認識した内容の種類です。
type LinkType string

const (
	LinkURL     LinkType = "url"
	LinkEmail   LinkType = "email"
	LinkUnknown LinkType = "unknown"
)

var (
	linkURLRe   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z+]*://[a-zA-Z0-9\-._~:/?#\[\]@!'()*+,;=%]+`)
	linkEmailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// LinkExtraction はリンクのソースを URL/メール本体と、パーサーが取り込んでしまった後続文字に分けたものです。
type LinkExtraction struct {
	Content  string   `json:"content"`
	Trailing string   `json:"trailing"`
	Type     LinkType `json:"type"`
}

// ExtractURLOrEmail は text 先頭の URL、次にメールアドレスを取り出します。
// どちらにも一致しなければ text 全体を Content とし、Type は LinkUnknown です。
func ExtractURLOrEmail(text string) LinkExtraction {
	if m := linkURLRe.FindString(text); m != "" {
		return LinkExtraction{Content: m, Trailing: text[len(m):], Type: LinkURL}
	}
	if m := linkEmailRe.FindString(text); m != "" {
		return LinkExtraction{Content: m, Trailing: text[len(m):], Type: LinkEmail}
	}
	return LinkExtraction{Content: text, Type: LinkUnknown}
}

// IsAutoLink は source が [label](target) 形式ではなく、裸の URL/メールから作られたリンクかを返します。
func IsAutoLink(source string) bool {
	return !strings.HasPrefix(source, "[")
}

// Anchor は違反をどのノードに対して報告するかを表します。
type Anchor int

const (
	AnchorParent Anchor = iota
	AnchorLink
)

// LinkInput はリンクノード 1 件の判定に必要な情報です。Start/End は親ソース内のオフセットです。
type LinkInput struct {
	Source       string
	ParentSource string
	Start        int
	End          int
}

// LinkViolation は報告先つきの違反です。
type LinkViolation struct {
	Violation
	Anchor Anchor
}

// CheckLink はオートリンクの外側の境界を判定します。明示的な Markdown リンクは対象外です。
func CheckLink(in LinkInput) []LinkViolation {
	if in.Source == "" || !IsAutoLink(in.Source) {
		return nil
	}
	if in.Start < 0 || in.Start > len(in.ParentSource) || in.End < in.Start {
		return nil
	}
	ext := ExtractURLOrEmail(in.Source)
	var out []LinkViolation

	if in.Start > 0 {
		before, _ := utf8.DecodeLastRuneInString(in.ParentSource[:in.Start])
		if charclass.IsSpacingTarget(before) {
			out = append(out, LinkViolation{
				Violation: Violation{
					Kind:    KindLinkSpaceRequired,
					Action:  ActionInsertSpace,
					Message: linkBeforeMessage(ext.Type),
					Index:   in.Start,
				},
				Anchor: AnchorParent,
			})
		}
	}

	if ext.Trailing != "" {
		// パーサーが後続の全角文字までリンクに含めた場合
		first, _ := utf8.DecodeRuneInString(ext.Trailing)
		if charclass.IsSpacingTarget(first) {
			out = append(out, LinkViolation{
				Violation: Violation{
					Kind:    KindLinkSpaceRequired,
					Action:  ActionInsertSpace,
					Message: linkAfterMessage(ext.Type),
					Index:   len(ext.Content),
				},
				Anchor: AnchorLink,
			})
		}
	} else if in.End < len(in.ParentSource) {
		after, _ := utf8.DecodeRuneInString(in.ParentSource[in.End:])
		if charclass.IsSpacingTarget(after) {
			out = append(out, LinkViolation{
				Violation: Violation{
					Kind:    KindLinkSpaceRequired,
					Action:  ActionInsertSpace,
					Message: linkAfterMessage(ext.Type),
					Index:   in.End,
				},
				Anchor: AnchorParent,
			})
		}
	}
	return out
}
