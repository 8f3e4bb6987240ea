// Package document はソースを node ツリーに変換します。
//
// Markdown は goldmark で解析し、textlint の mdast に近い形（改行をまたぐ Str、
// 角括弧込みのリンク範囲）に整えます。プレーンテキストは空行区切りの段落です。
package document

import (
	"fmt"
	"strings"

	"github.com/phyten/jaspace/internal/node"
)

const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Formats は Parse が受け付ける形式の一覧です。
func Formats() []string {
	return []string{FormatMarkdown, FormatText}
}

// Parse は format に従って src を解析します。
func Parse(format string, src []byte) (*node.Node, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, "md":
		return ParseMarkdown(src), nil
	case FormatText, "txt", "plain":
		return ParseText(src), nil
	default:
		return nil, fmt.Errorf("unknown document format: %q", format)
	}
}
