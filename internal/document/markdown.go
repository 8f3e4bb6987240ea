package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/phyten/jaspace/internal/node"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(
		extension.Linkify,
		extension.Strikethrough,
		extension.Table,
		extension.TaskList,
	))
}

// ParseMarkdown は src を GFM として解析し、node ツリーを返します。
// ルートの Document は常に src 全体を覆います。
func ParseMarkdown(src []byte) *node.Node {
	root := newMarkdown().Parser().Parse(text.NewReader(src))
	c := &converter{src: src}
	doc := c.convert(root, 0)
	doc.Range = node.Range{Start: 0, End: len(src)}
	return doc
}

type converter struct {
	src []byte
}

func (c *converter) convert(gn ast.Node, cursor int) *node.Node {
	if cursor > len(c.src) {
		cursor = len(c.src)
	}
	kind := kindOf(gn)
	n := &node.Node{Kind: kind, Range: node.Range{Start: cursor, End: cursor}}

	switch g := gn.(type) {
	case *ast.Text:
		n.Range = node.Range{Start: g.Segment.Start, End: g.Segment.Stop}
		return n
	case *ast.AutoLink:
		n.Range = c.autoLinkRange(g, cursor)
		return n
	case *ast.CodeSpan:
		n.Range = c.codeSpanRange(g, cursor)
		return n
	case *ast.RawHTML:
		n.Range = segmentsRange(g.Segments, cursor)
		return n
	}

	hasRange := false
	if gn.Type() != ast.TypeInline {
		if lines := gn.Lines(); lines != nil && lines.Len() > 0 {
			n.Range = segmentsRange(lines, cursor)
			hasRange = true
		}
	}
	if kind == node.CodeBlock || kind == node.HTML {
		return n
	}

	c.appendChildren(gn, n, cursor)
	childEnd := cursor
	for _, ch := range n.Children {
		if ch.Range.End > childEnd {
			childEnd = ch.Range.End
		}
		if ch.Range.Len() == 0 {
			continue
		}
		if !hasRange {
			n.Range = ch.Range
			hasRange = true
			continue
		}
		if ch.Range.Start < n.Range.Start {
			n.Range.Start = ch.Range.Start
		}
		if ch.Range.End > n.Range.End {
			n.Range.End = ch.Range.End
		}
	}

	switch kind {
	case node.Header:
		if hasRange {
			start := n.Range.Start
			for start > cursor && c.src[start-1] != '\n' {
				start--
			}
			n.Range.Start = start
		}
	case node.Emphasis, node.Strong:
		level := 1
		if e, ok := gn.(*ast.Emphasis); ok {
			level = e.Level
		}
		n.Range = c.expandDelims(n.Range, "*_", level)
	case node.Delete:
		n.Range = c.expandDelims(n.Range, "~", 2)
	case node.Link, node.Image:
		n.Range = c.linkRange(n, hasRange, cursor, childEnd)
	}
	return n
}

// appendChildren は gn の子を変換して parent に追加します。改行やエスケープだけを
// 挟んで隣り合う Text は 1 つの Str にまとめます。
func (c *converter) appendChildren(gn ast.Node, parent *node.Node, cursor int) {
	var prevText *ast.Text
	var prevStr *node.Node
	for child := gn.FirstChild(); child != nil; child = child.NextSibling() {
		t, isText := child.(*ast.Text)
		if isText && prevStr != nil && c.mergeable(prevText, prevStr.Range.End, t.Segment.Start) {
			prevStr.Range.End = t.Segment.Stop
			prevText = t
			cursor = prevStr.Range.End
			if t.HardLineBreak() {
				parent.Append(node.New(node.Break, cursor, cursor))
				prevStr, prevText = nil, nil
			}
			continue
		}

		cn := c.convert(child, cursor)
		parent.Append(cn)
		if cn.Range.End > cursor {
			cursor = cn.Range.End
		}
		prevStr, prevText = nil, nil
		if isText {
			if t.HardLineBreak() {
				parent.Append(node.New(node.Break, cursor, cursor))
				continue
			}
			prevStr, prevText = cn, t
		}
	}
}

func (c *converter) mergeable(prev *ast.Text, end, start int) bool {
	if prev == nil || prev.HardLineBreak() || start < end || start > len(c.src) {
		return false
	}
	if prev.SoftLineBreak() {
		return true
	}
	for _, b := range c.src[end:start] {
		switch b {
		case ' ', '\t', '\r', '\n', '\\':
		default:
			return false
		}
	}
	return true
}

func (c *converter) autoLinkRange(g *ast.AutoLink, cursor int) node.Range {
	label := g.Label(c.src)
	if len(label) == 0 {
		return node.Range{Start: cursor, End: cursor}
	}
	i := bytes.Index(c.src[cursor:], label)
	if i < 0 {
		return node.Range{Start: cursor, End: cursor}
	}
	start := cursor + i
	end := start + len(label)
	if start > 0 && c.src[start-1] == '<' && end < len(c.src) && c.src[end] == '>' {
		start--
		end++
	}
	return node.Range{Start: start, End: end}
}

func (c *converter) codeSpanRange(g *ast.CodeSpan, cursor int) node.Range {
	r := node.Range{Start: cursor, End: cursor}
	found := false
	for ch := g.FirstChild(); ch != nil; ch = ch.NextSibling() {
		t, ok := ch.(*ast.Text)
		if !ok {
			continue
		}
		if !found {
			r = node.Range{Start: t.Segment.Start, End: t.Segment.Stop}
			found = true
			continue
		}
		if t.Segment.Stop > r.End {
			r.End = t.Segment.Stop
		}
	}
	if !found {
		if i := bytes.IndexByte(c.src[cursor:], '`'); i >= 0 {
			r = node.Range{Start: cursor + i, End: cursor + i}
		}
	}

	s := r.Start
	for s > 0 && c.src[s-1] == ' ' {
		s--
	}
	if s > 0 && c.src[s-1] == '`' {
		for s > 0 && c.src[s-1] == '`' {
			s--
		}
		r.Start = s
	}
	e := r.End
	for e < len(c.src) && c.src[e] == ' ' {
		e++
	}
	if e < len(c.src) && c.src[e] == '`' {
		for e < len(c.src) && c.src[e] == '`' {
			e++
		}
		r.End = e
	}
	return r
}

func (c *converter) expandDelims(r node.Range, delims string, limit int) node.Range {
	for i := 0; i < limit && r.Start > 0 && strings.IndexByte(delims, c.src[r.Start-1]) >= 0; i++ {
		r.Start--
	}
	for i := 0; i < limit && r.End < len(c.src) && strings.IndexByte(delims, c.src[r.End]) >= 0; i++ {
		r.End++
	}
	return r
}

// linkRange は明示リンク・画像の範囲を "[" (画像は "![") から閉じ括弧までに広げます。
func (c *converter) linkRange(n *node.Node, hasChildren bool, cursor, childEnd int) node.Range {
	start := n.Range.Start
	from := childEnd
	if hasChildren {
		if start > 0 && c.src[start-1] == '[' {
			start--
		}
	} else {
		if i := bytes.IndexByte(c.src[cursor:], '['); i >= 0 {
			start = cursor + i
		}
		from = start + 1
	}
	if n.Kind == node.Image && start > 0 && c.src[start-1] == '!' {
		start--
	}
	if from > len(c.src) {
		from = len(c.src)
	}
	return node.Range{Start: start, End: linkTail(c.src, from)}
}

// linkTail は from 以降の "]" と、続く "(...)" または "[...]" の終端を返します。
func linkTail(src []byte, from int) int {
	i := bytes.IndexByte(src[from:], ']')
	if i < 0 {
		return from
	}
	end := from + i + 1
	if end >= len(src) {
		return end
	}
	switch src[end] {
	case '(':
		depth := 0
		for j := end; j < len(src); j++ {
			switch src[j] {
			case '\\':
				j++
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return j + 1
				}
			}
		}
	case '[':
		if k := bytes.IndexByte(src[end:], ']'); k >= 0 {
			return end + k + 1
		}
	}
	return end
}

func segmentsRange(segs *text.Segments, cursor int) node.Range {
	if segs == nil || segs.Len() == 0 {
		return node.Range{Start: cursor, End: cursor}
	}
	return node.Range{Start: segs.At(0).Start, End: segs.At(segs.Len() - 1).Stop}
}

func kindOf(gn ast.Node) node.Kind {
	switch gn.Kind() {
	case ast.KindDocument:
		return node.Document
	case ast.KindParagraph, ast.KindTextBlock:
		return node.Paragraph
	case ast.KindHeading:
		return node.Header
	case ast.KindBlockquote:
		return node.BlockQuote
	case ast.KindList:
		return node.List
	case ast.KindListItem:
		return node.ListItem
	case ast.KindCodeBlock, ast.KindFencedCodeBlock:
		return node.CodeBlock
	case ast.KindHTMLBlock, ast.KindRawHTML:
		return node.HTML
	case ast.KindThematicBreak:
		return node.HorizontalRule
	case ast.KindCodeSpan:
		return node.Code
	case ast.KindEmphasis:
		if e, ok := gn.(*ast.Emphasis); ok && e.Level >= 2 {
			return node.Strong
		}
		return node.Emphasis
	case ast.KindLink, ast.KindAutoLink:
		return node.Link
	case ast.KindImage:
		return node.Image
	case ast.KindText:
		return node.Str
	case extast.KindStrikethrough:
		return node.Delete
	case extast.KindTable:
		return node.Table
	case extast.KindTableHeader, extast.KindTableRow:
		return node.TableRow
	case extast.KindTableCell:
		return node.TableCell
	}
	return node.Other
}
