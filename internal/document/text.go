package document

import (
	"bytes"

	"github.com/phyten/jaspace/internal/node"
)

// ParseText は空行で区切られた段落ごとに Paragraph と Str を 1 つずつ作ります。
func ParseText(src []byte) *node.Node {
	doc := node.New(node.Document, 0, len(src))
	start := -1
	end := 0
	flush := func() {
		if start < 0 {
			return
		}
		p := node.New(node.Paragraph, start, end)
		p.Append(node.New(node.Str, start, end))
		doc.Append(p)
		start = -1
	}
	pos := 0
	for pos < len(src) {
		lineEnd := bytes.IndexByte(src[pos:], '\n')
		next := len(src)
		if lineEnd >= 0 {
			next = pos + lineEnd + 1
			lineEnd = pos + lineEnd
		} else {
			lineEnd = len(src)
		}
		line := src[pos:lineEnd]
		if len(bytes.TrimSpace(line)) == 0 {
			flush()
		} else {
			if start < 0 {
				start = pos
			}
			end = lineEnd
			if end > pos && src[end-1] == '\r' {
				end--
			}
		}
		pos = next
	}
	flush()
	return doc
}
