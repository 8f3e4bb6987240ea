// Package rule は全角文字と半角英数字の間のスペース規則（ja-space-around-phrase）を実装します。
//
// 規則そのものは純粋関数です。文書ツリーの走査は node.Walk が担い、
// Handlers が Str と Link の各ノードを判定して Report を返します。
package rule

import (
	"sort"

	"github.com/phyten/jaspace/internal/node"
)

// これらの祖先を持つ Str は判定しません。
var skipAncestors = []node.Kind{
	node.Link,
	node.Image,
	node.BlockQuote,
	node.Code,
	node.Header,
}

// Report は報告対象ノードと違反の組です。
type Report struct {
	Node *node.Node
	Violation
}

// Offset は文書先頭からの絶対バイトオフセットを返します。
func (r Report) Offset() int {
	if r.Node == nil {
		return r.Index
	}
	return r.Node.Range.Start + r.Index
}

// Handlers は src を元にした Str/Link の判定ハンドラ表を返します。
func Handlers(src string, report func(Report)) node.Handlers {
	if report == nil {
		report = func(Report) {}
	}
	return node.Handlers{
		node.Str: func(n *node.Node) {
			if n.HasAncestor(skipAncestors...) {
				return
			}
			for _, v := range CheckText(n.Source(src)) {
				report(Report{Node: n, Violation: v})
			}
		},
		node.Link: func(n *node.Node) {
			parent := n.Parent
			if parent == nil {
				return
			}
			in := LinkInput{
				Source:       n.Source(src),
				ParentSource: parent.Source(src),
				Start:        n.Range.Start - parent.Range.Start,
				End:          n.Range.End - parent.Range.Start,
			}
			for _, lv := range CheckLink(in) {
				target := parent
				if lv.Anchor == AnchorLink {
					target = n
				}
				report(Report{Node: target, Violation: lv.Violation})
			}
		},
	}
}

// Lint は doc を走査して違反を集め、絶対オフセット順に並べて返します。
func Lint(doc *node.Node, src string) []Report {
	var reports []Report
	node.Walk(doc, Handlers(src, func(r Report) {
		reports = append(reports, r)
	}))
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Offset() < reports[j].Offset()
	})
	return reports
}
