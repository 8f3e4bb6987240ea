// Package node はパーサーが生成する文書ツリーを、種別タグ付きの単純なノードで表します。
package node

// Kind はノードの種別です。
type Kind string

const (
	Document       Kind = "Document"
	Paragraph      Kind = "Paragraph"
	Header         Kind = "Header"
	BlockQuote     Kind = "BlockQuote"
	List           Kind = "List"
	ListItem       Kind = "ListItem"
	CodeBlock      Kind = "CodeBlock"
	Code           Kind = "Code"
	HTML           Kind = "Html"
	Table          Kind = "Table"
	TableRow       Kind = "TableRow"
	TableCell      Kind = "TableCell"
	HorizontalRule Kind = "HorizontalRule"
	Emphasis       Kind = "Emphasis"
	Strong         Kind = "Strong"
	Delete         Kind = "Delete"
	Link           Kind = "Link"
	Image          Kind = "Image"
	Str            Kind = "Str"
	Break          Kind = "Break"
	Other          Kind = "Other"
)

// Range は文書先頭からの半開区間 [Start, End) をバイト単位で表します。
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len は区間の長さを返します。
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Node は文書ツリーの 1 ノードです。
type Node struct {
	Kind     Kind    `json:"type"`
	Range    Range   `json:"range"`
	Parent   *Node   `json:"-"`
	Children []*Node `json:"children,omitempty"`
}

// New は指定した種別と区間のノードを返します。
func New(kind Kind, start, end int) *Node {
	return &Node{Kind: kind, Range: Range{Start: start, End: end}}
}

// Append は child を n の末尾に追加し、親を設定します。
func (n *Node) Append(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Source は src から n の区間を切り出します。区間が不正なら空文字列を返します。
func (n *Node) Source(src string) string {
	if n == nil {
		return ""
	}
	start, end := n.Range.Start, n.Range.End
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return src[start:end]
}

// HasAncestor は n の祖先に kinds のいずれかが含まれるかを返します。
func (n *Node) HasAncestor(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for p := n.Parent; p != nil; p = p.Parent {
		for _, k := range kinds {
			if p.Kind == k {
				return true
			}
		}
	}
	return false
}
