package node

// Handler は特定種別のノードを訪問したときに呼ばれます。
type Handler func(n *Node)

// Handlers は種別ごとのハンドラ表です。
type Handlers map[Kind]Handler

// Walk は root 以下を文書順（行きがけ順）にたどり、種別に対応するハンドラを呼びます。
func Walk(root *Node, handlers Handlers) {
	if root == nil || len(handlers) == 0 {
		return
	}
	var visit func(n *Node)
	visit = func(n *Node) {
		if h, ok := handlers[n.Kind]; ok && h != nil {
			h(n)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
}

// Inspect は root 以下のすべてのノードに fn を適用します。fn が false を返すと子はたどりません。
func Inspect(root *Node, fn func(n *Node) bool) {
	if root == nil || fn == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children {
		Inspect(c, fn)
	}
}
