package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phyten/jaspace/internal/node"
)

// buildDoc は次の Markdown 相当のツリーを組み立てます。
//
//	これはhello worldです
//
//	# 見出しtest です
//
//	詳細はhttps://example.comを参照
func buildDoc() (*node.Node, string, *node.Node) {
	src := "これはhello worldです\n\n# 見出しtest です\n\n詳細はhttps://example.comを参照"
	doc := node.New(node.Document, 0, len(src))

	p1 := node.New(node.Paragraph, 0, 26)
	p1.Append(node.New(node.Str, 0, 26))
	doc.Append(p1)

	h := node.New(node.Header, 28, 50)
	h.Append(node.New(node.Str, 30, 50))
	doc.Append(h)

	p2 := node.New(node.Paragraph, 52, 89)
	p2.Append(node.New(node.Str, 52, 61))
	link := node.New(node.Link, 61, 80)
	link.Append(node.New(node.Str, 61, 80))
	p2.Append(link)
	p2.Append(node.New(node.Str, 80, 89))
	doc.Append(p2)

	return doc, src, p2
}

func TestLintは文書順に違反を返す(t *testing.T) {
	doc, src, p2 := buildDoc()
	got := Lint(doc, src)
	require.Len(t, got, 4)

	offsets := make([]int, len(got))
	for i, r := range got {
		offsets[i] = r.Offset()
	}
	assert.Equal(t, []int{9, 20, 61, 80}, offsets)

	assert.Equal(t, KindPhraseSpaceRequired, got[0].Kind)
	assert.Equal(t, KindLinkSpaceRequired, got[2].Kind)
	assert.Same(t, p2, got[2].Node)
	assert.Same(t, p2, got[3].Node)
	assert.Equal(t, 9, got[2].Index)
	assert.Equal(t, 28, got[3].Index)
}

func TestHandlersは除外ノード配下のStrを判定しない(t *testing.T) {
	for _, kind := range []node.Kind{node.Link, node.Image, node.BlockQuote, node.Code, node.Header} {
		src := "これは testです"
		doc := node.New(node.Document, 0, len(src))
		outer := node.New(kind, 0, len(src))
		outer.Append(node.New(node.Str, 0, len(src)))
		doc.Append(outer)

		var got []Report
		node.Walk(doc, Handlers(src, func(r Report) { got = append(got, r) }))
		assert.Empty(t, got, "kind=%s", kind)
	}
}

func TestHandlersは強調の中のStrを判定する(t *testing.T) {
	src := "これは testです"
	doc := node.New(node.Document, 0, len(src))
	p := node.New(node.Paragraph, 0, len(src))
	em := node.New(node.Emphasis, 0, len(src))
	str := node.New(node.Str, 0, len(src))
	em.Append(str)
	p.Append(em)
	doc.Append(p)

	got := Lint(doc, src)
	require.Len(t, got, 1)
	assert.Same(t, str, got[0].Node)
	assert.Equal(t, KindWordSpaceForbidden, got[0].Kind)
	assert.Equal(t, 9, got[0].Offset())
}

func TestHandlersは取り込まれた後続文字をリンクノードに報告する(t *testing.T) {
	src := "詳細は https://example.comを参照"
	doc := node.New(node.Document, 0, len(src))
	p := node.New(node.Paragraph, 0, len(src))
	p.Append(node.New(node.Str, 0, 10))
	link := node.New(node.Link, 10, len(src))
	link.Append(node.New(node.Str, 10, len(src)))
	p.Append(link)
	doc.Append(p)

	got := Lint(doc, src)
	require.Len(t, got, 1)
	assert.Same(t, link, got[0].Node)
	assert.Equal(t, 19, got[0].Index)
	assert.Equal(t, 29, got[0].Offset())
}

func TestHandlersは親のないリンクを無視する(t *testing.T) {
	src := "https://example.comを参照"
	link := node.New(node.Link, 0, len(src))
	var got []Report
	node.Walk(link, Handlers(src, func(r Report) { got = append(got, r) }))
	assert.Empty(t, got)

	// report が nil でも落ちない
	node.Walk(link, Handlers(src, nil))
}

func TestReportOffset(t *testing.T) {
	assert.Equal(t, 5, Report{Violation: Violation{Index: 5}}.Offset())
	n := node.New(node.Str, 10, 20)
	assert.Equal(t, 15, Report{Node: n, Violation: Violation{Index: 5}}.Offset())
}
