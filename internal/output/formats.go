package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/phyten/jaspace/internal/engine"
	"github.com/phyten/jaspace/internal/textutil"
)

// 表の 1 セルの最大表示幅。超えた分は … で切り詰める
const maxTableCell = 60

var cellFlattener = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ", "\t", " ")

func flattenCell(s string) string { return cellFlattener.Replace(s) }

// grid はヘッダー行と各件の行を cell で整形して並べます。
func grid(items []engine.Item, sel FieldSelection, cell func(f Field, v string) string) [][]string {
	out := make([][]string, 0, len(items)+1)
	out = append(out, Headers(sel.Fields))
	for _, it := range items {
		row := RowValues(it, sel.Fields)
		if cell != nil {
			for i, f := range sel.Fields {
				row[i] = cell(f, row[i])
			}
		}
		out = append(out, row)
	}
	return out
}

func writeLines(w io.Writer, lines [][]string, join func([]string) string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(join(l) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTSV は 1 行 1 件のタブ区切りで出力します。値中のタブと改行は空白に置き換えます。
func WriteTSV(w io.Writer, items []engine.Item, sel FieldSelection) error {
	lines := grid(items, sel, func(_ Field, v string) string { return flattenCell(v) })
	return writeLines(w, lines, func(l []string) string { return strings.Join(l, "\t") })
}

// WriteTable は表示幅で揃えた表を出力します。全角文字は 2 桁として数えます。
// 最後の列は揃えず、行末の空白は落とします。
func WriteTable(w io.Writer, items []engine.Item, sel FieldSelection) error {
	lines := grid(items, sel, func(_ Field, v string) string {
		return textutil.Truncate(flattenCell(v), maxTableCell, "…")
	})
	widths := make([]int, len(sel.Fields))
	for _, l := range lines {
		for i, c := range l {
			widths[i] = max(widths[i], textutil.VisibleWidth(c))
		}
	}
	return writeLines(w, lines, func(l []string) string {
		padded := make([]string, len(l))
		for i, c := range l {
			if i < len(l)-1 {
				c = textutil.PadRight(c, widths[i])
			}
			padded[i] = c
		}
		return strings.TrimRight(strings.Join(padded, "  "), " ")
	})
}

// WriteCSV は RFC 4180 の CSV（CRLF 改行）で出力します。
func WriteCSV(w io.Writer, items []engine.Item, sel FieldSelection) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(grid(items, sel, nil)); err != nil {
		return err
	}
	return cw.Error()
}

// WriteMarkdownTable は GitHub Flavored Markdown の表で出力します。
// 数値の列は右寄せ、URL は自動リンクにします。
func WriteMarkdownTable(w io.Writer, items []engine.Item, sel FieldSelection) error {
	lines := grid(items, sel, markdownCell)
	align := make([]string, len(sel.Fields))
	for i, f := range sel.Fields {
		align[i] = "---"
		if numericField(f.Key) {
			align[i] = "---:"
		}
	}
	lines = append(lines[:1], append([][]string{align}, lines[1:]...)...)
	return writeLines(w, lines, func(l []string) string { return "| " + strings.Join(l, " | ") + " |" })
}

var markdownEscaper = strings.NewReplacer("\r\n", "<br>", "\r", "", "\n", "<br>", "|", "\\|")

func markdownCell(f Field, v string) string {
	if f.Key == "url" && v != "" {
		return "<" + v + ">"
	}
	return markdownEscaper.Replace(v)
}

func numericField(key string) bool {
	switch key {
	case "line", "col", "offset":
		return true
	}
	return false
}

// WriteNDJSON は 1 行 1 件の JSON で出力します。
func WriteNDJSON(w io.Writer, items []engine.Item) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON は Result 全体をインデント付き JSON で出力します。HTML 文字はエスケープしません。
// 違反がなくても items は null ではなく [] です。
func WriteJSON(w io.Writer, res *engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	out := *res
	if out.Items == nil {
		out.Items = []engine.Item{}
	}
	return enc.Encode(&out)
}
