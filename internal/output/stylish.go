package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phyten/jaspace/internal/engine"
	"github.com/phyten/jaspace/internal/termcolor"
	"github.com/phyten/jaspace/internal/textutil"
)

// WriteStylish はファイルごとに見出しを付け、違反行と位置を示す ^ を添えて出力します。
// items は file 順に並んでいる前提です。
func WriteStylish(w io.Writer, items []engine.Item, p termcolor.Painter) error {
	bw := bufio.NewWriter(w)
	files := 0
	for start := 0; start < len(items); {
		end := start
		for end < len(items) && items[end].File == items[start].File {
			end++
		}
		if files > 0 {
			bw.WriteString("\n")
		}
		files++
		writeStylishFile(bw, items[start:end], p)
		start = end
	}
	if len(items) > 0 {
		fmt.Fprintf(bw, "\n%s\n", p.Caret(fmt.Sprintf("%d %s in %d %s", len(items), plural(len(items), "problem"), files, plural(files, "file"))))
	}
	return bw.Flush()
}

func writeStylishFile(bw *bufio.Writer, items []engine.Item, p termcolor.Painter) {
	bw.WriteString(p.Header(items[0].File) + "\n")
	posWidth, kindWidth := 0, 0
	for _, it := range items {
		if n := len(position(it)); n > posWidth {
			posWidth = n
		}
		if n := len(it.Kind); n > kindWidth {
			kindWidth = n
		}
	}
	indent := strings.Repeat(" ", posWidth+4)
	for _, it := range items {
		pos := textutil.PadLeft(position(it), posWidth)
		kind := p.Kind(it.Kind, textutil.PadRight(it.Kind, kindWidth))
		fmt.Fprintf(bw, "  %s  %s  %s\n", p.Dim(pos), kind, flattenCell(it.Message))
		if it.LineText != "" {
			line := strings.ReplaceAll(it.LineText, "\t", " ")
			col := caretColumn(it, line)
			fmt.Fprintf(bw, "%s%s\n", indent, line)
			fmt.Fprintf(bw, "%s%s%s\n", indent, strings.Repeat(" ", col-1), p.Caret("^"))
		}
		if it.URL != "" {
			fmt.Fprintf(bw, "%s%s\n", indent, p.Dim(it.URL))
		}
	}
}

// caretColumn はタブを空白 1 つに置き換えた行での表示列を返します。
func caretColumn(it engine.Item, line string) int {
	runes := []rune(line)
	n := it.Column - 1
	if n < 0 || n > len(runes) {
		if it.DisplayColumn > 0 {
			return it.DisplayColumn
		}
		return 1
	}
	return textutil.VisibleWidth(string(runes[:n])) + 1
}

func position(it engine.Item) string {
	return strconv.Itoa(it.Line) + ":" + strconv.Itoa(it.Column)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
