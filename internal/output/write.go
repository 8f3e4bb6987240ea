// Package output は lint 結果を各形式で書き出します。
package output

import (
	"fmt"
	"io"

	"github.com/phyten/jaspace/internal/engine"
	"github.com/phyten/jaspace/internal/termcolor"
)

// Options は Write の出力設定です。Format は engine/opts.NormalizeOutput 済みの値を渡します。
type Options struct {
	Format  string
	Fields  FieldSelection
	Painter termcolor.Painter
}

// Write は res.Items を opts.Format の形式で w に書き出します。json 以外は Result の付帯情報を含みません。
func Write(w io.Writer, res *engine.Result, opts Options) error {
	switch opts.Format {
	case "", "stylish":
		return WriteStylish(w, res.Items, opts.Painter)
	case "table":
		return WriteTable(w, res.Items, opts.Fields)
	case "tsv":
		return WriteTSV(w, res.Items, opts.Fields)
	case "json":
		return WriteJSON(w, res)
	case "ndjson":
		return WriteNDJSON(w, res.Items)
	case "csv":
		return WriteCSV(w, res.Items, opts.Fields)
	case "markdown":
		return WriteMarkdownTable(w, res.Items, opts.Fields)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}
