package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phyten/jaspace/internal/engine"
)

type Field struct {
	Key    string
	Header string
}

// FieldSelection は表形式の出力で表示する列です。
type FieldSelection struct {
	Fields  []Field
	ShowURL bool
}

type fieldMeta struct {
	header string
	isURL  bool
}

var fieldRegistry = map[string]fieldMeta{
	"file":     {header: "FILE"},
	"line":     {header: "LINE"},
	"col":      {header: "COL"},
	"column":   {header: "COL"},
	"offset":   {header: "OFFSET"},
	"location": {header: "LOCATION"},
	"kind":     {header: "KIND"},
	"action":   {header: "ACTION"},
	"rule":     {header: "RULE"},
	"node":     {header: "NODE"},
	"message":  {header: "MESSAGE"},
	"text":     {header: "TEXT"},
	"url":      {header: "URL", isURL: true},
}

// ResolveFields は --fields の値を解釈します。空なら location,kind,message（withURL なら url も）を使います。
func ResolveFields(raw string, withURL bool) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	sel := FieldSelection{}
	if raw == "" {
		keys := []string{"location", "kind", "message"}
		if withURL {
			keys = append(keys, "url")
		}
		sel.Fields = make([]Field, 0, len(keys))
		for _, key := range keys {
			meta := fieldRegistry[key]
			sel.Fields = append(sel.Fields, Field{Key: key, Header: meta.header})
		}
		sel.ShowURL = withURL
		return sel, nil
	}

	parts := strings.Split(raw, ",")
	sel.Fields = make([]Field, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return FieldSelection{}, fmt.Errorf("invalid fields: empty entry")
		}
		key := strings.ToLower(name)
		meta, ok := fieldRegistry[key]
		if !ok {
			return FieldSelection{}, fmt.Errorf("unknown field: %s", name)
		}
		if key == "column" {
			key = "col"
		}
		sel.Fields = append(sel.Fields, Field{Key: key, Header: meta.header})
		if meta.isURL {
			sel.ShowURL = true
		}
	}
	return sel, nil
}

// NeedsURL は選択された列が --with-link を必要とするかを返します。
func (s FieldSelection) NeedsURL() bool { return s.ShowURL }

func Headers(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Header
	}
	return out
}

func RowValues(it engine.Item, fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = formatFieldValue(it, f.Key)
	}
	return out
}

func formatFieldValue(it engine.Item, key string) string {
	switch key {
	case "file":
		return it.File
	case "line":
		return strconv.Itoa(it.Line)
	case "col":
		return strconv.Itoa(it.Column)
	case "offset":
		return strconv.Itoa(it.Offset)
	case "location":
		return fmt.Sprintf("%s:%d:%d", it.File, it.Line, it.Column)
	case "kind":
		return it.Kind
	case "action":
		return it.Action
	case "rule":
		return it.Rule
	case "node":
		return it.Node
	case "message":
		return it.Message
	case "text":
		return it.LineText
	case "url":
		return it.URL
	default:
		return ""
	}
}
