package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/phyten/jaspace/internal/engine"
	"github.com/phyten/jaspace/internal/termcolor"
	"github.com/phyten/jaspace/internal/textutil"
)

func sampleItems() []engine.Item {
	return []engine.Item{
		{
			File: "docs/a.md", Line: 3, Column: 4, DisplayColumn: 7, Offset: 26,
			Kind: "phrase-space-required", Action: "insert-space", Rule: "ja-space-around-phrase",
			Message: "m1", LineText: "これはhello worldです",
		},
		{
			File: "docs/a.md", Line: 3, Column: 15, DisplayColumn: 18, Offset: 37,
			Kind: "phrase-space-required", Action: "insert-space", Rule: "ja-space-around-phrase",
			Message: "m2", LineText: "これはhello worldです",
		},
		{
			File: "notes/b.txt", Line: 1, Column: 4, DisplayColumn: 7, Offset: 9,
			Kind: "word-space-forbidden", Action: "remove-space", Rule: "ja-space-around-phrase",
			Message: "m3", LineText: "これは testです", URL: "https://example.com/x#L1",
		},
	}
}

func TestWriteStylish(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStylish(&buf, sampleItems(), termcolor.Painter{}); err != nil {
		t.Fatalf("WriteStylish failed: %v", err)
	}
	want := "docs/a.md\n" +
		"   3:4  phrase-space-required  m1\n" +
		"        これはhello worldです\n" +
		"        " + strings.Repeat(" ", 6) + "^\n" +
		"  3:15  phrase-space-required  m2\n" +
		"        これはhello worldです\n" +
		"        " + strings.Repeat(" ", 17) + "^\n" +
		"\n" +
		"notes/b.txt\n" +
		"  1:4  word-space-forbidden  m3\n" +
		"       これは testです\n" +
		"       " + strings.Repeat(" ", 6) + "^\n" +
		"       https://example.com/x#L1\n" +
		"\n" +
		"3 problems in 2 files\n"
	if got := buf.String(); got != want {
		t.Fatalf("stylish output mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestWriteStylishEmptyAndColored(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStylish(&buf, nil, termcolor.Painter{}); err != nil {
		t.Fatalf("WriteStylish failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("no output expected for a clean run: %q", buf.String())
	}

	buf.Reset()
	p := termcolor.Painter{Enabled: true, Scheme: termcolor.SchemeDark, Profile: termcolor.ProfileBasic8}
	if err := WriteStylish(&buf, sampleItems()[:1], p); err != nil {
		t.Fatalf("WriteStylish failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[1;4mdocs/a.md\x1b[0m") {
		t.Fatalf("header should be styled: %q", out)
	}
	if !strings.Contains(out, "\x1b[1;33mphrase-space-required\x1b[0m") {
		t.Fatalf("kind should be colored: %q", out)
	}
	if !strings.Contains(out, "1 problem in 1 file") {
		t.Fatalf("singular summary expected: %q", out)
	}
}

func TestWriteCSV(t *testing.T) {
	sel, err := ResolveFields("file,line,col,kind,message", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	items := sampleItems()
	items[2].Message = "a \"quoted\", b\nnext"
	var buf bytes.Buffer
	if err := WriteCSV(&buf, items, sel); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "FILE,LINE,COL,KIND,MESSAGE\r\n") {
		t.Fatalf("CSV header mismatch: %q", buf.String())
	}
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("CSV output is not parseable: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[1][2] != "4" || records[2][2] != "15" {
		t.Fatalf("column values mismatch: %v", records)
	}
	if !strings.Contains(records[3][4], `a "quoted", b`) {
		t.Fatalf("quoted message not preserved: %q", records[3][4])
	}
}

func TestWriteNDJSON(t *testing.T) {
	items := sampleItems()
	items[0].Message = "<b>"
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, items); err != nil {
		t.Fatalf("WriteNDJSON failed: %v", err)
	}
	output := buf.String()
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != len(items) {
		t.Fatalf("expected %d lines, got %d", len(items), len(lines))
	}
	for i, line := range lines {
		var item engine.Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			t.Fatalf("failed to decode line %d: %v", i, err)
		}
		if item.File != items[i].File || item.Offset != items[i].Offset {
			t.Fatalf("line %d mismatch: %+v", i, item)
		}
		if item.LineText != "" {
			t.Fatalf("display-only fields must not be serialized: %s", line)
		}
	}
	if strings.Contains(output, "\\u003c") {
		t.Fatal("HTML characters should not be escaped in NDJSON output")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, &engine.Result{}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"items": []`) {
		t.Fatalf("empty result should encode items as []: %s", buf.String())
	}

	buf.Reset()
	res := &engine.Result{Items: sampleItems(), Files: 2, Total: 3}
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	var decoded engine.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON output is not decodable: %v", err)
	}
	if decoded.Total != 3 || len(decoded.Items) != 3 || decoded.Items[2].URL == "" {
		t.Fatalf("decoded result mismatch: %+v", decoded)
	}
}

func TestWriteMarkdownTable(t *testing.T) {
	sel, err := ResolveFields("location,message", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	items := sampleItems()
	items[0].Message = "first\nsecond"
	items[1].Message = "escape pipes | for markdown"
	var buf bytes.Buffer
	if err := WriteMarkdownTable(&buf, items, sel); err != nil {
		t.Fatalf("WriteMarkdownTable failed: %v", err)
	}
	output := buf.String()
	if !strings.HasPrefix(output, "| LOCATION | MESSAGE |\n| --- | --- |\n") {
		t.Fatalf("markdown header mismatch: %q", output)
	}
	if !strings.Contains(output, "| docs/a.md:3:4 | first<br>second |") {
		t.Fatal("expected newline conversion to <br> in markdown output")
	}
	if !strings.Contains(output, "escape pipes \\| for markdown") {
		t.Fatal("expected pipe characters to be escaped in markdown output")
	}
}

func TestWriteTSV(t *testing.T) {
	sel, err := ResolveFields("file,line,message", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	items := sampleItems()
	items[0].Message = "tab\there\nnewline"
	var buf bytes.Buffer
	if err := WriteTSV(&buf, items[:1], sel); err != nil {
		t.Fatalf("WriteTSV failed: %v", err)
	}
	want := "FILE\tLINE\tMESSAGE\ndocs/a.md\t3\ttab here newline\n"
	if buf.String() != want {
		t.Fatalf("TSV mismatch: %q", buf.String())
	}
}

func TestWriteTableTruncatesLongCells(t *testing.T) {
	sel, err := ResolveFields("text,kind", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	items := sampleItems()[:1]
	items[0].LineText = strings.Repeat("長い行です", 20)
	var buf bytes.Buffer
	if err := WriteTable(&buf, items, sel); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	cell, _, ok := strings.Cut(lines[1], "  "+items[0].Kind)
	if !ok {
		t.Fatalf("kind column missing: %q", lines[1])
	}
	cell = strings.TrimRight(cell, " ")
	if !strings.HasSuffix(cell, "…") {
		t.Fatalf("long cell should end with an ellipsis: %q", cell)
	}
	if w := textutil.VisibleWidth(cell); w > maxTableCell {
		t.Fatalf("cell width %d exceeds %d", w, maxTableCell)
	}
}

func TestWriteTableAlignsWideText(t *testing.T) {
	sel, err := ResolveFields("text,kind", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	items := sampleItems()
	var buf bytes.Buffer
	if err := WriteTable(&buf, items, sel); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	markers := []string{"KIND", items[0].Kind, items[1].Kind, items[2].Kind}
	for i, line := range lines {
		idx := strings.Index(line, markers[i])
		if idx < 0 {
			t.Fatalf("line %d missing %q: %q", i, markers[i], line)
		}
		if w := textutil.VisibleWidth(line[:idx]); w != 23 {
			t.Fatalf("line %d: kind column starts at width %d, want 23: %q", i, w, line)
		}
	}
}

func TestWriteDispatch(t *testing.T) {
	sel, _ := ResolveFields("", false)
	res := &engine.Result{Items: sampleItems()}
	for _, format := range []string{"stylish", "table", "tsv", "json", "ndjson", "csv", "markdown"} {
		var buf bytes.Buffer
		if err := Write(&buf, res, Options{Format: format, Fields: sel}); err != nil {
			t.Fatalf("Write(%s) failed: %v", format, err)
		}
		if buf.Len() == 0 {
			t.Fatalf("Write(%s) produced no output", format)
		}
	}
	if err := Write(&bytes.Buffer{}, res, Options{Format: "xml"}); err == nil {
		t.Fatal("unknown format should fail")
	}
}

func TestWriteStylishCaretWithTabs(t *testing.T) {
	items := []engine.Item{{
		File: "a.txt", Line: 1, Column: 5, DisplayColumn: 7, Kind: "word-space-forbidden",
		Message: "m", LineText: "\tこれは testです",
	}}
	var buf bytes.Buffer
	if err := WriteStylish(&buf, items, termcolor.Painter{}); err != nil {
		t.Fatalf("WriteStylish failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[2] != "        これは testです" {
		t.Fatalf("tab should be expanded to a space: %q", lines[2])
	}
	if lines[3] != "       "+strings.Repeat(" ", 7)+"^" {
		t.Fatalf("caret misplaced: %q", lines[3])
	}
}

func TestWriteMarkdownTableAlignsNumbersAndLinksURLs(t *testing.T) {
	sel, err := ResolveFields("file,line,col,url", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	items := sampleItems()[2:]
	var buf bytes.Buffer
	if err := WriteMarkdownTable(&buf, items, sel); err != nil {
		t.Fatalf("WriteMarkdownTable failed: %v", err)
	}
	want := "| FILE | LINE | COL | URL |\n" +
		"| --- | ---: | ---: | --- |\n" +
		"| notes/b.txt | 1 | 4 | <https://example.com/x#L1> |\n"
	if buf.String() != want {
		t.Fatalf("markdown mismatch:\n%s", buf.String())
	}
}
