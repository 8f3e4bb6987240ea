package textutil

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestVisibleWidth(t *testing.T) {
	narrowAmbiguous(t)
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"ABC", 3},
		{"これは", 6},
		{"これはhello worldです", 21},
		{"a　b", 4},
		{"ｶﾀｶﾅ", 4},
		{"é", 1},
		{"\x1b[1;33m違反\x1b[0m", 4},
		{"\x1b]8;;https://x\x07リンク\x1b]8;;\x07", 6},
	}
	for _, tc := range cases {
		if got := VisibleWidth(tc.in); got != tc.want {
			t.Errorf("VisibleWidth(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestVisibleWidthAmbiguous(t *testing.T) {
	t.Cleanup(func() { setAmbiguous(false) })
	setAmbiguous(true)
	if got := VisibleWidth("…"); got != 2 {
		t.Fatalf("East Asian 環境では … は 2 桁: %d", got)
	}
	setAmbiguous(false)
	if got := VisibleWidth("…"); got != 1 {
		t.Fatalf("既定では … は 1 桁: %d", got)
	}
}

func TestTruncate(t *testing.T) {
	narrowAmbiguous(t)
	cases := []struct {
		s        string
		width    int
		ellipsis string
		want     string
	}{
		{"こんにちは世界", 6, "…", "こん…"},
		{"これはhello", 8, "..", "これは.."},
		{"test", 10, "…", "test"},
		{"あいうえお", 5, "", "あい"},
		{"あいうえお", 1, "…", "…"},
		{"あいうえお", 1, "...", ""},
		{"がぎぐ", 4, "", "がぎ"},
		{"abc", 0, "…", ""},
	}
	for _, tc := range cases {
		got := Truncate(tc.s, tc.width, tc.ellipsis)
		if got != tc.want {
			t.Errorf("Truncate(%q, %d, %q) = %q, want %q", tc.s, tc.width, tc.ellipsis, got, tc.want)
		}
		if w := VisibleWidth(got); w > tc.width {
			t.Errorf("Truncate(%q, %d) の幅 %d が上限を超えました", tc.s, tc.width, w)
		}
	}
}

func TestStripANSI(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"\x1b[31mRed\x1b[0m", "Red"},
		{"\x1b]8;;https://example.com\x07link\x1b]8;;\x07", "link"},
		{"\x1b]8;;u\x1b\\x\x1b]8;;\x1b\\", "x"},
	}
	for _, tc := range cases {
		if got := StripANSI(tc.in); got != tc.want {
			t.Errorf("StripANSI(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestPad(t *testing.T) {
	narrowAmbiguous(t)
	if got := PadRight("全角", 6); got != "全角  " {
		t.Fatalf("PadRight: %q", got)
	}
	if got := PadLeft("3:4", 5); got != "  3:4" {
		t.Fatalf("PadLeft: %q", got)
	}
	if got := PadRight("はみ出す", 2); got != "はみ出す" {
		t.Fatalf("幅を超える値はそのまま: %q", got)
	}
}

func narrowAmbiguous(t *testing.T) {
	t.Helper()
	setAmbiguous(false)
}

func setAmbiguous(eastAsian bool) {
	runewidth.EastAsianWidth = eastAsian
	runewidth.DefaultCondition = runewidth.NewCondition()
}
