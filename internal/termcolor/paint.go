package termcolor

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// sgr は ESC[...m に入れる SGR パラメータの並びです。
type sgr []string

const (
	attrBold      = "1"
	attrDim       = "2"
	attrUnderline = "4"
	fgRed         = "31"
)

func (s sgr) wrap(text string) string {
	if len(s) == 0 || text == "" {
		return text
	}
	return "\x1b[" + strings.Join(s, ";") + "m" + text + "\x1b[0m"
}

type rgb struct{ r, g, b uint8 }

func (c rgb) sgr() string { return fmt.Sprintf("38;2;%d;%d;%d", c.r, c.g, c.b) }

// 想定する端末背景。truecolor ではこの背景とのコントラストを確保する
var backgrounds = [...]rgb{
	SchemeDark:  {17, 24, 39},
	SchemeLight: {249, 250, 251},
}

const minContrast = 4.5

// kindColor は違反の種類ごとの色。ansi256 と truecolor は Scheme で引く
type kindColor struct {
	basic     int
	ansi256   [2]int
	truecolor [2]rgb
}

var kindColors = map[string]kindColor{
	"phrase-space-required": {basic: 3, ansi256: [2]int{214, 130}, truecolor: [2]rgb{{245, 158, 11}, {180, 83, 9}}},
	"word-space-forbidden":  {basic: 5, ansi256: [2]int{207, 127}, truecolor: [2]rgb{{232, 121, 249}, {162, 28, 175}}},
	"link-space-required":   {basic: 6, ansi256: [2]int{81, 25}, truecolor: [2]rgb{{56, 189, 248}, {3, 105, 161}}},
}

func kindSGR(kind string, scheme Scheme, profile Profile) sgr {
	c, ok := kindColors[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil
	}
	switch profile {
	case ProfileTrueColor:
		fg := ensureContrast(c.truecolor[scheme], backgrounds[scheme], minContrast)
		return sgr{attrBold, fg.sgr()}
	case ProfileANSI256:
		return sgr{attrBold, "38;5;" + strconv.Itoa(c.ansi256[scheme])}
	}
	return sgr{attrBold, "3" + strconv.Itoa(c.basic)}
}

// luminance は WCAG 2 の相対輝度です。
func (c rgb) luminance() float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.04045 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

func contrastRatio(a, b rgb) float64 {
	la, lb := a.luminance(), b.luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// ensureContrast は fg が bg に対して want に届かなければ黒か白の見やすい方に差し替えます。
func ensureContrast(fg, bg rgb, want float64) rgb {
	if contrastRatio(fg, bg) >= want {
		return fg
	}
	black, white := rgb{}, rgb{255, 255, 255}
	if contrastRatio(black, bg) >= contrastRatio(white, bg) {
		return black
	}
	return white
}

// Painter は色付けの有無と端末の特性をまとめたものです。ゼロ値は色を付けません。
type Painter struct {
	Enabled bool
	Scheme  Scheme
	Profile Profile
}

// NewPainter は mode と環境変数から Painter を作ります。
func NewPainter(mode ColorMode, stdout *os.File, env map[string]string) Painter {
	return Painter{
		Enabled: colorEnabled(mode, stdout, env),
		Scheme:  detectScheme(env),
		Profile: detectProfile(env),
	}
}

func (p Painter) paint(s sgr, text string) string {
	if !p.Enabled {
		return text
	}
	return s.wrap(text)
}

// Header はファイル名の見出しです。
func (p Painter) Header(text string) string { return p.paint(sgr{attrBold, attrUnderline}, text) }

// Dim は行番号や URL など補足の部分です。
func (p Painter) Dim(text string) string { return p.paint(sgr{attrDim}, text) }

// Caret は違反位置の ^ と集計行です。
func (p Painter) Caret(text string) string { return p.paint(sgr{attrBold, fgRed}, text) }

func (p Painter) Kind(kind, text string) string {
	return p.paint(kindSGR(kind, p.Scheme, p.Profile), text)
}
