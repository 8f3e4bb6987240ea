package termcolor

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorMode は --color の値です。
type ColorMode int

const (
	ModeAuto ColorMode = iota
	ModeAlways
	ModeNever
)

var modeNames = map[string]ColorMode{
	"":       ModeAuto,
	"auto":   ModeAuto,
	"always": ModeAlways,
	"never":  ModeNever,
}

func (m ColorMode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	}
	return "auto"
}

func ParseMode(v string) (ColorMode, error) {
	if m, ok := modeNames[strings.ToLower(strings.TrimSpace(v))]; ok {
		return m, nil
	}
	return ModeAuto, fmt.Errorf("unknown color mode %q (want auto, always or never)", v)
}

// Profile は端末が扱える色数です。
type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// Scheme は端末背景の明暗です。
type Scheme int

const (
	SchemeDark Scheme = iota
	SchemeLight
)

// EnvMap は os.Environ 形式の KEY=VALUE 一覧を map にします。
func EnvMap(values []string) map[string]string {
	env := make(map[string]string, len(values))
	for _, kv := range values {
		k, v, _ := strings.Cut(kv, "=")
		if k != "" {
			env[k] = v
		}
	}
	return env
}

// colorEnabled は mode を実際の色の有無に解決します。
//
// auto のときは上から順に判定します。
//   - stdout がファイルでなければ無効
//   - TERM=dumb / NO_COLOR / CLICOLOR=0 なら無効
//   - CLICOLOR_FORCE / FORCE_COLOR が 0 以外なら有効
//   - それ以外は stdout が TTY のときだけ有効
func colorEnabled(mode ColorMode, stdout *os.File, env map[string]string) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	}
	if stdout == nil {
		return false
	}
	switch {
	case strings.EqualFold(strings.TrimSpace(env["TERM"]), "dumb"),
		strings.TrimSpace(env["NO_COLOR"]) != "",
		strings.TrimSpace(env["CLICOLOR"]) == "0":
		return false
	case forced(env["CLICOLOR_FORCE"]), forced(env["FORCE_COLOR"]):
		return true
	}
	return term.IsTerminal(int(stdout.Fd()))
}

func forced(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != "0"
}

func detectProfile(env map[string]string) Profile {
	ct := strings.ToLower(env["COLORTERM"])
	for _, marker := range []string{"truecolor", "24bit", "24-bit"} {
		if strings.Contains(ct, marker) {
			return ProfileTrueColor
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

// detectScheme は COLORFGBG の背景色番号（最後の数値）から明暗を推定します。
// 7 と 9 以上は明るい背景とみなします。
func detectScheme(env map[string]string) Scheme {
	if raw := strings.TrimSpace(env["COLORFGBG"]); raw != "" {
		fields := strings.Split(raw, ";")
		for i := len(fields) - 1; i >= 0; i-- {
			var bg int
			if _, err := fmt.Sscanf(strings.TrimSpace(fields[i]), "%d", &bg); err != nil {
				continue
			}
			if bg == 7 || bg >= 9 {
				return SchemeLight
			}
			return SchemeDark
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "light") {
		return SchemeLight
	}
	return SchemeDark
}
