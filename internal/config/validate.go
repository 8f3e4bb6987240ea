package config

import (
	"fmt"
	"strings"

	engineopts "github.com/phyten/jaspace/internal/engine/opts"
)

// CanonicalizeColor は color の値を auto/always/never に揃えます。
func CanonicalizeColor(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "", "auto":
		return "auto", nil
	case "always", "never":
		return mode, nil
	default:
		return "", fmt.Errorf("invalid color: %s", raw)
	}
}

// NormalizeEngine は output と color を検証して正規化します。
// 残りの値は engine/opts.NormalizeAndValidate が検証します。
func NormalizeEngine(values EngineSettings) (EngineSettings, error) {
	var err error
	values.Output, err = engineopts.NormalizeOutput(values.Output)
	if err != nil {
		return values, err
	}
	values.Color, err = CanonicalizeColor(values.Color)
	if err != nil {
		return values, err
	}
	values.CacheLocation = strings.TrimSpace(values.CacheLocation)
	return values, nil
}

func NormalizeUI(values UISettings) (UISettings, error) {
	values.Fields = strings.TrimSpace(values.Fields)
	values.Sort = strings.TrimSpace(values.Sort)
	return values, nil
}
