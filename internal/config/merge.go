package config

import "strings"

// overlay は層の値が指定されていれば（nil でなければ）それで置き換えます。
func overlay[T any](cur T, layer *T) T {
	if layer == nil {
		return cur
	}
	return *layer
}

// overlayTrim は文字列の層を前後の空白を除いて重ねます。
func overlayTrim(cur string, layers ...*string) string {
	for _, l := range layers {
		cur = overlay(cur, l)
	}
	return strings.TrimSpace(cur)
}

// overlayList は明示的な空リストを「クリア」として扱います。
func overlayList(cur []string, layer *[]string) []string {
	if layer == nil {
		return cur
	}
	if len(*layer) == 0 {
		return []string{}
	}
	return cloneStrings(*layer)
}

// Pick は def に values を順に重ね、前後の空白を除いた値を返します。
func Pick(def string, values ...*string) string { return overlayTrim(def, values...) }

// MergeEngine は base に layers を順に重ねます。後の層ほど優先されます。
func MergeEngine(base EngineSettings, layers ...EngineConfig) EngineSettings {
	out := base
	out.Paths = cloneStrings(base.Paths)
	out.Excludes = cloneStrings(base.Excludes)
	out.PathRegex = cloneStrings(base.PathRegex)
	out.Formats = cloneStrings(base.Formats)
	for _, layer := range layers {
		out.Paths = overlayList(out.Paths, layer.Paths)
		out.Excludes = overlayList(out.Excludes, layer.Excludes)
		out.PathRegex = overlayList(out.PathRegex, layer.PathRegex)
		out.Formats = overlayList(out.Formats, layer.Formats)
		out.ExcludeTypical = overlay(out.ExcludeTypical, layer.ExcludeTypical)
		out.Jobs = overlay(out.Jobs, layer.Jobs)
		out.MaxFileBytes = overlay(out.MaxFileBytes, layer.MaxFileBytes)
		out.Git = overlay(out.Git, layer.Git)
		out.Cache = overlay(out.Cache, layer.Cache)
		out.CacheLocation = overlayTrim(out.CacheLocation, layer.CacheLocation)
		if layer.Cache == nil && layer.CacheLocation != nil && strings.TrimSpace(*layer.CacheLocation) != "" {
			// 場所だけ指定された場合もキャッシュを有効にする
			out.Cache = true
		}
		out.Repo = overlayTrim(out.Repo, layer.Repo)
		out.Output = overlayTrim(out.Output, layer.Output)
		out.Color = overlayTrim(out.Color, layer.Color)
	}
	if out.Output == "" {
		out.Output = "stylish"
	}
	if out.Color == "" {
		out.Color = "auto"
	}
	return out
}

func MergeUI(base UISettings, layers ...UIConfig) UISettings {
	out := base
	for _, layer := range layers {
		out.Fields = overlayTrim(out.Fields, layer.Fields)
		out.Sort = overlayTrim(out.Sort, layer.Sort)
		out.WithLink = overlay(out.WithLink, layer.WithLink)
	}
	return out
}
