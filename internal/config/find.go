package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// 探索元。Find の 2 番目の戻り値
const (
	SourceExplicit = "explicit"
	SourceCwdUp    = "cwd-up"
	SourceXDG      = "xdg"
	SourceHome     = "home"
)

var dotNames = []string{".jaspace.yaml", ".jaspace.yml", ".jaspace.toml", ".jaspace.json"}

var xdgNames = []string{"config.yaml", "config.yml", "config.toml", "config.json"}

type candidate struct {
	path   string
	source string
}

// Find は設定ファイルを explicit、repoDir から上方向、XDG、ホームの順に探し、見つかったパスと探索元を返します。
// 見つからなければ空文字を返します。explicit が存在しない場合はエラーです。
func Find(repoDir, explicitPath, xdgHome, home string) (string, string, error) {
	if explicit := strings.TrimSpace(explicitPath); explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", "", err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", "", err
		}
		if info.IsDir() {
			return "", "", fmt.Errorf("config %q is a directory", abs)
		}
		return abs, SourceExplicit, nil
	}

	cands, err := searchPath(repoDir, xdgHome, home)
	if err != nil {
		return "", "", err
	}
	for _, c := range cands {
		if isRegular(c.path) {
			return c.path, c.source, nil
		}
	}
	return "", "", nil
}

// searchPath は優先順に並べた候補の一覧です。
func searchPath(repoDir, xdgHome, home string) ([]candidate, error) {
	start := strings.TrimSpace(repoDir)
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	var out []candidate
	for {
		for _, name := range dotNames {
			out = append(out, candidate{filepath.Join(dir, name), SourceCwdUp})
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	home = strings.TrimSpace(home)
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	xdg := strings.TrimSpace(xdgHome)
	if xdg == "" && home != "" {
		xdg = filepath.Join(home, ".config")
	}
	if xdg != "" {
		for _, name := range xdgNames {
			out = append(out, candidate{filepath.Join(xdg, "jaspace", name), SourceXDG})
		}
	}
	if home != "" {
		for _, name := range dotNames {
			out = append(out, candidate{filepath.Join(home, name), SourceHome})
		}
	}
	return out, nil
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
