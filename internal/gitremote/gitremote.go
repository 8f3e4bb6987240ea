package gitremote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/phyten/jaspace/internal/execx"
)

// 違反リンクの生成元を切り替える環境変数
const (
	EnvRemote = "JASPACE_LINK_REMOTE"
	EnvScheme = "JASPACE_LINK_SCHEME"
)

// Info は Git リモートから抽出したホスト・オーナー・リポジトリ情報です。
type Info struct {
	Host   string
	Owner  string
	Repo   string
	Scheme string
}

// Detect は repoDir のリモート（既定は origin、JASPACE_LINK_REMOTE で変更可）を解析します。
func Detect(ctx context.Context, runner execx.Runner, repoDir string) (Info, error) {
	if runner == nil {
		runner = execx.DefaultRunner()
	}
	remote := strings.TrimSpace(os.Getenv(EnvRemote))
	if remote == "" {
		remote = "origin"
	}
	key := "remote." + remote + ".url"
	stdout, stderr, err := runner.Run(ctx, repoDir, "git", "config", "--get", key)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return Info{}, fmt.Errorf("git config --get %s: %w: %s", key, err, msg)
		}
		return Info{}, fmt.Errorf("git config --get %s: %w", key, err)
	}
	info, err := Parse(string(stdout))
	if err != nil {
		return Info{}, fmt.Errorf("%s: %w", key, err)
	}
	if s := schemeOverride(); s != "" {
		info.Scheme = s
	}
	return info, nil
}

// Parse はリモート URL を解析します。
// http(s)://, ssh://, git:// と scp 形式（git@host:owner/repo.git）を受け付けます。
func Parse(raw string) (Info, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Info{}, errors.New("empty remote url")
	}
	if !strings.Contains(raw, "://") {
		host, rest, ok := strings.Cut(raw, ":")
		if !ok || host == "" || strings.ContainsAny(host, "/\\") {
			return Info{}, fmt.Errorf("unsupported remote url: %s", raw)
		}
		raw = "ssh://" + host + "/" + rest
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Info{}, fmt.Errorf("invalid remote url: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https":
	case "ssh", "git":
		// リンクは https で開く
		scheme = ""
	default:
		return Info{}, fmt.Errorf("unsupported remote url: %s", raw)
	}
	p, err := url.PathUnescape(u.Path)
	if err != nil {
		return Info{}, fmt.Errorf("invalid remote path: %w", err)
	}
	owner, repo, err := ownerRepo(p)
	if err != nil {
		return Info{}, err
	}
	return Info{Host: strings.ToLower(u.Host), Owner: owner, Repo: repo, Scheme: scheme}, nil
}

// ownerRepo はパスの末尾 2 要素を owner と repo とみなします。
func ownerRepo(p string) (string, string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	segs := strings.Split(p, "/")
	if len(segs) < 2 || segs[len(segs)-2] == "" || segs[len(segs)-1] == "" {
		return "", "", fmt.Errorf("remote url must include owner and repo: %q", p)
	}
	return segs[len(segs)-2], segs[len(segs)-1], nil
}

// WebURL はリポジトリのブラウズ用ベース URL を返します。
func (i Info) WebURL() string {
	return fmt.Sprintf("%s://%s/%s/%s", i.NormalizedScheme(), strings.TrimSuffix(i.Host, "/"), url.PathEscape(i.Owner), url.PathEscape(i.Repo))
}

// BlobPath は各要素をエスケープしたスラッシュ区切りのパスを返します。
func BlobPath(file string) string {
	parts := strings.Split(strings.ReplaceAll(file, "\\", "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return path.Join(parts...)
}

// NormalizedScheme は http か https を返します。JASPACE_LINK_SCHEME が有効な値なら優先します。
func (i Info) NormalizedScheme() string {
	if s := schemeOverride(); s != "" {
		return s
	}
	if strings.EqualFold(strings.TrimSpace(i.Scheme), "http") {
		return "http"
	}
	return "https"
}

func schemeOverride() string {
	switch s := strings.ToLower(strings.TrimSpace(os.Getenv(EnvScheme))); s {
	case "http", "https":
		return s
	}
	return ""
}
