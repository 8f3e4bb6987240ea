package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/phyten/jaspace/internal/execx"
	"github.com/phyten/jaspace/internal/gitremote"
	"github.com/phyten/jaspace/internal/link"
)

// linker は --with-link 用に HEAD の blob URL を組み立てます。
type linker struct {
	info gitremote.Info
	sha  string
}

func newLinker(ctx context.Context, runner execx.Runner, repo string) (*linker, error) {
	info, err := gitremote.Detect(ctx, runner, repo)
	if err != nil {
		return nil, err
	}
	stdout, stderr, err := runner.Run(ctx, repo, "git", "rev-parse", "HEAD")
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return nil, fmt.Errorf("git rev-parse HEAD: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("git rev-parse HEAD: %w", err)
	}
	sha := strings.TrimSpace(string(stdout))
	if sha == "" {
		return nil, fmt.Errorf("git rev-parse HEAD: empty output")
	}
	return &linker{info: info, sha: sha}, nil
}

func (l *linker) url(file string, line int) string {
	if l == nil {
		return ""
	}
	return link.Blob(l.info, l.sha, file, line)
}
