package execx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Runner は外部コマンドを実行するための最小インターフェースです。
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout []byte, stderr []byte, err error)
}

// RunnerFunc は関数を Runner として扱うアダプタです。テストで git を差し替えるのに使います。
type RunnerFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error)

func (f RunnerFunc) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	return f(ctx, dir, name, args...)
}

// gitEnv は lint 中の git が対話せず、インデックスのロックも取らないようにします。
var gitEnv = []string{"GIT_TERMINAL_PROMPT=0", "GIT_OPTIONAL_LOCKS=0"}

// CommandRunner は exec.CommandContext による実装です。Env は現在の環境に追加されます。
type CommandRunner struct {
	Env []string
}

func (r CommandRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// IsNotFound はコマンドが PATH に見つからなかったかを返します。
func IsNotFound(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr)
}

// DefaultRunner は git 向けの環境変数を付けた CommandRunner です。
func DefaultRunner() Runner {
	return CommandRunner{Env: gitEnv}
}
