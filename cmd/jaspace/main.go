// jaspace は日本語文中の全角文字と半角文字列の間のスペースを検査するリンターです。
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv, os.Environ()))
}

// exitError は終了コードだけを伝えるためのエラーです。
// 0: 違反なし、1: 違反あり、2: 使い方や実行時のエラー
type exitError struct{ code int }

func (e exitError) Error() string {
	switch e.code {
	case 1:
		return "problems found"
	default:
		return "failed"
	}
}

type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	getenv  func(string) string
	environ []string
	logger  *log.Logger
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string, environ []string) int {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	a := &app{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		getenv:  getenv,
		environ: environ,
		logger:  log.New(stderr, "jaspace: ", 0),
	}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	a.logger.Print(err)
	return 2
}
