package execx

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

func TestRunnerFuncDelegates(t *testing.T) {
	var gotDir, gotName string
	var gotArgs []string
	r := RunnerFunc(func(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
		gotDir, gotName, gotArgs = dir, name, args
		return []byte("out"), []byte("err"), nil
	})
	stdout, stderr, err := r.Run(context.Background(), "repo", "git", "status", "-z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(stdout) != "out" || string(stderr) != "err" {
		t.Fatalf("unexpected output: %q %q", stdout, stderr)
	}
	if gotDir != "repo" || gotName != "git" || len(gotArgs) != 2 || gotArgs[1] != "-z" {
		t.Fatalf("arguments not forwarded: %s %s %v", gotDir, gotName, gotArgs)
	}
}

func TestIsNotFound(t *testing.T) {
	_, _, err := CommandRunner{}.Run(context.Background(), "", "jaspace-command-that-does-not-exist")
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if IsNotFound(errors.New("plain")) {
		t.Fatal("plain error must not be reported as not found")
	}
	if IsNotFound(&exec.ExitError{}) {
		t.Fatal("exit error must not be reported as not found")
	}
}

func TestCommandRunnerAddsEnv(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	stdout, _, err := CommandRunner{Env: []string{"JASPACE_EXECX_PROBE=ok"}}.Run(context.Background(), t.TempDir(), "sh", "-c", "printf %s \"$JASPACE_EXECX_PROBE\"")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if string(stdout) != "ok" {
		t.Fatalf("env not forwarded: %q", stdout)
	}
	if r, ok := DefaultRunner().(CommandRunner); !ok || len(r.Env) == 0 {
		t.Fatalf("default runner should set git env: %#v", DefaultRunner())
	}
}
