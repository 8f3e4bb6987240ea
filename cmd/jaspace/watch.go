package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phyten/jaspace/internal/detect"
	"github.com/phyten/jaspace/internal/engine"
	"github.com/phyten/jaspace/internal/output"
	"github.com/phyten/jaspace/internal/watch"
)

func (a *app) newWatchCmd() *cobra.Command {
	flags := &lintFlags{}
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Lint once, then re-lint files as they change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, flags, args)
		},
	}
	flags.bind(cmd.Flags(), false)
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, flags *lintFlags, args []string) error {
	plan, err := a.resolve(cmd, flags, args)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(lintContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := engine.RunContext(ctx, plan.opts)
	if err != nil {
		return err
	}
	if err := a.report(res, plan); err != nil {
		if _, ok := err.(exitError); !ok {
			return err
		}
	}

	sess, err := newWatchSession(a, plan)
	if err != nil {
		return err
	}
	w, err := watch.New(watch.WithErrorHandler(func(err error) {
		a.logger.Printf("watch: %v", err)
	}))
	if err != nil {
		return err
	}
	defer w.Stop()

	events := make(chan watch.Event, 64)
	err = w.Watch(sess.root, func(ev watch.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	a.logger.Printf("watching %s (Ctrl+C to stop)", sess.root)

	// 再 lint は 1 件ずつ順番に行う
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := sess.handle(ctx, ev); err != nil {
				a.logger.Printf("%v", err)
			}
		}
	}
}

type watchSession struct {
	app  *app
	plan *lintPlan
	root string
	now  func() time.Time
}

func newWatchSession(a *app, plan *lintPlan) (*watchSession, error) {
	root, err := filepath.Abs(plan.opts.RepoDir)
	if err != nil {
		return nil, err
	}
	return &watchSession{app: a, plan: plan, root: root, now: time.Now}, nil
}

// relevant は変更されたパスが lint 対象なら RepoDir からの相対パスを返します。
func (s *watchSession) relevant(abs string) (string, bool) {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	if !engine.Selects(s.plan.opts, rel) {
		return "", false
	}
	if !detect.MatchesFormat(detect.FromPathAndContent(rel, nil), s.plan.opts.Formats) {
		return "", false
	}
	return rel, true
}

func (s *watchSession) handle(ctx context.Context, ev watch.Event) error {
	rel, ok := s.relevant(ev.Path)
	if !ok {
		return nil
	}
	out := s.app.stdout
	stamp := s.now().Format("15:04:05")
	if ev.Removed {
		_, err := fmt.Fprintf(out, "[%s] %s removed\n", stamp, rel)
		return err
	}

	opts := s.plan.opts
	opts.Paths = []string{rel}
	opts.Progress = false
	opts.ProgressObserver = nil
	res, err := engine.RunContext(ctx, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", rel, err)
	}

	painter := s.plan.out.Painter
	if _, err := fmt.Fprintf(out, "[%s] %s\n", stamp, painter.Header(rel)); err != nil {
		return err
	}
	for _, e := range res.Errors {
		s.app.logger.Printf("%s: %s: %s", e.File, e.Stage, e.Message)
	}
	if len(res.Items) == 0 {
		_, err := fmt.Fprintln(out, painter.Dim("no problems"))
		return err
	}
	if len(s.plan.sort.Keys) > 0 {
		output.ApplySort(res.Items, s.plan.sort)
	}
	return output.Write(out, res, s.plan.out)
}
