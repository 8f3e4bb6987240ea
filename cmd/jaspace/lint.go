package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/phyten/jaspace/internal/config"
	"github.com/phyten/jaspace/internal/engine"
	engineopts "github.com/phyten/jaspace/internal/engine/opts"
	"github.com/phyten/jaspace/internal/output"
	"github.com/phyten/jaspace/internal/progress"
	"github.com/phyten/jaspace/internal/termcolor"
)

const stdinName = "<stdin>"

// lintPlan は設定の層をすべて重ねた後の実行内容です。
type lintPlan struct {
	opts       engine.Options
	out        output.Options
	sort       output.SortSpec
	configPath string
}

// resolve は 既定値 < 設定ファイル < 環境変数 < フラグ の順に設定を重ねます。
func (a *app) resolve(cmd *cobra.Command, flags *lintFlags, args []string) (*lintPlan, error) {
	flagCfg := flags.layer(cmd.Flags(), args)
	envCfg, err := config.FromEnv(a.getenv)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	repoHint := config.Pick(".", envCfg.Engine.Repo, flagCfg.Engine.Repo)
	explicit := strings.TrimSpace(flags.config)
	if explicit == "" {
		explicit = a.getenv("JASPACE_CONFIG")
	}
	path, _, err := config.Find(repoHint, explicit, a.getenv("XDG_CONFIG_HOME"), a.getenv("HOME"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	fileCfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	base := config.EngineSettingsFromOptions(engineopts.Defaults("."))
	settings, err := config.NormalizeEngine(config.MergeEngine(base, fileCfg.Engine, envCfg.Engine, flagCfg.Engine))
	if err != nil {
		return nil, err
	}
	ui, err := config.NormalizeUI(config.MergeUI(config.DefaultUISettings(), fileCfg.UI, envCfg.UI, flagCfg.UI))
	if err != nil {
		return nil, err
	}

	opts := engineopts.Defaults(settings.Repo)
	settings.ApplyToOptions(&opts)
	opts.WithLink = ui.WithLink
	if !flags.stdin && progress.ShouldShow(flags.progress, flags.noProgress, a.stdout, a.stderr) {
		opts.Progress = true
		opts.ProgressObserver = progress.NewObserver(a.stderr)
	}
	if err := engineopts.NormalizeAndValidate(&opts); err != nil {
		return nil, err
	}

	sel, err := output.ResolveFields(ui.Fields, ui.WithLink)
	if err != nil {
		return nil, err
	}
	if sel.NeedsURL() {
		opts.WithLink = true
	}
	spec, err := output.ParseSortSpec(ui.Sort)
	if err != nil {
		return nil, err
	}
	mode, err := termcolor.ParseMode(settings.Color)
	if err != nil {
		return nil, err
	}
	stdoutFile, _ := a.stdout.(*os.File)

	return &lintPlan{
		opts: opts,
		out: output.Options{
			Format:  settings.Output,
			Fields:  sel,
			Painter: termcolor.NewPainter(mode, stdoutFile, termcolor.EnvMap(a.environ)),
		},
		sort:       spec,
		configPath: path,
	}, nil
}

func (a *app) runLint(cmd *cobra.Command, flags *lintFlags, args []string) error {
	if flags.stdin && len(args) > 0 {
		return errors.New("--stdin cannot be combined with paths")
	}
	if !flags.stdin && cmd.Flags().Changed("stdin-filename") {
		return errors.New("--stdin-filename requires --stdin")
	}
	plan, err := a.resolve(cmd, flags, args)
	if err != nil {
		return err
	}

	var res *engine.Result
	if flags.stdin {
		res, err = a.lintStdin(plan, flags.stdinFilename)
	} else {
		res, err = engine.RunContext(lintContext(cmd), plan.opts)
	}
	if err != nil {
		return err
	}
	return a.report(res, plan)
}

func (a *app) lintStdin(plan *lintPlan, filename string) (*engine.Result, error) {
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, errors.New("stdin: invalid UTF-8")
	}
	name := strings.TrimSpace(filename)
	if name == "" {
		name = stdinName
	}
	format := ""
	if len(plan.opts.Formats) > 0 {
		format = plan.opts.Formats[0]
	}
	items, err := engine.LintSource(name, format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &engine.Result{Items: items, Files: 1, Total: len(items)}, nil
}

// report は結果を書き出し、終了コードを exitError で返します。
func (a *app) report(res *engine.Result, plan *lintPlan) error {
	if len(plan.sort.Keys) > 0 {
		output.ApplySort(res.Items, plan.sort)
	}
	if err := output.Write(a.stdout, res, plan.out); err != nil {
		return err
	}
	for _, e := range res.Errors {
		file := e.File
		if file == "" {
			file = "-"
		}
		a.logger.Printf("%s: %s: %s", file, e.Stage, e.Message)
	}
	switch {
	case res.ErrorCount > 0 || len(res.Errors) > 0:
		return exitError{code: 2}
	case len(res.Items) > 0:
		return exitError{code: 1}
	}
	return nil
}

func lintContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
