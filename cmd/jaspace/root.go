package main

import (
	"github.com/spf13/cobra"
)

func (a *app) newRootCmd() *cobra.Command {
	flags := &lintFlags{}
	root := &cobra.Command{
		Use:   "jaspace [paths...]",
		Short: "Lint spacing between Japanese and half-width text",
		Long: "jaspace reports missing or extra spaces between full-width (Japanese) characters\n" +
			"and half-width words or phrases in Markdown and plain-text files.\n\n" +
			"Exit status is 0 when clean, 1 when problems are found and 2 on errors.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLint(cmd, flags, args)
		},
	}
	flags.bind(root.Flags(), true)

	root.AddCommand(a.newServeCmd())
	root.AddCommand(a.newWatchCmd())
	root.AddCommand(a.newVersionCmd())
	return root
}
