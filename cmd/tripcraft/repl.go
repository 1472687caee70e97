package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/repl"
	"github.com/tripcraft/tripcraft/internal/server"
	"github.com/tripcraft/tripcraft/internal/suggest"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Long: `Start an interactive shell for planning and editing trips.

The shell keeps the session open between commands, debounces place
suggestions while you refine a query, and walks you through the planning
form with prompts.

Type 'help' in the shell for available commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		gen := getPlanner()
		r, err := repl.New(&repl.Config{
			Session:   sess,
			Generator: gen,
			Suggester: suggest.New(gen, cfg.SuggestDelay),
			ShareBase: server.DefaultShareBase,
		})
		if err != nil {
			fatal(err)
		}
		if err := r.Run(context.Background()); err != nil {
			fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
