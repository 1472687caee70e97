package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP JSON API",
	Long: `Expose the trip session over HTTP for a browser frontend.

The server shares the same database as the CLI; edits made on either
side are visible to the other.`,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Addr
		}
		base, _ := cmd.Flags().GetString("base")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(sess, getPlanner(), server.WithShareBase(base))
		if err := srv.Run(ctx, addr); err != nil {
			fatal(err)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	serveCmd.Flags().String("base", server.DefaultShareBase, "link prefix for share URLs")
	rootCmd.AddCommand(serveCmd)
}
