package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Run: func(cmd *cobra.Command, args []string) {
		bold := color.New(color.Bold).SprintFunc()
		fmt.Printf("%s\n", bold("tripcraft configuration"))
		fmt.Printf("  provider:      %s\n", cfg.Provider)
		if cfg.Model != "" {
			fmt.Printf("  model:         %s\n", cfg.Model)
		} else {
			fmt.Printf("  model:         (provider default)\n")
		}
		fmt.Printf("  db:            %s\n", cfg.DBPath)
		fmt.Printf("  addr:          %s\n", cfg.Addr)
		fmt.Printf("  suggest delay: %s\n", cfg.SuggestDelay)
		fmt.Printf("  config dir:    %s\n", config.Dir())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to config.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Save(cfg); err != nil {
			fatal(err)
		}
		fmt.Printf("Wrote %s/config.yaml\n", config.Dir())
	},
}

var configExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an annotated example config.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(config.Example())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configExampleCmd)
	rootCmd.AddCommand(configCmd)
}
