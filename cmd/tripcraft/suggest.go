package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial place name>",
	Short: "Autocomplete a place name",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input := strings.Join(args, " ")
		places, err := getPlanner().SuggestPlaces(context.Background(), input)
		if err != nil {
			fatal(err)
		}
		if len(places) == 0 {
			fmt.Printf("No suggestions for %q\n", input)
			return
		}
		for _, p := range places {
			fmt.Println(p)
		}
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
