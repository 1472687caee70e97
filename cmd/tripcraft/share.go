package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/server"
	"github.com/tripcraft/tripcraft/internal/share"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a share link for the current trip",
	Long: `Print a link that carries the whole trip in its payload.

Anyone opening the link gets their own copy of the itinerary; no account
or server round-trip is involved. Use --qr to write a scannable QR code
instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		trip := currentTrip()
		base, _ := cmd.Flags().GetString("base")
		qrFile, _ := cmd.Flags().GetString("qr")

		if qrFile != "" {
			if err := share.WriteQRFile(base, trip, 512, qrFile); err != nil {
				fatal(err)
			}
			fmt.Printf("QR code written to %s\n", qrFile)
			return
		}
		url, err := share.URL(base, trip)
		if err != nil {
			fatal(err)
		}
		fmt.Println(url)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <payload|url>",
	Short: "Import a shared trip",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		trip, err := sess.ImportShared(context.Background(), share.PayloadFromURL(args[0]))
		if err != nil {
			fatal(err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Imported %s\n", green("✓"), trip.TripName)
		printTrip(trip)
	},
}

func init() {
	shareCmd.Flags().String("base", server.DefaultShareBase, "link prefix for the share URL")
	shareCmd.Flags().String("qr", "", "write a QR code PNG to this file instead")

	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(importCmd)
}
