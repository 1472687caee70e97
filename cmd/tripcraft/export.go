package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripcraft/tripcraft/internal/export"
	"github.com/tripcraft/tripcraft/internal/server"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.pdf>",
	Short: "Write a printable PDF itinerary",
	Long: `Render the current trip as an A4 PDF: the schedule day by day,
the packing list, and a QR code linking back to the shareable trip.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		trip := currentTrip()
		base, _ := cmd.Flags().GetString("base")
		if err := export.WriteFile(trip, base, args[0]); err != nil {
			fatal(err)
		}
		fmt.Printf("Itinerary written to %s\n", args[0])
	},
}

func init() {
	exportCmd.Flags().String("base", server.DefaultShareBase, "link prefix for the embedded QR code")
	rootCmd.AddCommand(exportCmd)
}
