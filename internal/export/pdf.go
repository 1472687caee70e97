// Package export renders a trip as a printable PDF itinerary with an
// embedded share QR code.
package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/tripcraft/tripcraft/internal/schedule"
	"github.com/tripcraft/tripcraft/internal/share"
	"github.com/tripcraft/tripcraft/internal/types"
)

type renderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// PDF renders the itinerary as an A4 document. shareBase is the link
// prefix for the embedded QR code; pass "" to skip the QR.
func PDF(trip *types.Trip, shareBase string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetTitle(trip.TripName, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, r.tr(trip.TripName))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	if trip.Summary != "" {
		pdf.MultiCell(0, 6, r.tr(trip.Summary), "", "L", false)
		pdf.Ln(2)
	}
	if trip.TotalDistance != "" || trip.TotalDuration != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(0, 6, r.tr(strings.TrimSpace(trip.TotalDistance+"  "+trip.TotalDuration)))
		pdf.Ln(8)
	}

	if shareBase != "" {
		qrPNG, err := share.QRPNG(shareBase, trip, 256)
		if err != nil {
			return nil, fmt.Errorf("rendering share QR: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("share-qr", opts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("share-qr", 160, 10, 35, 35, false, opts, 0, "")
	}

	for i := range trip.Days {
		r.writeDay(&trip.Days[i])
	}

	if trip.PackingList != nil && len(trip.PackingList.Categories) > 0 {
		r.writePackingList(trip.PackingList)
	}

	if len(trip.Sources) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		for _, src := range trip.Sources {
			pdf.Cell(0, 4, r.tr(src.Title+" - "+src.URI))
			pdf.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) writeDay(day *types.Day) {
	pdf := r.pdf
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	title := fmt.Sprintf("Day %d", day.DayNumber)
	if day.Title != "" {
		title += ": " + day.Title
	}
	pdf.Cell(0, 8, r.tr(title))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if day.DaySummary != "" {
		pdf.MultiCell(0, 5, r.tr(day.DaySummary), "", "L", false)
	}

	for i := range day.Stops {
		stop := &day.Stops[i]
		if !stop.IsSelected {
			continue
		}
		dep := schedule.MinutesToTime(schedule.TimeToMinutes(stop.Time) + stop.Duration)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(28, 6, stop.Time+" - "+dep)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, r.tr(stop.Name))
		pdf.Ln(6)
		if stop.Address != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.Cell(28, 5, "")
			pdf.Cell(0, 5, r.tr(stop.Address))
			pdf.Ln(5)
		}
		if stop.DriveTimeToNext != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.Cell(28, 5, "")
			pdf.Cell(0, 5, r.tr("drive "+stop.DriveTimeToNext))
			pdf.Ln(5)
		}
	}
}

func (r *renderer) writePackingList(list *types.PackingList) {
	pdf := r.pdf
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Packing List")
	pdf.Ln(8)
	for _, cat := range list.Categories {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, r.tr(cat.Name))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		for _, item := range cat.Items {
			box := "[ ]"
			if item.IsPacked {
				box = "[x]"
			}
			pdf.Cell(10, 5, box)
			pdf.Cell(0, 5, r.tr(item.Name))
			pdf.Ln(5)
		}
	}
}

// WriteFile renders the PDF to a file.
func WriteFile(trip *types.Trip, shareBase, path string) error {
	data, err := PDF(trip, shareBase)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
