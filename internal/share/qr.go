package share

import (
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"
	"github.com/tripcraft/tripcraft/internal/types"
)

// QRPNG renders the shareable link for a trip as a PNG QR code.
func QRPNG(base string, trip *types.Trip, size int) ([]byte, error) {
	link, err := URL(base, trip)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// WriteQRFile writes the share QR code to a PNG file.
func WriteQRFile(base string, trip *types.Trip, size int, path string) error {
	png, err := QRPNG(base, trip, size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("failed to write QR file: %w", err)
	}
	return nil
}
