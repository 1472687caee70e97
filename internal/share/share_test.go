package share

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripcraft/tripcraft/internal/types"
)

func sampleTrip() *types.Trip {
	lat, lng := 48.8584, 2.2945
	return &types.Trip{
		ID:       "trip-share",
		TripName: "München to Zürich",
		Summary:  "Across the Alps — châteaux, cafés, and curvy roads.",
		Days: []types.Day{
			{
				DayNumber: 1,
				Title:     "Føroyar-Straße départ",
				StartTime: "08:15",
				Stops: []types.Stop{
					{
						ID:          "s1",
						Name:        "Café René — Pâtisserie",
						Description: "crêpes & 抹茶",
						Time:        "09:00",
						Duration:    40,
						Lat:         &lat,
						Lng:         &lng,
						WeatherIcon: "⛅",
						IsSelected:  true,
					},
					{ID: "s2", Name: "Schloß Neuschwanstein", Time: "11:30", IsSelected: true, IsCompleted: true},
				},
			},
		},
		LastUpdated: time.Date(2026, 7, 4, 10, 30, 0, 0, time.UTC),
		Preferences: &types.Preferences{
			Source:          "München, DE",
			Destinations:    []string{"Zürich, CH"},
			DailyDriveLimit: 6,
			MaxLegDuration:  2,
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	trip := sampleTrip()

	payload, err := Encode(trip)
	require.NoError(t, err)
	assert.NotContains(t, payload, "=", "raw encoding has no padding to escape")

	got, err := Decode(payload)
	require.NoError(t, err)
	// Field-for-field, including every non-ASCII string.
	assert.Equal(t, trip, got)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("")
	assert.Error(t, err)

	_, err = Decode("!!!not base64!!!")
	assert.Error(t, err)

	// Valid base64, but not a trip document.
	_, err = Decode("aGVsbG8gd29ybGQ")
	assert.Error(t, err)
}

func TestDecodeRejectsInvalidTrip(t *testing.T) {
	trip := sampleTrip()
	trip.Days[0].DayNumber = 7 // breaks the contiguity invariant
	payload, err := Encode(trip)
	require.NoError(t, err)

	_, err = Decode(payload)
	assert.Error(t, err, "decoded trips must pass validation")
}

func TestShareURL(t *testing.T) {
	trip := sampleTrip()
	link, err := URL("https://trips.example.com/", trip)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://trips.example.com/?share="), "link = %s", link)

	// The payload survives a full URL round trip.
	payload := PayloadFromURL(link)
	got, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
}

func TestPayloadFromURLPassthrough(t *testing.T) {
	trip := sampleTrip()
	payload, err := Encode(trip)
	require.NoError(t, err)
	assert.Equal(t, payload, PayloadFromURL(payload), "bare payloads pass through unchanged")
}

func TestQRPNG(t *testing.T) {
	png, err := QRPNG("https://trips.example.com/", sampleTrip(), 256)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, byte(0x89), png[0], "output should be a PNG")
}
