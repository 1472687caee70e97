package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcraft/tripcraft/internal/types"
)

func exportTrip() *types.Trip {
	return &types.Trip{
		ID:            "t1",
		TripName:      "Munchen to Zurich",
		Summary:       "An alpine weekend with cafe stops.",
		TotalDistance: "310 km",
		TotalDuration: "2 days",
		Days: []types.Day{
			{
				DayNumber:  1,
				Title:      "Lakes and passes",
				DaySummary: "A slow morning, then over the mountains.",
				StartTime:  "08:00",
				Stops: []types.Stop{
					{ID: "a", Name: "Café René", Address: "Seestraße 1", Time: "08:00", Duration: 45, IsSelected: true, DriveTimeToNext: "1h 20m"},
					{ID: "b", Name: "Walensee Lookout", Time: "10:05", Duration: 30, IsSelected: true},
					{ID: "c", Name: "Skipped Diner", Time: "11:00", Duration: 30, IsSelected: false},
				},
			},
		},
		PackingList: &types.PackingList{Categories: []types.PackingCategory{
			{Name: "Clothing", Items: []types.PackingItem{
				{ID: "p1", Name: "Rain jacket", IsPacked: true},
				{ID: "p2", Name: "Hiking boots"},
			}},
		}},
		Sources: []types.Source{{Title: "Alpine passes guide", URI: "https://example.com/passes"}},
	}
}

func TestPDFProducesDocument(t *testing.T) {
	data, err := PDF(exportTrip(), "https://tripcraft.app/")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output must be a PDF document")
}

func TestPDFWithoutShareBase(t *testing.T) {
	data, err := PDF(exportTrip(), "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPDFHandlesMinimalTrip(t *testing.T) {
	trip := &types.Trip{ID: "t2", TripName: "Reno to Tahoe", Days: []types.Day{{DayNumber: 1}}}
	data, err := PDF(trip, "")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itinerary.pdf")
	require.NoError(t, WriteFile(exportTrip(), "https://tripcraft.app/", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
