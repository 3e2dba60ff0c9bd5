package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAggregateAveragesOneDay(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	samples := []RawSample{
		{Timestamp: day.Add(9 * time.Hour), Temperature: 20, Humidity: 60, Pressure: 1012, WindSpeed: 3, Precipitation: 40},
		{Timestamp: day.Add(15 * time.Hour), Temperature: 22, Humidity: 65, Pressure: 1010, WindSpeed: 4, Precipitation: 50},
	}

	window := Aggregate(samples, time.UTC)
	require.Len(t, window, 1)
	require.Equal(t, day, window[0].Date)
	require.Equal(t, 21.0, window[0].Temperature)
	require.Equal(t, 62.5, window[0].Humidity)
	require.Equal(t, 1011.0, window[0].Pressure)
	require.Equal(t, 3.5, window[0].WindSpeed)
	require.Equal(t, 45, window[0].Precipitation)
}

func TestAggregateOrdersDistinctDates(t *testing.T) {
	base := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	samples := []RawSample{
		{Timestamp: base.AddDate(0, 0, 2), Temperature: 18},
		{Timestamp: base, Temperature: 20},
		{Timestamp: base.AddDate(0, 0, 1), Temperature: 19},
		{Timestamp: base.Add(3 * time.Hour), Temperature: 22},
	}

	window := Aggregate(samples, time.UTC)
	require.Len(t, window, 3)
	for i := 1; i < len(window); i++ {
		require.True(t, window[i].Date.After(window[i-1].Date))
	}
	require.Equal(t, 21.0, window[0].Temperature)
}

func TestAggregateEmptyInput(t *testing.T) {
	window := Aggregate(nil, time.UTC)
	require.NotNil(t, window)
	require.Empty(t, window)
}

func TestAggregateRespectsTimezone(t *testing.T) {
	// 23:30 UTC on May 1 is already May 2 in UTC+2.
	ts := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+2", 2*60*60)

	window := Aggregate([]RawSample{{Timestamp: ts, Temperature: 15}}, loc)
	require.Len(t, window, 1)
	require.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, loc), window[0].Date)
}
