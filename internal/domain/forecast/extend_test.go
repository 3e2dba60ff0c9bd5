package forecast

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seededExtender(seed int64) *Extender {
	return NewExtender(rand.New(rand.NewSource(seed)))
}

func observedWindow(start time.Time, days int) Window {
	w := make(Window, 0, days)
	for i := 0; i < days; i++ {
		w = append(w, DailySample{
			Date:          start.AddDate(0, 0, i),
			Temperature:   15 + float64(i),
			Humidity:      60,
			Pressure:      1012,
			WindSpeed:     3,
			Precipitation: 30,
		})
	}
	return w
}

func TestExtendPreservesPrefixAndDates(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	initial := observedWindow(start, 5) // ends 2024-05-05

	extended := seededExtender(1).Extend(initial, 12)
	require.Len(t, extended, 12)
	require.Equal(t, initial, extended[:5])
	require.True(t, extended.Contiguous())
	require.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), extended[11].Date)
}

func TestExtendIdealDays(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	initial := observedWindow(start, 5)

	extended := seededExtender(7).Extend(initial, 45)
	for d := 0; d < 40; d++ {
		if d%7 != 0 && d%11 != 0 {
			continue
		}
		s := extended[len(initial)+d]
		require.GreaterOrEqual(t, s.Temperature, idealTempMin, "day %d", d)
		require.LessOrEqual(t, s.Temperature, idealTempMax, "day %d", d)
		require.GreaterOrEqual(t, s.Humidity, idealHumMin, "day %d", d)
		require.LessOrEqual(t, s.Humidity, idealHumMax, "day %d", d)
		require.GreaterOrEqual(t, s.WindSpeed, idealWindMin, "day %d", d)
		require.LessOrEqual(t, s.WindSpeed, idealWindMax, "day %d", d)
		require.GreaterOrEqual(t, s.Precipitation, idealPrecipMin, "day %d", d)
		require.LessOrEqual(t, s.Precipitation, idealPrecipMax, "day %d", d)
	}
}

func TestExtendSyntheticBounds(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	initial := observedWindow(start, 5)

	extended := seededExtender(99).Extend(initial, 40)
	for _, s := range extended[len(initial):] {
		require.GreaterOrEqual(t, s.Humidity, 30.0)
		require.LessOrEqual(t, s.Humidity, 95.0)
		require.GreaterOrEqual(t, s.WindSpeed, 0.5)
		require.GreaterOrEqual(t, s.Precipitation, 0)
		require.LessOrEqual(t, s.Precipitation, 70)
		// one decimal place
		require.InDelta(t, s.Temperature, math.Round(s.Temperature*10)/10, 1e-9)
		require.InDelta(t, s.Humidity, math.Round(s.Humidity*10)/10, 1e-9)
	}
}

func TestExtendDeterministicWithSeed(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	initial := observedWindow(start, 5)

	a := seededExtender(42).Extend(initial, 20)
	b := seededExtender(42).Extend(initial, 20)
	require.Equal(t, a, b)
}

func TestExtendNoopCases(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	initial := observedWindow(start, 5)

	require.Equal(t, initial, seededExtender(1).Extend(initial, 5))
	require.Equal(t, initial, seededExtender(1).Extend(initial, 3))
	require.Empty(t, seededExtender(1).Extend(Window{}, 10))
}
