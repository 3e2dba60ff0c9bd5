package forecast

import (
	"math"
	"sort"
	"time"
)

// Aggregate groups raw provider samples into per-calendar-day buckets and
// averages each field. Bucketing uses the sample timestamp's date component
// in loc (UTC when nil). Only dates present in the input appear; an empty
// input yields an empty window.
func Aggregate(samples []RawSample, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	if len(samples) == 0 {
		return Window{}
	}

	type bucket struct {
		temperature   float64
		humidity      float64
		pressure      float64
		windSpeed     float64
		precipitation float64
		count         int
	}
	buckets := make(map[time.Time]*bucket)
	for _, s := range samples {
		y, m, d := s.Timestamp.In(loc).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.temperature += s.Temperature
		b.humidity += s.Humidity
		b.pressure += s.Pressure
		b.windSpeed += s.WindSpeed
		b.precipitation += s.Precipitation
		b.count++
	}

	out := make(Window, 0, len(buckets))
	for day, b := range buckets {
		n := float64(b.count)
		out = append(out, DailySample{
			Date:          day,
			Temperature:   round1(b.temperature / n),
			Humidity:      round1(b.humidity / n),
			Pressure:      round1(b.pressure / n),
			WindSpeed:     round1(b.windSpeed / n),
			Precipitation: int(math.Round(b.precipitation / n)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
