package forecast

import "time"

// RawSample is a single timestamped observation as delivered by the
// weather provider, before any grouping.
type RawSample struct {
	Timestamp     time.Time
	Temperature   float64 // °C
	Humidity      float64 // %
	Pressure      float64 // hPa
	WindSpeed     float64 // m/s
	Precipitation float64 // probability, %
}

// DailySample is one calendar day's averaged weather. Date is midnight in
// the reference timezone used during aggregation.
type DailySample struct {
	Date          time.Time `json:"date"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	WindSpeed     float64   `json:"windSpeed"`
	Precipitation int       `json:"precipitation"`
}

// Window is an ordered run of one-per-day samples covering a contiguous
// date range.
type Window []DailySample

// Contiguous reports whether consecutive entries are exactly one calendar
// day apart.
func (w Window) Contiguous() bool {
	for i := 1; i < len(w); i++ {
		if !w[i].Date.Equal(w[i-1].Date.AddDate(0, 0, 1)) {
			return false
		}
	}
	return true
}
