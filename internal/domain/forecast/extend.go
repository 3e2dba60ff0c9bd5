package forecast

import (
	"math"
	"math/rand"
	"time"
)

// Extender synthesizes daily samples beyond an observed window. It is a
// heuristic filler, not a predictive model: the only contracted property is
// a varied series of the requested length, with contiguous dates and
// periodic favorable planting days.
type Extender struct {
	rng *rand.Rand
}

// NewExtender constructs an extender around the given random source so
// callers can seed it deterministically. A nil source is seeded from the
// clock.
func NewExtender(rng *rand.Rand) *Extender {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Extender{rng: rng}
}

// Ranges redrawn on the periodic "ideal" days.
const (
	idealTempMin   = 18.0
	idealTempMax   = 23.0
	idealHumMin    = 45.0
	idealHumMax    = 65.0
	idealWindMin   = 0.5
	idealWindMax   = 2.0
	idealPrecipMin = 5
	idealPrecipMax = 25
)

// Extend returns a window of targetDays samples whose prefix is initial,
// unchanged. Synthetic days follow a seasonal warming drift plus a cyclical
// term plus a warm-biased random offset; every day with index divisible by
// 7 or 11 is redrawn from the ideal ranges instead. When targetDays does
// not exceed the initial length, or the initial window is empty, the input
// is returned as is.
func (e *Extender) Extend(initial Window, targetDays int) Window {
	if len(initial) == 0 || targetDays <= len(initial) {
		return initial
	}

	var baseTemp, baseHum, basePressure, baseWind float64
	for _, s := range initial {
		baseTemp += s.Temperature
		baseHum += s.Humidity
		basePressure += s.Pressure
		baseWind += s.WindSpeed
	}
	n := float64(len(initial))
	baseTemp /= n
	baseHum /= n
	basePressure /= n
	baseWind /= n

	out := make(Window, len(initial), targetDays)
	copy(out, initial)
	lastDate := initial[len(initial)-1].Date

	for d := 0; len(out) < targetDays; d++ {
		sample := DailySample{
			Date:     lastDate.AddDate(0, 0, d+1),
			Pressure: round1(basePressure + e.uniform(-3, 3)),
		}
		if d%7 == 0 || d%11 == 0 {
			sample.Temperature = round1(e.uniform(idealTempMin, idealTempMax))
			sample.Humidity = round1(e.uniform(idealHumMin, idealHumMax))
			sample.WindSpeed = round1(e.uniform(idealWindMin, idealWindMax))
			sample.Precipitation = idealPrecipMin + e.rng.Intn(idealPrecipMax-idealPrecipMin+1)
		} else {
			trend := float64(d) * 0.15
			cycle := 5 * math.Sin(float64(d)/3)
			bias := float64(e.rng.Intn(7) - 2) // warm-biased, [-2, 4]
			sample.Temperature = round1(baseTemp + trend + cycle + bias)
			sample.Humidity = round1(clamp(baseHum+e.uniform(-10, 10), 30, 95))
			sample.WindSpeed = round1(math.Max(0.5, baseWind+e.uniform(-1, 2)*0.5))
			sample.Precipitation = int(math.Round(e.uniform(0, 70)))
		}
		out = append(out, sample)
	}
	return out
}

func (e *Extender) uniform(min, max float64) float64 {
	return min + e.rng.Float64()*(max-min)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
