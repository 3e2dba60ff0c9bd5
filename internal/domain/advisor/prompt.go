package advisor

import (
	"fmt"
	"strings"

	"github.com/cropwise/fieldadvisor/internal/domain/forecast"
)

// BuildPrompt renders the instruction document sent as the user message.
// It is a pure function of its inputs: identical arguments produce
// byte-identical text.
func BuildPrompt(farm FarmSite, plant PlantProfile, window forecast.Window) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Farm: %s (lat %.4f, lon %.4f)\n", farm.Name, farm.Latitude, farm.Longitude)
	fmt.Fprintf(&b, "Plant: %s\n", plant.Name)
	fmt.Fprintf(&b, "Care instructions: %s\n\n", strings.TrimSpace(plant.CareText))

	fmt.Fprintf(&b, "Forecast for the next %d days:\n", len(window))
	for _, day := range window {
		fmt.Fprintf(&b, "- %s: temperature %.1f°C, humidity %.1f%%, wind %.1f m/s, precipitation chance %d%%\n",
			day.Date.Format("2006-01-02"), day.Temperature, day.Humidity, day.WindSpeed, day.Precipitation)
	}

	b.WriteString(`
Analyze the forecast for planting this crop at this farm:
1. Infer the plant's temperature, frost and moisture requirements from the care instructions.
2. Match each forecast day against those requirements.
3. Name the 2-3 best planting dates.
4. Name the days to avoid and why.
5. Give short soil and bed preparation tips.
6. Classify the overall planting suitability of this window as exactly one of OPTIMAL, ACCEPTABLE or POOR, on its own final line.
`)
	return b.String()
}
