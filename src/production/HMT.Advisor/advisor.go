package advisor

import (
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

// Threshold rules, evaluated independently in declaration order. The
// messages are user-facing and must stay stable.
const (
	msgHighTemperature = "Temperature is high. Consider adjusting thermostat to save energy."
	msgHighHumidity    = "High humidity detected. Turn on dehumidifier for comfort."
	msgPoorAirQuality  = "Air quality is poor. Consider opening windows or using air purifier."
	msgHighEnergyUsage = "High energy usage detected. Check if unnecessary devices are running."
)

// Evaluate maps a reading to zero or more advisories. Pure and
// deterministic; multiple rules may fire for one reading, and the result
// order follows the rule declaration order above.
func Evaluate(r hmtmodels.Reading) []hmtmodels.Advisory {
	var advisories []hmtmodels.Advisory

	if r.Temperature > 26 {
		advisories = append(advisories, hmtmodels.Advisory{
			Timestamp: r.Timestamp,
			Message:   msgHighTemperature,
			Category:  hmtmodels.CategoryEnergy,
			Priority:  2,
		})
	}

	if r.Humidity > 60 {
		advisories = append(advisories, hmtmodels.Advisory{
			Timestamp: r.Timestamp,
			Message:   msgHighHumidity,
			Category:  hmtmodels.CategoryComfort,
			Priority:  1,
		})
	}

	if r.AirQuality < 70 {
		advisories = append(advisories, hmtmodels.Advisory{
			Timestamp: r.Timestamp,
			Message:   msgPoorAirQuality,
			Category:  hmtmodels.CategoryHealth,
			Priority:  3,
		})
	}

	if r.EnergyUsage > 1400 {
		advisories = append(advisories, hmtmodels.Advisory{
			Timestamp: r.Timestamp,
			Message:   msgHighEnergyUsage,
			Category:  hmtmodels.CategoryEnergy,
			Priority:  2,
		})
	}

	return advisories
}
