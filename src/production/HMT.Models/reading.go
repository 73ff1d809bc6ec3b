package hmtmodels

import "time"

// Reading is a single environmental telemetry sample. Readings are
// immutable once generated; the scheduler is the only producer.
type Reading struct {
	Timestamp   time.Time `json:"timestamp" db:"ts"`
	Temperature float64   `json:"temperature" db:"temperature"`
	Humidity    float64   `json:"humidity" db:"humidity"`
	AirQuality  int       `json:"air_quality" db:"air_quality"`
	EnergyUsage float64   `json:"energy_usage" db:"energy_usage"`
	WaterUsage  float64   `json:"water_usage" db:"water_usage"`
	LightLevel  float64   `json:"light_level" db:"light_level"`
}
