package hmtmodels

import "time"

// Advisory categories.
const (
	CategoryEnergy  = "energy"
	CategoryComfort = "comfort"
	CategoryHealth  = "health"
)

// Advisory is a threshold-derived recommendation tied to a Reading.
// Its Timestamp always equals the timestamp of the reading that produced it.
type Advisory struct {
	Timestamp time.Time `json:"timestamp" db:"ts"`
	Message   string    `json:"message" db:"message"`
	Category  string    `json:"category" db:"category"`
	Priority  int       `json:"priority" db:"priority"`
}
