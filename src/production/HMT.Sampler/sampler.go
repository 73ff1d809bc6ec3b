package sampler

import (
	"math"
	"math/rand"
	"sync"
	"time"

	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

// Field baselines and spreads for the simulated sensor suite.
const (
	tempBase, tempLow, tempHigh         = 22.0, -3.0, 3.0
	humidityBase, humLow, humHigh       = 45.0, -10.0, 15.0
	airBase, airLow, airHigh            = 85.0, -20.0, 15.0
	energyBase, energyLow, energyHigh   = 1200.0, -200.0, 400.0
	waterBase, waterLow, waterHigh      = 150.0, -30.0, 50.0
	lightBase, lightLow, lightHigh      = 60.0, -20.0, 40.0
)

// Sampler produces one synthetic environmental reading per call. It holds
// no state beyond its randomness source and never fails.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New creates a sampler seeded from the wall clock.
func New() *Sampler {
	return NewWithSource(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewWithSource creates a sampler with an injected randomness source and
// clock, for deterministic tests.
func NewWithSource(rng *rand.Rand, now func() time.Time) *Sampler {
	return &Sampler{rng: rng, now: now}
}

// Generate returns a fresh reading. Each field is drawn independently from
// a bounded uniform spread around its baseline; air quality is clamped to
// [0,100] and truncated to an integer.
func (s *Sampler) Generate() hmtmodels.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	air := int(airBase + s.uniform(airLow, airHigh))
	if air < 0 {
		air = 0
	}
	if air > 100 {
		air = 100
	}

	return hmtmodels.Reading{
		Timestamp:   s.now().UTC(),
		Temperature: round1(tempBase + s.uniform(tempLow, tempHigh)),
		Humidity:    round1(humidityBase + s.uniform(humLow, humHigh)),
		AirQuality:  air,
		EnergyUsage: round1(energyBase + s.uniform(energyLow, energyHigh)),
		WaterUsage:  round1(waterBase + s.uniform(waterLow, waterHigh)),
		LightLevel:  round1(lightBase + s.uniform(lightLow, lightHigh)),
	}
}

func (s *Sampler) uniform(low, high float64) float64 {
	return low + s.rng.Float64()*(high-low)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
