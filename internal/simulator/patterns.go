package simulator

import (
	"math"
	"math/rand"

	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

// Pattern shapes a baseline reading for a given step of a run.
type Pattern interface {
	Apply(base models.SensorReading, step int, rng *rand.Rand) models.SensorReading
	Name() string
}

var (
	PatternSteady     Pattern = &SteadyPattern{}
	PatternHeatwave   Pattern = &HeatwavePattern{}
	PatternVoltageSag Pattern = &VoltageSagPattern{}
	PatternStorm      Pattern = &StormPattern{}
	PatternRandom     Pattern = &RandomPattern{}
)

func Patterns() []Pattern {
	return []Pattern{PatternSteady, PatternHeatwave, PatternVoltageSag, PatternStorm, PatternRandom}
}

// ParsePattern falls back to steady for unknown names.
func ParsePattern(name string) Pattern {
	for _, p := range Patterns() {
		if p.Name() == name {
			return p
		}
	}
	return PatternSteady
}

// SteadyPattern - nominal operation
type SteadyPattern struct{}

func (p *SteadyPattern) Apply(base models.SensorReading, _ int, _ *rand.Rand) models.SensorReading {
	return base
}

func (p *SteadyPattern) Name() string {
	return "steady"
}

// HeatwavePattern - temperature climbs 1°C per step, up to +20
type HeatwavePattern struct{}

func (p *HeatwavePattern) Apply(base models.SensorReading, step int, _ *rand.Rand) models.SensorReading {
	base.Temperature += math.Min(float64(step), 20)
	base.PowerLoad *= 1.2
	return base
}

func (p *HeatwavePattern) Name() string {
	return "heatwave"
}

// VoltageSagPattern - voltage drops 25V per step, down to -600
type VoltageSagPattern struct{}

func (p *VoltageSagPattern) Apply(base models.SensorReading, step int, _ *rand.Rand) models.SensorReading {
	base.Voltage -= math.Min(float64(step)*25, 600)
	return base
}

func (p *VoltageSagPattern) Name() string {
	return "voltage_sag"
}

// StormPattern - wind and line current oscillate with a 12 step period
type StormPattern struct{}

func (p *StormPattern) Apply(base models.SensorReading, step int, _ *rand.Rand) models.SensorReading {
	phase := math.Sin(float64(step) / 12 * 2 * math.Pi)
	base.WindSpeed += 20 + 15*phase
	base.Current += 40 + 30*phase
	return base
}

func (p *StormPattern) Name() string {
	return "storm"
}

// RandomPattern - independent spikes and drops on every field
type RandomPattern struct{}

func (p *RandomPattern) Apply(base models.SensorReading, _ int, rng *rand.Rand) models.SensorReading {
	scale := func(v float64) float64 { return v * (0.7 + 0.6*rng.Float64()) }
	base.Voltage = scale(base.Voltage)
	base.Current = scale(base.Current)
	base.PowerLoad = scale(base.PowerLoad)
	base.Temperature = scale(base.Temperature)
	base.WindSpeed = scale(base.WindSpeed)
	return base
}

func (p *RandomPattern) Name() string {
	return "random"
}
