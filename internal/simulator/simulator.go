// Package simulator generates synthetic grid sensor readings for demos and
// load testing.
package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

type Config struct {
	Pattern  Pattern
	Base     models.SensorReading
	Variance float64 // relative jitter, 0.02 = ±2%
	Seed     int64
}

// NominalReading is a healthy operating point, below every fault threshold.
var NominalReading = models.SensorReading{
	Voltage:         2200,
	Current:         180,
	PowerLoad:       45,
	Temperature:     25,
	WindSpeed:       10,
	DurationOfFault: 0,
	DownTime:        0,
}

// Generator produces a reproducible sequence of readings. It is not safe
// for concurrent use.
type Generator struct {
	cfg  Config
	rng  *rand.Rand
	step int
}

func New(cfg Config) *Generator {
	if cfg.Pattern == nil {
		cfg.Pattern = PatternSteady
	}
	if cfg.Base.IsZero() {
		cfg.Base = NominalReading
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (g *Generator) Next() models.SensorReading {
	r := g.cfg.Pattern.Apply(g.cfg.Base, g.step, g.rng)
	g.step++

	if g.cfg.Variance > 0 {
		jitter := func(v float64) float64 {
			return v * (1 + g.cfg.Variance*(2*g.rng.Float64()-1))
		}
		r.Voltage = jitter(r.Voltage)
		r.Current = jitter(r.Current)
		r.PowerLoad = jitter(r.PowerLoad)
		r.Temperature = jitter(r.Temperature)
		r.WindSpeed = jitter(r.WindSpeed)
	}

	return clamp(r)
}

func (g *Generator) Step() int {
	return g.step
}

// clamp keeps generated values physically meaningful.
func clamp(r models.SensorReading) models.SensorReading {
	nonNegative := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		return v
	}
	r.Voltage = nonNegative(r.Voltage)
	r.Current = nonNegative(r.Current)
	r.PowerLoad = nonNegative(r.PowerLoad)
	r.WindSpeed = nonNegative(r.WindSpeed)
	r.DurationOfFault = nonNegative(r.DurationOfFault)
	r.DownTime = nonNegative(r.DownTime)
	return r
}

// Stream emits count readings, one per interval, until ctx is done. A count
// of 0 streams until cancellation. The channel is closed on return.
func (g *Generator) Stream(ctx context.Context, count int, interval time.Duration) <-chan models.SensorReading {
	out := make(chan models.SensorReading)

	go func() {
		defer close(out)

		var tick <-chan time.Time
		if interval > 0 {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for i := 0; count == 0 || i < count; i++ {
			if i > 0 && tick != nil {
				select {
				case <-ctx.Done():
					return
				case <-tick:
				}
			}

			select {
			case <-ctx.Done():
				return
			case out <- g.Next():
			}
		}
	}()

	return out
}
