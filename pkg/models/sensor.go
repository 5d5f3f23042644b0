package models

// SensorReading is one set of grid sensor values submitted for classification.
// Units: volts, amps, MW, °C, km/h, hours, hours.
type SensorReading struct {
	Voltage         float64 `json:"voltage" example:"2200"`
	Current         float64 `json:"current" example:"150"`
	PowerLoad       float64 `json:"power_load" example:"50"`
	Temperature     float64 `json:"temperature" example:"20"`
	WindSpeed       float64 `json:"wind_speed" example:"10"`
	DurationOfFault float64 `json:"duration_of_fault" example:"1"`
	DownTime        float64 `json:"down_time" example:"1"`
}

// IsZero reports whether every field is exactly zero.
func (r SensorReading) IsZero() bool {
	return r.Voltage == 0 &&
		r.Current == 0 &&
		r.PowerLoad == 0 &&
		r.Temperature == 0 &&
		r.WindSpeed == 0 &&
		r.DurationOfFault == 0 &&
		r.DownTime == 0
}

// FeatureNames lists the wire names of the reading fields in input order.
func FeatureNames() []string {
	return []string{
		"voltage",
		"current",
		"power_load",
		"temperature",
		"wind_speed",
		"duration_of_fault",
		"down_time",
	}
}

// Features returns the reading keyed by wire name.
func (r SensorReading) Features() map[string]float64 {
	return map[string]float64{
		"voltage":           r.Voltage,
		"current":           r.Current,
		"power_load":        r.PowerLoad,
		"temperature":       r.Temperature,
		"wind_speed":        r.WindSpeed,
		"duration_of_fault": r.DurationOfFault,
		"down_time":         r.DownTime,
	}
}
