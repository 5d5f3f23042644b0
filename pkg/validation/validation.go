package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	ErrMissingField = fmt.Errorf("%w: missing field", ErrInvalidInput)
	ErrNotNumeric   = fmt.Errorf("%w: non-numeric value", ErrInvalidInput)
	ErrOutOfRange   = fmt.Errorf("%w: value out of range", ErrInvalidInput)
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field  string
	Reason error
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Field, e.Reason, e.Detail)
}

func (e *FieldError) Unwrap() error {
	return e.Reason
}

// Errors collects every field problem found in one reading.
type Errors []*FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

func (e Errors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, fe := range e {
		errs[i] = fe
	}
	return errs
}

// Fields returns field name to message, for error responses.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.Field] = fe.Error()
	}
	return out
}

// DecodeReading converts a decoded JSON object into a SensorReading.
// Strict mode requires all seven fields to be present and numeric; numeric
// strings are accepted since HTML forms submit them. Lenient mode coerces
// missing or unparsable values to 0.
func DecodeReading(raw map[string]interface{}, lenient bool) (models.SensorReading, error) {
	values := make(map[string]float64, len(models.FeatureNames()))
	var errs Errors

	for _, field := range models.FeatureNames() {
		v, present := raw[field]
		if !present || v == nil {
			if !lenient {
				errs = append(errs, &FieldError{Field: field, Reason: ErrMissingField})
			}
			continue
		}

		f, err := toFloat(v)
		if err != nil {
			if !lenient {
				errs = append(errs, &FieldError{Field: field, Reason: ErrNotNumeric, Detail: err.Error()})
			}
			continue
		}
		values[field] = f
	}

	if len(errs) > 0 {
		return models.SensorReading{}, errs
	}

	return models.SensorReading{
		Voltage:         values["voltage"],
		Current:         values["current"],
		PowerLoad:       values["power_load"],
		Temperature:     values["temperature"],
		WindSpeed:       values["wind_speed"],
		DurationOfFault: values["duration_of_fault"],
		DownTime:        values["down_time"],
	}, nil
}

func toFloat(v interface{}) (float64, error) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q", val)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return f, nil
}

// Range is an inclusive bound on a sensor field.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Ranges are the accepted operating ranges of the data-entry form.
var Ranges = map[string]Range{
	"voltage":           {Min: 1000, Max: 5000},
	"current":           {Min: 50, Max: 1000},
	"power_load":        {Min: 5, Max: 200},
	"temperature":       {Min: -50, Max: 100},
	"wind_speed":        {Min: 0, Max: 200},
	"duration_of_fault": {Min: 0, Max: math.MaxFloat64},
	"down_time":         {Min: 0, Max: math.MaxFloat64},
}

// ValidateRanges checks every field against Ranges.
func ValidateRanges(r models.SensorReading) error {
	features := r.Features()
	var errs Errors

	for _, field := range models.FeatureNames() {
		bounds := Ranges[field]
		v := features[field]
		if v < bounds.Min || v > bounds.Max {
			errs = append(errs, &FieldError{
				Field:  field,
				Reason: ErrOutOfRange,
				Detail: describeRange(bounds),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func describeRange(r Range) string {
	if r.Max == math.MaxFloat64 {
		return fmt.Sprintf("must be at least %.4f", r.Min)
	}
	return fmt.Sprintf("must be between %.4f and %.4f", r.Min, r.Max)
}
