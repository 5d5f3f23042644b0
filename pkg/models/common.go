package models

import (
	"math"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID string
func NewUUID() string {
	return uuid.New().String()
}

// Round4 rounds to four decimal places, the precision used on the wire.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
