// Package risk buckets a disease probability into a risk band.
package risk

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Band thresholds, in percent. Each band includes its lower bound.
const (
	ModerateThreshold = 35.0
	SevereThreshold   = 65.0
)

type Band int

const (
	Low Band = iota
	Moderate
	Severe
)

var bandNames = map[Band]string{
	Low:      "LOW RISK",
	Moderate: "MODERATE RISK",
	Severe:   "SEVERE RISK",
}

var bandCodes = map[Band]string{
	Low:      "LOW",
	Moderate: "MODERATE",
	Severe:   "SEVERE",
}

var bandColors = map[Band]string{
	Low:      "#2ecc71",
	Moderate: "#f1c40f",
	Severe:   "#e74c3c",
}

func (b Band) String() string {
	if n, ok := bandNames[b]; ok {
		return n
	}
	return fmt.Sprintf("Band(%d)", int(b))
}

// Code is the short machine name of the band.
func (b Band) Code() string { return bandCodes[b] }

// Color is the headline color of the band.
func (b Band) Color() string { return bandColors[b] }

func (b Band) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Code())
}

// Classify maps a probability in percent to its band.
func Classify(probability float64) Band {
	switch {
	case probability < ModerateThreshold:
		return Low
	case probability < SevereThreshold:
		return Moderate
	default:
		return Severe
	}
}

// Assessment is the outcome of one prediction. It is never cached.
type Assessment struct {
	ID          uuid.UUID `json:"id"`
	Probability float64   `json:"probability"`
	Band        Band      `json:"band"`
}

// NewAssessment classifies probability (percent) under a fresh ID.
func NewAssessment(probability float64) Assessment {
	return Assessment{
		ID:          uuid.New(),
		Probability: probability,
		Band:        Classify(probability),
	}
}

// Percent formats the probability with two decimals.
func (a Assessment) Percent() string {
	return fmt.Sprintf("%.2f%%", a.Probability)
}
