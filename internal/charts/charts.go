// Package charts describes the four result charts as plain data and renders
// them. Every chart is a pure function of the probability and the entered
// measurements.
package charts

import (
	"fmt"
	"math"

	"github.com/Skufu/heartrisk/internal/patient"
	"github.com/Skufu/heartrisk/internal/risk"
)

// Shared palette.
const (
	FaceColor   = "#1a4a7a"
	TitleColor  = "#b0c5ff"
	TrackColor  = "#94a3b8"
	GreenColor  = "#22c55e"
	YellowColor = "#facc15"
	RedColor    = "#dc2626"
	AccentColor = "#60a5fa"
)

// ReferenceCholesterol is the "normal" bar of the cholesterol comparison, in mg/dl.
const ReferenceCholesterol = 200.0

// StressFactor scales oldpeak into the illustrative stress blood pressure.
// It is a display heuristic, not a clinical formula.
const StressFactor = 10.0

// Segment is a colored arc of the gauge over [From, To].
type Segment struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
}

// Gauge is a semicircular meter from Min (left) to Max (right).
type Gauge struct {
	Title        string    `json:"title"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Value        float64   `json:"value"`
	Track        string    `json:"track"`
	Segments     []Segment `json:"segments"`
	Needle       string    `json:"needle"`
	NeedleLength float64   `json:"needleLength"`
	Label        string    `json:"label"`
}

// Angle maps v onto the semicircle: pi at Min, 0 at Max.
func (g Gauge) Angle(v float64) float64 {
	return math.Pi * (1 - (v-g.Min)/(g.Max-g.Min))
}

// NeedleAngle is the needle rotation for the current value.
func (g Gauge) NeedleAngle() float64 { return g.Angle(g.Value) }

type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Distribution is a proportion chart whose slices sum to 100.
type Distribution struct {
	Title  string  `json:"title"`
	Slices []Slice `json:"slices"`
}

type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Comparison is a bar chart with a dashed reference line.
type Comparison struct {
	Title     string  `json:"title"`
	Unit      string  `json:"unit"`
	Bars      []Bar   `json:"bars"`
	Reference float64 `json:"reference"`
}

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Trend is a line through labelled points.
type Trend struct {
	Title  string  `json:"title"`
	Unit   string  `json:"unit"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Set holds the four charts of one assessment.
type Set struct {
	Gauge         Gauge        `json:"gauge"`
	Distribution  Distribution `json:"distribution"`
	Cholesterol   Comparison   `json:"cholesterol"`
	BloodPressure Trend        `json:"bloodPressure"`
}

// Build derives every chart from probability (percent) and in.
func Build(probability float64, in patient.Input) Set {
	return Set{
		Gauge:         RiskMeter(probability),
		Distribution:  RiskDistribution(probability),
		Cholesterol:   CholesterolComparison(in.Cholesterol),
		BloodPressure: StressResponse(in.RestingBP, in.Oldpeak),
	}
}

func RiskMeter(probability float64) Gauge {
	return Gauge{
		Title: "Overall Risk Meter",
		Min:   0,
		Max:   100,
		Value: probability,
		Track: TrackColor,
		Segments: []Segment{
			{From: 0, To: risk.ModerateThreshold, Color: GreenColor},
			{From: risk.ModerateThreshold, To: risk.SevereThreshold, Color: YellowColor},
			{From: risk.SevereThreshold, To: 100, Color: RedColor},
		},
		Needle:       AccentColor,
		NeedleLength: 0.85,
		Label:        fmt.Sprintf("%.1f%%", probability),
	}
}

func RiskDistribution(probability float64) Distribution {
	return Distribution{
		Title: "Risk Distribution",
		Slices: []Slice{
			{Label: "Healthy", Value: 100 - probability, Color: GreenColor},
			{Label: "At Risk", Value: probability, Color: RedColor},
		},
	}
}

func CholesterolComparison(chol int) Comparison {
	return Comparison{
		Title: "Cholesterol Comparison",
		Unit:  "mg/dl",
		Bars: []Bar{
			{Label: "Normal", Value: ReferenceCholesterol, Color: TrackColor},
			{Label: "Your Value", Value: float64(chol), Color: AccentColor},
		},
		Reference: ReferenceCholesterol,
	}
}

// StressBP extrapolates a blood pressure under exercise stress from the
// resting value. Illustrative only.
func StressBP(resting int, oldpeak float64) float64 {
	return float64(resting) + oldpeak*StressFactor
}

func StressResponse(resting int, oldpeak float64) Trend {
	return Trend{
		Title: "Blood Pressure Stress Response",
		Unit:  "mmHg",
		Color: AccentColor,
		Points: []Point{
			{Label: "Rest", Value: float64(resting)},
			{Label: "Stress", Value: StressBP(resting, oldpeak)},
		},
	}
}
