// Package report turns an assessment into the result page.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strconv"

	"github.com/Skufu/heartrisk/internal/assessment"
	"github.com/Skufu/heartrisk/internal/charts"
	"github.com/Skufu/heartrisk/internal/patient"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageTemplate is the name of the single page template.
const PageTemplate = "index.html"

// Narrative is the fixed interpretation shown with every result. It does
// not depend on the entered values.
var Narrative = []Paragraph{
	{
		Heading: "Normal Heart Condition Typically Shows:",
		Items: []string{
			"Resting blood pressure around 120 mmHg",
			"Cholesterol levels below 200 mg/dl",
			"Strong heart rate response during exercise",
			"Absence of exercise-induced angina",
			"No major vessel blockage",
		},
	},
	{
		Heading: "Your Predicted Condition Indicates:",
		Items: []string{
			"Patterns that deviate from optimal cardiovascular ranges",
			"Stress response indicators affecting heart workload",
			"Possible vessel-related or ECG-linked risk markers",
		},
	},
	{
		Heading: "What This Means:",
		Text: "This AI-based assessment highlights statistical risk patterns. " +
			"It does not confirm a medical diagnosis, but it strongly suggests " +
			"whether preventive or clinical attention may be needed.",
	},
}

// Disclaimer closes every result.
const Disclaimer = "This tool is for educational purposes only. " +
	"Always consult a qualified healthcare professional for diagnosis."

type Paragraph struct {
	Heading string
	Items   []string
	Text    string
}

// Row is one echoed input.
type Row struct {
	Label string
	Value string
}

type Banner struct {
	Level   string
	Color   string
	Percent string
}

// Chart is a rendered chart ready to be inlined.
type Chart struct {
	Title string
	SVG   template.HTML
}

// Page is the template model. Selections and Measurements always reflect
// the last submitted input so the form keeps its state.
type Page struct {
	Selections   []patient.Control
	Measurements []patient.Control
	Details      [2][]Row
	Banner       *Banner
	Narrative    []Paragraph
	Charts       []Chart
	Disclaimer   string
	Error        string
}

// FormPage is the page before any prediction.
func FormPage(in patient.Input) Page {
	return Page{
		Selections:   patient.SelectionControls(in),
		Measurements: patient.MeasurementControls(in),
	}
}

// ErrorPage shows the form with an inline error.
func ErrorPage(in patient.Input, msg string) Page {
	p := FormPage(in)
	p.Error = msg
	return p
}

// ResultPage renders res with r. A chart rendering failure is returned
// rather than producing a partial page.
func ResultPage(res *assessment.Result, r charts.Renderer) (Page, error) {
	rendered, err := r.Render(res.Charts)
	if err != nil {
		return Page{}, err
	}

	p := FormPage(res.Input)
	p.Details = Details(res.Input)
	p.Banner = &Banner{
		Level:   res.Assessment.Band.String(),
		Color:   res.Assessment.Band.Color(),
		Percent: res.Assessment.Percent(),
	}
	p.Narrative = Narrative
	p.Charts = []Chart{
		{Title: res.Charts.Gauge.Title, SVG: template.HTML(rendered.Gauge)},
		{Title: res.Charts.Distribution.Title, SVG: template.HTML(rendered.Distribution)},
		{Title: res.Charts.Cholesterol.Title, SVG: template.HTML(rendered.Cholesterol)},
		{Title: res.Charts.BloodPressure.Title, SVG: template.HTML(rendered.BloodPressure)},
	}
	p.Disclaimer = Disclaimer
	return p, nil
}

// Details echoes every field with its human readable value, split in the
// two columns of the result page.
func Details(in patient.Input) [2][]Row {
	return [2][]Row{
		{
			{"Age", fmt.Sprintf("%d years", in.Age)},
			{"Sex", in.Sex.Label()},
			{"Chest Pain Type", in.ChestPain.Label()},
			{"Resting Blood Pressure", fmt.Sprintf("%d mmHg", in.RestingBP)},
			{"Cholesterol", fmt.Sprintf("%d mg/dl", in.Cholesterol)},
			{"Fasting Blood Sugar > 120", in.FastingBloodSugar.Label()},
		},
		{
			{"Max Heart Rate (Thalach)", strconv.Itoa(in.MaxHeartRate)},
			{"Exercise Induced Angina", in.ExerciseAngina.Label()},
			{"ST Depression (Oldpeak)", strconv.FormatFloat(in.Oldpeak, 'f', 1, 64)},
			{"ST Slope", in.Slope.Label()},
			{"Major Vessels (CA)", in.MajorVessels.Label()},
			{"Thalassemia", in.Thal.Label()},
		},
	}
}

// Templates parses the embedded page template.
func Templates() (*template.Template, error) {
	return template.New(PageTemplate).Funcs(template.FuncMap{
		"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	}).ParseFS(templateFS, "templates/*.html")
}

// Static returns the embedded stylesheet directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
