package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/heartrisk/internal/assessment"
	"github.com/Skufu/heartrisk/internal/charts"
	"github.com/Skufu/heartrisk/internal/patient"
	"github.com/Skufu/heartrisk/internal/risk"
)

type fakeRenderer struct {
	err error
}

func (f fakeRenderer) Render(set charts.Set) (charts.Rendered, error) {
	if f.err != nil {
		return charts.Rendered{}, f.err
	}
	svg := func(name string) []byte { return []byte("<svg><text>" + name + "</text></svg>") }
	return charts.Rendered{
		Gauge:         svg(set.Gauge.Label),
		Distribution:  svg("dist"),
		Cholesterol:   svg("chol"),
		BloodPressure: svg("bp"),
	}, nil
}

func result(probability float64) *assessment.Result {
	in := patient.Defaults()
	return &assessment.Result{
		Input:      in,
		Assessment: risk.NewAssessment(probability),
		Charts:     charts.Build(probability, in),
	}
}

func TestDetails(t *testing.T) {
	d := Details(patient.Defaults())
	require.Len(t, d[0], 6)
	require.Len(t, d[1], 6)
	assert.Equal(t, Row{"Age", "50 years"}, d[0][0])
	assert.Equal(t, Row{"Sex", "Male (1)"}, d[0][1])
	assert.Equal(t, Row{"Chest Pain Type", "0 – Typical Angina"}, d[0][2])
	assert.Equal(t, Row{"ST Depression (Oldpeak)", "1.0"}, d[1][2])
	assert.Equal(t, Row{"Thalassemia", "1 – Normal"}, d[1][5])
}

func TestResultPage(t *testing.T) {
	p, err := ResultPage(result(42), fakeRenderer{})
	require.NoError(t, err)

	require.NotNil(t, p.Banner)
	assert.Equal(t, "MODERATE RISK", p.Banner.Level)
	assert.Equal(t, "#f1c40f", p.Banner.Color)
	assert.Equal(t, "42.00%", p.Banner.Percent)
	assert.Len(t, p.Charts, 4)
	assert.Equal(t, Narrative, p.Narrative)
}

func TestResultPage_NarrativeIsStatic(t *testing.T) {
	low, err := ResultPage(result(5), fakeRenderer{})
	require.NoError(t, err)
	high, err := ResultPage(result(95), fakeRenderer{})
	require.NoError(t, err)
	assert.Equal(t, low.Narrative, high.Narrative)
}

func TestResultPage_RenderError(t *testing.T) {
	_, err := ResultPage(result(42), fakeRenderer{err: errors.New("no font")})
	assert.Error(t, err)
}

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	p, err := ResultPage(result(90), fakeRenderer{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, PageTemplate, p))
	html := buf.String()

	assert.Contains(t, html, "Predicted Risk Level: SEVERE RISK")
	assert.Contains(t, html, "Risk Probability: 90.00%")
	assert.Contains(t, html, "<svg><text>90.0%</text></svg>")
	assert.Contains(t, html, "Disclaimer:")
	assert.Equal(t, 8, strings.Count(html, "<select "))
	assert.Equal(t, 5, strings.Count(html, `type="range"`))
}

func TestTemplates_FormOnly(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, PageTemplate, ErrorPage(patient.Defaults(), "Prediction unavailable")))
	html := buf.String()
	assert.Contains(t, html, "Prediction unavailable")
	assert.NotContains(t, html, "Predicted Risk Level")
	assert.Contains(t, html, `value="1" selected`)
}

func TestStatic(t *testing.T) {
	f, err := Static().Open("styles.css")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
