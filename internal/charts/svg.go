package charts

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Rendered holds one encoded image per chart.
type Rendered struct {
	Gauge         []byte
	Distribution  []byte
	Cholesterol   []byte
	BloodPressure []byte
}

// Renderer draws a chart Set. Implementations are swappable without
// touching encoding or classification.
type Renderer interface {
	Render(set Set) (Rendered, error)
}

// SVGRenderer draws charts as SVG with go-chart.
type SVGRenderer struct {
	Width  int
	Height int
}

// NewSVGRenderer returns a renderer with the default figure size.
func NewSVGRenderer() SVGRenderer {
	return SVGRenderer{Width: 360, Height: 260}
}

func (s SVGRenderer) Render(set Set) (Rendered, error) {
	var (
		out Rendered
		err error
	)
	if out.Gauge, err = s.Gauge(set.Gauge); err != nil {
		return Rendered{}, fmt.Errorf("render gauge: %w", err)
	}
	if out.Distribution, err = s.Distribution(set.Distribution); err != nil {
		return Rendered{}, fmt.Errorf("render distribution: %w", err)
	}
	if out.Cholesterol, err = s.Comparison(set.Cholesterol); err != nil {
		return Rendered{}, fmt.Errorf("render cholesterol: %w", err)
	}
	if out.BloodPressure, err = s.Trend(set.BloodPressure); err != nil {
		return Rendered{}, fmt.Errorf("render blood pressure: %w", err)
	}
	return out, nil
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func titleStyle() chart.Style {
	return chart.Style{FontColor: color(TitleColor), FontSize: 12}
}

func axisStyle() chart.Style {
	return chart.Style{FontColor: drawing.ColorWhite, StrokeColor: drawing.ColorWhite, FontSize: 8}
}

func faceStyle(padTop int) chart.Style {
	return chart.Style{
		FillColor: color(FaceColor),
		Padding:   chart.Box{Top: padTop, Left: 12, Right: 16, Bottom: 12},
	}
}

// Gauge draws the meter directly on a go-chart SVG canvas: the grey track,
// the three band arcs, the needle and the centered percentage.
func (s SVGRenderer) Gauge(g Gauge) ([]byte, error) {
	r, err := chart.SVG(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r.SetFont(font)

	w, h := s.Width, s.Height
	r.SetFillColor(color(FaceColor))
	r.MoveTo(0, 0)
	r.LineTo(w, 0)
	r.LineTo(w, h)
	r.LineTo(0, h)
	r.Close()
	r.Fill()

	cx, cy := w/2, h*3/4
	radius := math.Min(float64(w)/2-30, float64(cy)-40)
	at := func(angle, length float64) (int, int) {
		return cx + int(math.Round(length*math.Cos(angle))), cy - int(math.Round(length*math.Sin(angle)))
	}
	arc := func(from, to float64, c string) {
		steps := int(math.Max(2, math.Ceil((to-from)*2)))
		r.SetStrokeColor(color(c))
		r.SetStrokeWidth(12)
		x, y := at(g.Angle(from), radius)
		r.MoveTo(x, y)
		for i := 1; i <= steps; i++ {
			x, y = at(g.Angle(from+(to-from)*float64(i)/float64(steps)), radius)
			r.LineTo(x, y)
		}
		r.Stroke()
	}

	arc(g.Min, g.Max, g.Track)
	for _, seg := range g.Segments {
		arc(seg.From, seg.To, seg.Color)
	}

	r.SetStrokeColor(color(g.Needle))
	r.SetStrokeWidth(4)
	r.MoveTo(cx, cy)
	r.LineTo(at(g.NeedleAngle(), g.NeedleLength*radius))
	r.Stroke()

	r.SetFillColor(color(g.Needle))
	r.SetStrokeColor(color(g.Needle))
	r.SetStrokeWidth(1)
	r.Circle(5, cx, cy)
	r.FillStroke()

	r.SetFontColor(color(TitleColor))
	r.SetFontSize(14)
	box := r.MeasureText(g.Label)
	r.Text(g.Label, cx-box.Width()/2, cy+int(0.2*radius)+box.Height())

	r.SetFontSize(12)
	box = r.MeasureText(g.Title)
	r.Text(g.Title, cx-box.Width()/2, 10+box.Height())

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Distribution draws the healthy/at-risk split. Empty slices are skipped
// since go-chart cannot lay out zero-width wedges.
func (s SVGRenderer) Distribution(d Distribution) ([]byte, error) {
	values := make([]chart.Value, 0, len(d.Slices))
	for _, sl := range d.Slices {
		if sl.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", sl.Label, sl.Value),
			Value: sl.Value,
			Style: chart.Style{FillColor: color(sl.Color), StrokeColor: color(FaceColor), StrokeWidth: 2},
		})
	}

	pie := chart.PieChart{
		Title:      d.Title,
		TitleStyle: titleStyle(),
		Width:      s.Width,
		Height:     s.Height,
		Background: faceStyle(36),
		Canvas:     chart.Style{FillColor: color(FaceColor)},
		SliceStyle: chart.Style{FontColor: drawing.ColorWhite, FontSize: 9},
		Values:     values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Comparison draws the bars with a dashed line at the reference value.
func (s SVGRenderer) Comparison(c Comparison) ([]byte, error) {
	top := c.Reference
	bars := make([]chart.Value, 0, len(c.Bars))
	for _, b := range c.Bars {
		top = math.Max(top, b.Value)
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: color(b.Color), StrokeColor: color(b.Color)},
		})
	}
	yRange := &chart.ContinuousRange{Min: 0, Max: top * 1.15}

	bc := chart.BarChart{
		Title:      c.Title,
		TitleStyle: titleStyle(),
		Width:      s.Width,
		Height:     s.Height,
		Background: faceStyle(40),
		Canvas:     chart.Style{FillColor: color(FaceColor)},
		XAxis:      axisStyle(),
		YAxis: chart.YAxis{
			Name:      c.Unit,
			NameStyle: axisStyle(),
			Style:     axisStyle(),
			Range:     yRange,
		},
		BarWidth: 70,
		Bars:     bars,
		Elements: []chart.Renderable{referenceLine(c.Reference, yRange)},
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func referenceLine(value float64, yRange *chart.ContinuousRange) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, _ chart.Style) {
		span := yRange.Max - yRange.Min
		if span <= 0 {
			return
		}
		y := canvas.Bottom - int(math.Round(float64(canvas.Height())*(value-yRange.Min)/span))
		r.SetStrokeColor(color("#e5e7eb"))
		r.SetStrokeWidth(1)
		r.SetStrokeDashArray([]float64{5, 4})
		r.MoveTo(canvas.Left, y)
		r.LineTo(canvas.Right, y)
		r.Stroke()
		r.SetStrokeDashArray(nil)
	}
}

// Trend draws the points as a line with markers. The y range is padded so
// that a flat line (oldpeak 0) still has a non-zero span.
func (s SVGRenderer) Trend(t Trend) ([]byte, error) {
	xs := make([]float64, 0, len(t.Points))
	ys := make([]float64, 0, len(t.Points))
	ticks := make([]chart.Tick, 0, len(t.Points))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range t.Points {
		xs = append(xs, float64(i))
		ys = append(ys, p.Value)
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Label})
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("trend %q has no points", t.Title)
	}

	c := color(t.Color)
	ch := chart.Chart{
		Title:      t.Title,
		TitleStyle: titleStyle(),
		Width:      s.Width,
		Height:     s.Height,
		Background: faceStyle(40),
		Canvas:     chart.Style{FillColor: color(FaceColor)},
		XAxis: chart.XAxis{
			Style: axisStyle(),
			Range: &chart.ContinuousRange{Min: -0.25, Max: float64(len(xs)-1) + 0.25},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:      t.Unit,
			NameStyle: axisStyle(),
			Style:     axisStyle(),
			Range:     &chart.ContinuousRange{Min: math.Floor(lo - 10), Max: math.Ceil(hi + 10)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    t.Title,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: c,
					StrokeWidth: 2.2,
					DotColor:    c,
					DotWidth:    4,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
