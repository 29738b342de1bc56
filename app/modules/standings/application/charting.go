package standingsservice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ChartKind names one of the standings charts.
type ChartKind string

const (
	ChartWinRate ChartKind = "winrate"
	ChartRating  ChartKind = "rating"
	ChartGames   ChartKind = "games"
)

// ChartKinds lists every chart in page order.
var ChartKinds = []ChartKind{ChartWinRate, ChartRating, ChartGames}

// ParseChartKind validates a chart name from a URL.
func ParseChartKind(s string) (ChartKind, error) {
	for _, k := range ChartKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
}

// Title is the heading shown above the chart.
func (k ChartKind) Title() string {
	switch k {
	case ChartWinRate:
		return "Win Rate (%)"
	case ChartRating:
		return "Rating (mu)"
	case ChartGames:
		return "Games: Wins / Draws / Losses"
	default:
		return string(k)
	}
}

// ChartPalette holds the colours for one theme.
type ChartPalette struct {
	Background drawing.Color
	Text       drawing.Color
	Grid       drawing.Color
	WinRate    drawing.Color
	Track      drawing.Color
	Rating     drawing.Color
	Wins       drawing.Color
	Draws      drawing.Color
	Losses     drawing.Color
}

// PaletteFor returns the chart palette of a theme.
func PaletteFor(theme standingsdomain.Theme) ChartPalette {
	p := ChartPalette{
		WinRate: drawing.Color{R: 54, G: 162, B: 235, A: 255},
		Rating:  drawing.Color{R: 255, G: 159, B: 64, A: 255},
		Wins:    drawing.Color{R: 75, G: 192, B: 192, A: 255},
		Draws:   drawing.Color{R: 201, G: 203, B: 207, A: 255},
		Losses:  drawing.Color{R: 255, G: 99, B: 132, A: 255},
	}
	if theme == standingsdomain.ThemeDark {
		p.Background = drawing.ColorFromHex("1a2332")
		p.Text = drawing.ColorFromHex("e6eef8")
		p.Grid = drawing.Color{R: 255, G: 255, B: 255, A: 26}
	} else {
		p.Background = drawing.ColorWhite
		p.Text = drawing.ColorFromHex("111827")
		p.Grid = drawing.Color{R: 0, G: 0, B: 0, A: 26}
	}
	p.Track = p.Grid
	return p
}

// RenderChart implements Service.
func (s *StandingsService) RenderChart(ctx context.Context, kind ChartKind, theme standingsdomain.Theme) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "StandingsService.RenderChart", trace.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("theme", string(theme)),
	))
	defer span.End()

	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	png, err := RenderChart(kind, ComputeStats(snap.Entries), PaletteFor(theme))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordChartRender(string(kind), string(theme))
	}
	return png, nil
}

// RenderChart draws one chart as PNG. Empty stats produce a placeholder image.
func RenderChart(kind ChartKind, stats Stats, palette ChartPalette) ([]byte, error) {
	switch kind {
	case ChartWinRate:
		return GenerateWinRateChart(stats, palette)
	case ChartRating:
		return GenerateRatingChart(stats, palette)
	case ChartGames:
		return GenerateGamesChart(stats, palette)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
}

// GenerateWinRateChart draws one horizontal bar per player on a fixed
// 0 to 100 percent axis. go-chart has no horizontal bar layout that takes a
// fixed range, so the bars are drawn straight onto the renderer.
func GenerateWinRateChart(stats Stats, palette ChartPalette) ([]byte, error) {
	if stats.Len() == 0 {
		return renderNoDataPlaceholder(palette, "No standings loaded")
	}

	const (
		width      = 900
		top        = 56
		rowHeight  = 30
		barHeight  = 20
		axisHeight = 36
		maxLabel   = 220
	)
	height := top + stats.Len()*rowHeight + axisHeight

	r, text, err := newCanvas(width, height, palette)
	if err != nil {
		return nil, err
	}
	label, title := text, text
	label.FontSize = 10
	title.FontSize = 14
	tb := chart.Draw.MeasureText(r, ChartWinRate.Title(), title)
	chart.Draw.Text(r, ChartWinRate.Title(), (width-tb.Width())/2, 20+tb.Height(), title)

	names := make([]string, stats.Len())
	labelWidth := 0
	for i, name := range stats.Names {
		names[i] = fitText(r, name, maxLabel, label)
		labelWidth = max(labelWidth, chart.Draw.MeasureText(r, names[i], label).Width())
	}

	left := 20 + labelWidth + 10
	right := width - 70
	span := float64(right - left)
	bottom := top + stats.Len()*rowHeight

	for _, pct := range []float64{0, 25, 50, 75, 100} {
		x := left + int(span*pct/100)
		chart.Draw.Box(r, chart.Box{Left: x, Right: x + 1, Top: top - 4, Bottom: bottom}, flat(palette.Grid))
		tick := fmt.Sprintf("%.0f", pct)
		tw := chart.Draw.MeasureText(r, tick, label)
		chart.Draw.Text(r, tick, x-tw.Width()/2, bottom+tw.Height()+8, label)
	}

	for i := range names {
		pct := clamp(stats.WinRates[i]*100, 0, 100)
		y := top + i*rowHeight + (rowHeight-barHeight)/2

		nb := chart.Draw.MeasureText(r, names[i], label)
		chart.Draw.Text(r, names[i], left-10-nb.Width(), y+(barHeight+nb.Height())/2, label)

		chart.Draw.Box(r, chart.Box{Left: left, Right: right, Top: y, Bottom: y + barHeight}, flat(palette.Track))
		if end := left + int(span*pct/100); end > left {
			chart.Draw.Box(r, chart.Box{Left: left, Right: end, Top: y, Bottom: y + barHeight}, chart.Style{
				FillColor:   palette.WinRate.WithAlpha(204),
				StrokeColor: palette.WinRate,
				StrokeWidth: 1,
			})
		}

		value := fmt.Sprintf("%.1f%%", pct)
		vb := chart.Draw.MeasureText(r, value, label)
		chart.Draw.Text(r, value, right+8, y+(barHeight+vb.Height())/2, label)
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// fitText shortens s with an ellipsis until it is at most width pixels wide.
func fitText(r chart.Renderer, s string, width int, style chart.Style) string {
	if chart.Draw.MeasureText(r, s, style).Width() <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		short := string(runes) + "…"
		if chart.Draw.MeasureText(r, short, style).Width() <= width {
			return short
		}
	}
	return string(runes)
}

func flat(c drawing.Color) chart.Style {
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

// GenerateRatingChart draws a bar per player. The axis hugs the data instead
// of starting at zero since ratings cluster far from it.
func GenerateRatingChart(stats Stats, palette ChartPalette) ([]byte, error) {
	if stats.Len() == 0 {
		return renderNoDataPlaceholder(palette, "No standings loaded")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	bars := make([]chart.Value, stats.Len())
	for i, name := range stats.Names {
		mu := stats.Mus[i]
		lo = math.Min(lo, mu)
		hi = math.Max(hi, mu)
		bars[i] = chart.Value{
			Label: name,
			Value: mu,
			Style: chart.Style{
				FillColor:   palette.Rating.WithAlpha(204),
				StrokeColor: palette.Rating,
				StrokeWidth: 1,
			},
		}
	}
	lo, hi = ratingRange(lo, hi)

	graph := chart.BarChart{
		Title:      ChartRating.Title(),
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      chartWidth(stats.Len()),
		Height:     420,
		BarWidth:   36,
		Background: chart.Style{FillColor: palette.Background, Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      chart.Style{FontColor: palette.Text, StrokeColor: palette.Grid},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: palette.Text, StrokeColor: palette.Grid},
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: oneDecimal,
		},
		Bars: bars,
	}
	return render(graph)
}

// ratingRange pads the data range so the lowest bar stays visible. A flat
// range is widened by one on either side.
func ratingRange(lo, hi float64) (float64, float64) {
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return math.Floor(lo - pad), math.Ceil(hi + pad)
}

// GenerateGamesChart draws wins, draws and losses stacked per player. Each
// column is drawn as three overlapping bars, tallest first.
func GenerateGamesChart(stats Stats, palette ChartPalette) ([]byte, error) {
	if stats.Len() == 0 {
		return renderNoDataPlaceholder(palette, "No standings loaded")
	}

	n := stats.Len()
	xs := make([]float64, n)
	total := make([]float64, n)
	winsDraws := make([]float64, n)
	wins := make([]float64, n)
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -1})
	for i, name := range stats.Names {
		xs[i] = float64(i)
		wins[i] = float64(stats.Wins[i])
		winsDraws[i] = wins[i] + float64(stats.Draws[i])
		total[i] = winsDraws[i] + float64(stats.Losses[i])
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: name})
	}
	ticks = append(ticks, chart.Tick{Value: float64(n)})

	graph := chart.Chart{
		Title:      ChartGames.Title(),
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      chartWidth(n),
		Height:     420,
		Background: chart.Style{FillColor: palette.Background, Padding: chart.Box{Top: 50, Left: 10, Right: 10, Bottom: 10}},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis: chart.XAxis{
			Style: chart.Style{FontColor: palette.Text, StrokeColor: palette.Grid},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: palette.Text, StrokeColor: palette.Grid},
			ValueFormatter: chart.IntValueFormatter,
			GridMajorStyle: chart.Style{StrokeColor: palette.Grid, StrokeWidth: 1},
			GridMinorStyle: chart.Style{StrokeColor: palette.Grid, StrokeWidth: 1},
		},
		Series: []chart.Series{
			columnSeries{HistogramSeries: histogram("Losses", xs, total, palette.Losses)},
			columnSeries{HistogramSeries: histogram("Draws", xs, winsDraws, palette.Draws)},
			columnSeries{HistogramSeries: histogram("Wins", xs, wins, palette.Wins)},
		},
	}
	if maxFloat(total) == 0 {
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: 1}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, chart.Style{
		FillColor: palette.Background,
		FontColor: palette.Text,
	})}
	return render(graph)
}

func histogram(name string, xs, ys []float64, color drawing.Color) chart.HistogramSeries {
	return chart.HistogramSeries{
		Name: name,
		Style: chart.Style{
			FillColor:   color.WithAlpha(204),
			StrokeColor: color,
			StrokeWidth: 1,
		},
		InnerSeries: chart.ContinuousSeries{XValues: xs, YValues: ys},
	}
}

// columnSeries is a histogram whose bars leave a gap between columns.
type columnSeries struct {
	chart.HistogramSeries
}

func (cs columnSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	// The x range spans one slot past either end.
	slot := float64(xrange.GetDomain()) / float64(cs.Len()+1)
	width := int(slot * 0.7)
	chart.Draw.HistogramSeries(r, canvasBox, xrange, yrange, cs.Style.InheritFrom(defaults), cs, width)
}

func oneDecimal(v any) string {
	return chart.FloatValueFormatterWithFormat(v, "%.1f")
}

func chartWidth(players int) int {
	return max(800, 120+players*60)
}

func maxFloat(vs []float64) float64 {
	m := 0.0
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(c renderable) ([]byte, error) {
	buffer := bytes.NewBuffer([]byte{})
	if err := c.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// newCanvas returns a PNG renderer filled with the theme background, plus a
// text style carrying the default font and the theme text colour.
func newCanvas(width, height int, palette ChartPalette) (chart.Renderer, chart.Style, error) {
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, chart.Style{}, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, chart.Style{}, err
	}
	r.SetDPI(chart.DefaultDPI)

	chart.Draw.Box(r, chart.Box{Right: width, Bottom: height}, flat(palette.Background))
	return r, chart.Style{Font: font, FontColor: palette.Text}, nil
}

// renderNoDataPlaceholder draws msg centred on a blank canvas. It uses the
// renderer directly since charts refuse to render without series.
func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	r, style, err := newCanvas(width, height, palette)
	if err != nil {
		return nil, err
	}
	style.FontSize = 12
	tb := chart.Draw.MeasureText(r, msg, style)
	chart.Draw.Text(r, msg, (width-tb.Width())/2, (height+tb.Height())/2, style)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
