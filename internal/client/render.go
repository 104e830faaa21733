package client

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
)

// Renderer is the boundary to the chart widget. Render replaces the widget's
// entire label and value sequences with the given points and redraws; each
// call is a full resync, not an incremental diff, so rendering the same
// points twice yields the same visible state.
type Renderer interface {
	Render(points []ChartPoint) error
}

// ChartRenderer draws the window as a bar chart image file, overwriting the
// previous frame on every call.
type ChartRenderer struct {
	path   string
	width  int
	height int
}

// NewChartRenderer creates a renderer writing PNG frames to the given path.
func NewChartRenderer(path string) *ChartRenderer {
	return &ChartRenderer{
		path:   path,
		width:  1280,
		height: 720,
	}
}

// Render draws the points as a bar chart. An empty window is a no-op since
// the chart library rejects empty series.
func (r *ChartRenderer) Render(points []ChartPoint) error {
	if len(points) == 0 {
		return nil
	}

	bars := make([]chart.Value, len(points))
	for i, p := range points {
		bars[i] = chart.Value{Label: p.Label, Value: p.Amount}
	}

	graph := chart.BarChart{
		Title:    "Latest Transactions",
		Width:    r.width,
		Height:   r.height,
		BarWidth: 40,
		Bars:     bars,
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

var _ Renderer = (*ChartRenderer)(nil)
