package client

import (
	"context"
	"log"

	"txDashApp/internal/domain/model"
)

// Dashboard ties the transport's event stream to the chart window and the
// renderer. All window and renderer mutation happens on the single goroutine
// inside Run, so neither needs locking.
type Dashboard struct {
	window   *ChartWindow
	renderer Renderer
	events   <-chan *model.Transaction
}

// NewDashboard creates a dashboard consuming the given event stream.
func NewDashboard(events <-chan *model.Transaction, renderer Renderer) *Dashboard {
	return &Dashboard{
		window:   NewChartWindow(),
		renderer: renderer,
		events:   events,
	}
}

// Window exposes the chart window, mainly for tests.
func (d *Dashboard) Window() *ChartWindow {
	return d.window
}

// Run processes events until the context is cancelled or the event channel
// closes. Each event appends one point to the window and triggers a full
// redraw; render failures are logged and do not stop the feed.
func (d *Dashboard) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tx, ok := <-d.events:
			if !ok {
				return nil
			}
			if tx == nil {
				continue
			}
			d.window.Append(NewChartPoint(tx))
			if err := d.renderer.Render(d.window.Points()); err != nil {
				log.Printf("render error: %v", err)
			}
		}
	}
}
