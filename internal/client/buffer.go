// Package client implements the dashboard side of the system: logging in,
// consuming the live transaction feed, maintaining the rolling chart window,
// and pushing it to a renderer.
package client

import (
	"txDashApp/internal/domain/model"
)

// WindowSize is the fixed capacity of the chart window: the dashboard shows
// the 20 most recent transactions.
const WindowSize = 20

// labelLength is how many characters of the transaction id make the bar label.
const labelLength = 8

// ChartPoint is one (label, amount) pair derived from a transaction event.
type ChartPoint struct {
	Label  string
	Amount float64
}

// NewChartPoint derives a chart point from an inbound transaction event.
// The label is the first 8 characters of the transaction id.
func NewChartPoint(tx *model.Transaction) ChartPoint {
	label := tx.TransactionID
	if len(label) > labelLength {
		label = label[:labelLength]
	}
	return ChartPoint{Label: label, Amount: tx.Details.Amount}
}

// ChartWindow is a fixed-capacity, insertion-ordered window of the most
// recent chart points. Appending beyond capacity discards the oldest point,
// so the window slides by one.
type ChartWindow struct {
	points   []ChartPoint
	capacity int
}

// NewChartWindow creates an empty window with the standard capacity.
func NewChartWindow() *ChartWindow {
	return newChartWindow(WindowSize)
}

func newChartWindow(capacity int) *ChartWindow {
	return &ChartWindow{
		points:   make([]ChartPoint, 0, capacity),
		capacity: capacity,
	}
}

// Append adds one point to the end of the window, evicting the oldest point
// when the window is full. Pure and synchronous, with no failure modes.
func (w *ChartWindow) Append(p ChartPoint) {
	if len(w.points) == w.capacity {
		copy(w.points, w.points[1:])
		w.points = w.points[:w.capacity-1]
	}
	w.points = append(w.points, p)
}

// Len returns the number of points currently in the window.
func (w *ChartWindow) Len() int {
	return len(w.points)
}

// Points returns a copy of the window contents in arrival order.
func (w *ChartWindow) Points() []ChartPoint {
	out := make([]ChartPoint, len(w.points))
	copy(out, w.points)
	return out
}
