package client_test

import (
	"fmt"
	"testing"

	"txDashApp/internal/client"
	"txDashApp/internal/domain/model"
)

func TestChartWindowLengthNeverExceedsCapacity(t *testing.T) {
	w := client.NewChartWindow()

	for i := 0; i < 50; i++ {
		w.Append(client.ChartPoint{Label: fmt.Sprintf("tx%d", i), Amount: float64(i)})

		want := i + 1
		if want > client.WindowSize {
			want = client.WindowSize
		}
		if w.Len() != want {
			t.Fatalf("after %d appends: expected length %d, got %d", i+1, want, w.Len())
		}
	}
}

func TestChartWindowKeepsLastTwentyInOrder(t *testing.T) {
	w := client.NewChartWindow()

	const total = 35
	for i := 0; i < total; i++ {
		w.Append(client.ChartPoint{Label: fmt.Sprintf("tx%d", i), Amount: float64(i)})
	}

	points := w.Points()
	if len(points) != client.WindowSize {
		t.Fatalf("expected %d points, got %d", client.WindowSize, len(points))
	}

	// The window must hold exactly the last 20 appended points, oldest first
	for i, p := range points {
		wantLabel := fmt.Sprintf("tx%d", total-client.WindowSize+i)
		if p.Label != wantLabel {
			t.Errorf("point %d: expected label %s, got %s", i, wantLabel, p.Label)
		}
		if p.Amount != float64(total-client.WindowSize+i) {
			t.Errorf("point %d: expected amount %f, got %f", i, float64(total-client.WindowSize+i), p.Amount)
		}
	}
}

func TestChartWindowPointsReturnsCopy(t *testing.T) {
	w := client.NewChartWindow()
	w.Append(client.ChartPoint{Label: "tx0", Amount: 1})

	points := w.Points()
	points[0].Label = "mutated"

	if w.Points()[0].Label != "tx0" {
		t.Error("mutating the returned slice must not affect the window")
	}
}

func TestNewChartPointDerivesLabel(t *testing.T) {
	tx := &model.Transaction{
		TransactionID: "abcdef1234567890",
		Details:       model.TransactionDetails{Amount: 42.5},
	}

	p := client.NewChartPoint(tx)
	if p.Label != "abcdef12" {
		t.Errorf("expected label abcdef12, got %s", p.Label)
	}
	if p.Amount != 42.5 {
		t.Errorf("expected amount 42.5, got %f", p.Amount)
	}
}

func TestNewChartPointShortID(t *testing.T) {
	tx := &model.Transaction{
		TransactionID: "abc",
		Details:       model.TransactionDetails{Amount: 1},
	}

	if p := client.NewChartPoint(tx); p.Label != "abc" {
		t.Errorf("expected short id to be used whole, got %s", p.Label)
	}
}
