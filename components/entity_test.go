package components

import (
	"math"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 40}
	if r.Right() != 40 {
		t.Errorf("Right() = %v, want 40", r.Right())
	}
	if r.Bottom() != 60 {
		t.Errorf("Bottom() = %v, want 60", r.Bottom())
	}
}

func TestRectFinite(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"normal", Rect{X: 1, Y: 2, W: 3, H: 4}, true},
		{"zero size", Rect{}, true},
		{"nan x", Rect{X: math.NaN()}, false},
		{"inf y", Rect{Y: math.Inf(1)}, false},
		{"negative width", Rect{W: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Finite(); got != tt.want {
				t.Errorf("Finite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIDAllocator(t *testing.T) {
	var ids IDAllocator
	if got := ids.Alloc(); got != 1 {
		t.Errorf("first id = %d, want 1", got)
	}
	if got := ids.Alloc(); got != 2 {
		t.Errorf("second id = %d, want 2", got)
	}

	resumed := IDAllocator{Last: 41}
	if got := resumed.Alloc(); got != 42 {
		t.Errorf("resumed id = %d, want 42", got)
	}
}

func TestPlayerAlive(t *testing.T) {
	if (Player{Lives: 0}).Alive() {
		t.Error("player with zero lives should be inert")
	}
	if !(Player{Lives: 1}).Alive() {
		t.Error("player with one life should be alive")
	}
}
