package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestHeatmapIntensity(t *testing.T) {
	tests := []struct {
		name     string
		earnings decimal.Decimal
		max      decimal.Decimal
		want     float64
	}{
		{"Zero max yields zero", decimal.NewFromInt(50), decimal.Zero, 0},
		{"Zero earnings", decimal.Zero, decimal.NewFromInt(200), 0},
		{"Half of max", decimal.NewFromInt(100), decimal.NewFromInt(200), 0.5},
		{"Equal to max", decimal.NewFromInt(200), decimal.NewFromInt(200), 1},
		{"Above max clamps to one", decimal.NewFromInt(300), decimal.NewFromInt(200), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeatmapIntensity(tt.earnings, tt.max); got != tt.want {
				t.Errorf("Expected intensity %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHeatmapColorFor(t *testing.T) {
	tests := []struct {
		name      string
		intensity float64
		want      string
	}{
		{"Zero uses empty color", 0, "#ebedf0"},
		{"Low band", 0.1, "#c6f6d5"},
		{"Low band boundary", 0.2, "#c6f6d5"},
		{"Mid band", 0.3, "#68d391"},
		{"High band", 0.5, "#38a169"},
		{"High band boundary", 0.7, "#38a169"},
		{"Top band", 0.8, "#22543d"},
		{"Full intensity", 1, "#22543d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeatmapColorFor(tt.intensity); got != tt.want {
				t.Errorf("Expected color %s, got %s", tt.want, got)
			}
		})
	}
}
