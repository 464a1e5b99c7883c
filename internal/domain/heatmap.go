package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HeatmapLevel is one display bucket of the calendar heatmap. A day falls
// into the first level whose threshold its intensity does not exceed.
type HeatmapLevel struct {
	Threshold float64 `json:"threshold"`
	Color     string  `json:"color"`
}

// HeatmapScale is the fixed five-level intensity scale. Level 0 is reserved
// for days with no earnings.
var HeatmapScale = [5]HeatmapLevel{
	{Threshold: 0, Color: "#ebedf0"},
	{Threshold: 0.2, Color: "#c6f6d5"},
	{Threshold: 0.4, Color: "#68d391"},
	{Threshold: 0.7, Color: "#38a169"},
	{Threshold: 1, Color: "#22543d"},
}

// HeatmapDay is one cell of the calendar heatmap.
type HeatmapDay struct {
	Date      time.Time       `json:"date"`
	Earnings  decimal.Decimal `json:"earnings"`
	Intensity float64         `json:"intensity"`
	Color     string          `json:"color"`
}

// HeatmapIntensity normalizes a day's earnings against the maximum day in
// the displayed range, clamped to [0, 1]. A non-positive maximum yields 0.
func HeatmapIntensity(earnings, maxEarnings decimal.Decimal) float64 {
	if maxEarnings.Sign() <= 0 {
		return 0
	}
	ratio, _ := earnings.Div(maxEarnings).Float64()
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// HeatmapColorFor picks the display color for an intensity by walking
// HeatmapScale in order.
func HeatmapColorFor(intensity float64) string {
	for _, level := range HeatmapScale[:len(HeatmapScale)-1] {
		if intensity <= level.Threshold {
			return level.Color
		}
	}
	return HeatmapScale[len(HeatmapScale)-1].Color
}
