package service

import (
	"github.com/servana/servana-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputePercentageChange compares a current aggregate against a baseline.
//
// A zero baseline cannot produce a true ratio, so two special cases apply:
// both zero reports 0% flat, and growth from zero reports a fixed +100% up.
// Otherwise the change is (current-baseline)/baseline*100 rounded to 2
// decimals, with the trend following the sign of the rounded value.
func ComputePercentageChange(current, baseline decimal.Decimal) *domain.ComparisonResult {
	result := &domain.ComparisonResult{
		BaselineAmount: baseline,
		CurrentAmount:  current,
	}

	if baseline.IsZero() {
		if current.IsZero() {
			result.PercentageChange = decimal.Zero
			result.Trend = domain.TrendFlat
		} else {
			result.PercentageChange = hundred
			result.Trend = domain.TrendUp
		}
		return result
	}

	change := current.Sub(baseline).Div(baseline).Mul(hundred).Round(2)
	result.PercentageChange = change
	switch change.Sign() {
	case 1:
		result.Trend = domain.TrendUp
	case -1:
		result.Trend = domain.TrendDown
	default:
		result.Trend = domain.TrendFlat
	}
	return result
}
