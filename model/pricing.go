package model

import "github.com/shopspring/decimal"

// PriceTable holds the flat monthly prices and age thresholds used to
// estimate waste. Prices are averages in USD, not billing data.
type PriceTable struct {
	StorageGBMonth         decimal.Decimal
	SnapshotGBMonth        decimal.Decimal
	FloatingIPMonth        decimal.Decimal
	LoadBalancerMonth      decimal.Decimal
	SnapshotAgeDays        int
	StoppedInstanceAgeDays int
	AssumedVolumeSizeGB    int32
}

// DefaultPriceTable returns the compiled-in price constants.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		StorageGBMonth:         decimal.RequireFromString("0.08"),
		SnapshotGBMonth:        decimal.RequireFromString("0.05"),
		FloatingIPMonth:        decimal.RequireFromString("3.65"),
		LoadBalancerMonth:      decimal.RequireFromString("16.42"),
		SnapshotAgeDays:        30,
		StoppedInstanceAgeDays: 7,
		AssumedVolumeSizeGB:    30,
	}
}

// VolumeCost prices sizeGB of block storage for a month.
func (p PriceTable) VolumeCost(sizeGB int32) decimal.Decimal {
	return decimal.NewFromInt32(nonNegative(sizeGB)).Mul(p.StorageGBMonth)
}

// SnapshotCost prices sizeGB of snapshot storage for a month.
func (p PriceTable) SnapshotCost(sizeGB int32) decimal.Decimal {
	return decimal.NewFromInt32(nonNegative(sizeGB)).Mul(p.SnapshotGBMonth)
}

func nonNegative(v int32) int32 {
	if v < 0 {
		return 0
	}
	return v
}
