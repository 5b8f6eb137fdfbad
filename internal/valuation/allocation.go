package valuation

import (
	"sort"

	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/shopspring/decimal"
)

// Allocate groups market value by asset type.
// Groups valued at zero or less are omitted. Entries are sorted by value descending,
// equal values by asset type ascending.
func Allocate(positions []model.Position, prices model.Prices) []model.AllocationEntry {
	byType := make(map[model.AssetType]decimal.Decimal)
	for _, p := range positions {
		byType[p.AssetType] = byType[p.AssetType].Add(MarketValue(p, prices))
	}

	total := decimal.Zero
	entries := make([]model.AllocationEntry, 0, len(byType))
	for assetType, value := range byType {
		if !value.IsPositive() {
			continue
		}
		total = total.Add(value)
		entries = append(entries, model.AllocationEntry{AssetType: assetType, Value: value})
	}

	for i := range entries {
		entries[i].PercentageAllocation = percentOf(entries[i].Value, total)
	}

	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Value.Cmp(entries[j].Value); c != 0 {
			return c > 0
		}
		return entries[i].AssetType < entries[j].AssetType
	})

	return entries
}
