package period

import (
	"github.com/shopspring/decimal"
)

// Prorate splits total across the interval's buckets in proportion to the
// number of days each bucket covers. Every share but the last is rounded
// to places decimal places. The last bucket takes total minus the others,
// unrounded, so the shares always sum to total exactly.
//
// Example: 90 over Jan/Feb/Mar 2024 (31/29/31 days) at 2 places
// gives 30.66, 28.68, 30.66.
func (iv *Interval) Prorate(total decimal.Decimal, places int32) []decimal.Decimal {
	buckets := iv.Buckets()
	shares := make([]decimal.Decimal, len(buckets))

	totalDays := decimal.NewFromInt(int64(iv.Days()))
	allocated := decimal.Zero
	for i, b := range buckets {
		if i == len(buckets)-1 {
			shares[i] = total.Sub(allocated)
			break
		}
		days := decimal.NewFromInt(int64(b.Days()))
		shares[i] = total.Mul(days).Div(totalDays).Round(places)
		allocated = allocated.Add(shares[i])
	}
	return shares
}
