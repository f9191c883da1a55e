package core

import "github.com/shopspring/decimal"

// Totals maps each enumerated status to the summed amount value of the
// bills in that status.
type Totals map[Status]decimal.Decimal

// TotalsByStatus aggregates amount values per status. Every enumerated
// status is present in the result, zero when no bill carries it. Bills
// with a status outside the enumerated set are excluded.
func TotalsByStatus(bills []Bill) Totals {
	t := make(Totals, 3)
	for _, s := range Statuses() {
		t[s] = decimal.Zero
	}
	for _, b := range bills {
		if cur, ok := t[b.Status]; ok {
			t[b.Status] = cur.Add(b.Amount.Value)
		}
	}
	return t
}
