// Package reconcile matches schedule records against order records and flags
// delivery periods that moved between the two exports.
//
// Each schedule record is looked up by its reference in the customer PO
// column of the orders. When several orders share a PO, the one with the
// highest CO number is used. Exactly one result is produced per schedule
// record, in schedule order.
package reconcile

import (
	"sort"

	"github.com/nconklindev/dateline/internal/types"

	"github.com/shopspring/decimal"
)

// Reconcile returns one verdict per schedule record.
func Reconcile(schedule []types.ScheduleRecord, orders []types.OrderRecord) []types.ReconciliationRecord {
	index := indexByPO(orders)

	results := make([]types.ReconciliationRecord, 0, len(schedule))
	for _, s := range schedule {
		results = append(results, match(s, index))
	}
	return results
}

func match(s types.ScheduleRecord, index map[string]types.OrderRecord) types.ReconciliationRecord {
	rec := types.ReconciliationRecord{
		ItemNumber:     s.ItemNumber,
		Reference:      s.Reference,
		SchedulePeriod: s.PeriodKey,
	}

	order, ok := index[s.Reference]
	switch {
	case !ok:
		rec.OrderPeriod = types.NoMatchFound
		rec.Verdict = types.VerdictReferenceNotFound
	case order.PeriodKey == s.PeriodKey:
		rec.OrderPeriod = order.PeriodKey
		rec.Verdict = types.VerdictUnchanged
	default:
		rec.OrderPeriod = order.PeriodKey
		rec.Verdict = types.VerdictChanged
	}

	return rec
}

// indexByPO keeps, for every customer PO, the order with the highest CO number.
func indexByPO(orders []types.OrderRecord) map[string]types.OrderRecord {
	sorted := make([]types.OrderRecord, len(orders))
	copy(sorted, orders)
	SortByCONumberDesc(sorted)

	index := make(map[string]types.OrderRecord, len(sorted))
	for _, o := range sorted {
		if o.CustomerPO == "" {
			continue
		}
		if _, seen := index[o.CustomerPO]; !seen {
			index[o.CustomerPO] = o
		}
	}
	return index
}

// SortByCONumberDesc orders records by numeric CO number, highest first.
// Non-numeric CO numbers sort after every numeric one; ties keep input order.
func SortByCONumberDesc(orders []types.OrderRecord) {
	keys := make([]decimal.NullDecimal, len(orders))
	for i, o := range orders {
		if d, err := decimal.NewFromString(o.CONumber); err == nil {
			keys[i] = decimal.NewNullDecimal(d)
		}
	}

	idx := make([]int, len(orders))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if !ka.Valid || !kb.Valid {
			return ka.Valid && !kb.Valid
		}
		return ka.Decimal.GreaterThan(kb.Decimal)
	})

	reordered := make([]types.OrderRecord, len(orders))
	for i, j := range idx {
		reordered[i] = orders[j]
	}
	copy(orders, reordered)
}

// Summarize counts verdicts across the reconciliation output.
func Summarize(schedule []types.ScheduleRecord, orders []types.OrderRecord, results []types.ReconciliationRecord) types.Summary {
	sum := types.Summary{
		ScheduleRows: len(schedule),
		OrderRows:    len(orders),
	}
	for _, r := range results {
		switch r.Verdict {
		case types.VerdictUnchanged:
			sum.Unchanged++
		case types.VerdictChanged:
			sum.Changed++
		case types.VerdictReferenceNotFound:
			sum.ReferenceNotFound++
		}
	}
	return sum
}
