package core

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	FilterAll     Filter = "All"
	FilterPaid    Filter = "Paid"
	FilterUnpaid  Filter = "Unpaid"
	FilterPending Filter = "Pending"
)

const (
	SortDefault    SortOrder = "Default"
	SortAmountDesc SortOrder = "AmountDesc"
	SortAmountAsc  SortOrder = "AmountAsc"
	SortNameAsc    SortOrder = "NameAsc"
)

type (
	// Filter restricts a view to bills of one status, or All.
	Filter string

	// SortOrder selects the ordering applied to a view.
	SortOrder string
)

// ParseFilter maps a raw filter string to the enumerated set.
// An empty string defaults to All.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.TrimSpace(s)) {
	case "":
		return FilterAll, nil
	case FilterAll:
		return FilterAll, nil
	case FilterPaid:
		return FilterPaid, nil
	case FilterUnpaid:
		return FilterUnpaid, nil
	case FilterPending:
		return FilterPending, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ParseSortOrder maps a raw sort string to the enumerated set.
// An empty string defaults to Default (insertion order).
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.TrimSpace(s)) {
	case "":
		return SortDefault, nil
	case SortDefault:
		return SortDefault, nil
	case SortAmountDesc:
		return SortAmountDesc, nil
	case SortAmountAsc:
		return SortAmountAsc, nil
	case SortNameAsc:
		return SortNameAsc, nil
	default:
		return "", ErrInvalidSort
	}
}

// Matches reports whether a bill passes the filter.
func (f Filter) Matches(b Bill) bool {
	return f == FilterAll || Status(f) == b.Status
}

// ApplyView returns a new slice holding the bills that pass the filter,
// ordered per the sort selection. The input slice is never reordered;
// sorting is stable, so equal amounts keep their relative input order.
func ApplyView(bills []Bill, filter Filter, order SortOrder) []Bill {
	view := make([]Bill, 0, len(bills))
	for _, b := range bills {
		if filter.Matches(b) {
			view = append(view, b)
		}
	}

	switch order {
	case SortAmountDesc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Amount.Value.GreaterThan(view[j].Amount.Value)
		})
	case SortAmountAsc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Amount.Value.LessThan(view[j].Amount.Value)
		})
	case SortNameAsc:
		coll := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(view, func(i, j int) bool {
			return coll.CompareString(view[i].Label(), view[j].Label()) < 0
		})
	}
	return view
}
