package engine

import (
	"sort"

	"github.com/hearthside/cartfill/internal/domain"
)

// ExtractBaskets turns raw transactions into itemsets. Purchases group by
// (customer, date); invoice lines group by invoice id. Duplicate items within
// one group collapse. Single-item baskets are kept; they just contribute no
// pairs downstream. Output order is deterministic: purchase baskets sorted by
// group key, then invoice baskets sorted by invoice id, items sorted within
// each basket.
func ExtractBaskets(purchases []domain.Purchase, invoiceItems []domain.InvoiceItem) []domain.Basket {
	byVisit := make(map[string]map[string]struct{})
	for _, p := range purchases {
		key := p.CustomerID + "\x00" + p.Date
		set, ok := byVisit[key]
		if !ok {
			set = make(map[string]struct{})
			byVisit[key] = set
		}
		set[p.Item] = struct{}{}
	}

	byInvoice := make(map[string]map[string]struct{})
	for _, li := range invoiceItems {
		set, ok := byInvoice[li.InvoiceID]
		if !ok {
			set = make(map[string]struct{})
			byInvoice[li.InvoiceID] = set
		}
		set[li.Item] = struct{}{}
	}

	baskets := make([]domain.Basket, 0, len(byVisit)+len(byInvoice))
	baskets = appendSorted(baskets, byVisit)
	baskets = appendSorted(baskets, byInvoice)
	return baskets
}

func appendSorted(dst []domain.Basket, groups map[string]map[string]struct{}) []domain.Basket {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		set := groups[k]
		b := make(domain.Basket, 0, len(set))
		for item := range set {
			b = append(b, item)
		}
		sort.Strings(b)
		dst = append(dst, b)
	}
	return dst
}
