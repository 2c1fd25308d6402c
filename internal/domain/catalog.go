package domain

import "sort"

// Catalog is the closed, static snapshot of the product universe: every
// sellable item, the curated complement lists, the main-product set, and the
// room/price maps. Immutable after bootstrap.
type Catalog struct {
	Items        []string            `json:"items"`
	MainProducts map[string]bool     `json:"main_products"`
	Complements  map[string][]string `json:"complements"`
	Rooms        map[string]string   `json:"rooms"`
	Prices       map[string]float64  `json:"prices"`
}

// IsMain reports whether item is a primary product rather than an accessory.
func (c *Catalog) IsMain(item string) bool { return c.MainProducts[item] }

// ComplementsOf returns the curated accessory list for a main product.
// Nil when the item has no curated complements.
func (c *Catalog) ComplementsOf(item string) []string { return c.Complements[item] }

// Room returns the category label for an item and whether one is assigned.
func (c *Catalog) Room(item string) (string, bool) {
	room, ok := c.Rooms[item]
	return room, ok
}

// Price returns the list price for an item, or 0 when unknown.
func (c *Catalog) Price(item string) float64 { return c.Prices[item] }

// MainProductList returns the main products in deterministic (sorted) order.
func (c *Catalog) MainProductList() []string {
	mains := make([]string, 0, len(c.MainProducts))
	for m := range c.MainProducts {
		mains = append(mains, m)
	}
	sort.Strings(mains)
	return mains
}
