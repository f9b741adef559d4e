package gamestate

import "sort"

// Inventory is a quantity-tracked item bag.
type Inventory struct {
	items map[string]int
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{items: make(map[string]int)}
}

// Add increases the quantity of an item. Non-positive quantities are
// ignored.
func (inv *Inventory) Add(itemID string, quantity int) {
	if itemID == "" || quantity <= 0 {
		return
	}
	inv.items[itemID] += quantity
}

// Remove decreases the quantity of an item, dropping the entry at zero.
// It reports whether the full quantity was available and removed; an
// insufficient stock removes nothing.
func (inv *Inventory) Remove(itemID string, quantity int) bool {
	if quantity <= 0 {
		return false
	}
	have := inv.items[itemID]
	if have < quantity {
		return false
	}
	if have == quantity {
		delete(inv.items, itemID)
	} else {
		inv.items[itemID] = have - quantity
	}
	return true
}

// Count returns the held quantity of an item.
func (inv *Inventory) Count(itemID string) int { return inv.items[itemID] }

// Has reports whether at least one of the item is held.
func (inv *Inventory) Has(itemID string) bool { return inv.items[itemID] > 0 }

// ItemIDs returns the held item ids in sorted order.
func (inv *Inventory) ItemIDs() []string {
	ids := make([]string, 0, len(inv.items))
	for id := range inv.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
