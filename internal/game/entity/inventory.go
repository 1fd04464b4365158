package entity

// Item is a carried object. Items flagged as weapons carry a damage
// dice expression and resolve normally in combat; any other carried
// item can still be swung as an improvised weapon.
type Item struct {
	Description string `json:"description,omitempty"`
	// Source records where the item came from, e.g. "starting
	// equipment", "looted", "quest reward".
	Source string `json:"source,omitempty"`
	Weapon bool   `json:"weapon,omitempty"`
	// Damage is the weapon's damage dice expression, e.g. "1d8".
	// Only meaningful when Weapon is true.
	Damage string `json:"damage,omitempty"`
}

// Inventory holds the items and money carried by the player or an NPC.
//
// Invariant: Money >= 0. Items are keyed by their display name.
type Inventory struct {
	Money int              `json:"money"`
	Items map[string]*Item `json:"items,omitempty"`
}

// NewInventory returns an empty inventory with no money.
func NewInventory() *Inventory {
	return &Inventory{Items: make(map[string]*Item)}
}

// Item returns the named item.
//
// Postcondition: Returns (item, true) if present, or (nil, false)
// otherwise; safe on a nil inventory.
func (inv *Inventory) Item(name string) (*Item, bool) {
	if inv == nil {
		return nil, false
	}
	item, ok := inv.Items[name]
	return item, ok
}

// SetItem stores item under name, allocating the item map on first use.
func (inv *Inventory) SetItem(name string, item *Item) {
	if inv.Items == nil {
		inv.Items = make(map[string]*Item)
	}
	inv.Items[name] = item
}

// RemoveItem deletes the named item.
//
// Postcondition: Returns true when an item was removed; safe on a nil
// inventory.
func (inv *Inventory) RemoveItem(name string) bool {
	if inv == nil {
		return false
	}
	if _, ok := inv.Items[name]; !ok {
		return false
	}
	delete(inv.Items, name)
	return true
}

// Clone returns a deep copy of the inventory, or nil for nil.
func (inv *Inventory) Clone() *Inventory {
	if inv == nil {
		return nil
	}
	out := &Inventory{Money: inv.Money}
	if inv.Items != nil {
		out.Items = make(map[string]*Item, len(inv.Items))
		for name, item := range inv.Items {
			it := *item
			out.Items[name] = &it
		}
	}
	return out
}
