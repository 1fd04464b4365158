// Package entity defines the persistent data model for campaigns: the
// player character, NPCs, bestiary templates, and live combat state.
package entity

// Player is the single player character embedded in a campaign.
type Player struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Health is the current hit points. Invariant: 0 <= Health <= MaxHealth.
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	// Weapons maps weapon name to its damage dice expression, e.g. "sword" -> "1d8".
	Weapons map[string]string `json:"weapons,omitempty"`
	// Inventory is the player's carried items and money; nil on records
	// created before inventories existed.
	Inventory *Inventory `json:"inventory,omitempty"`
}

// NPC is a named non-player character owned by a campaign.
type NPC struct {
	// ID is the slug derived from Name, unique within the campaign and
	// stable for the record's lifetime.
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Health    int               `json:"health"`
	MaxHealth int               `json:"max_health"`
	Weapons   map[string]string `json:"weapons,omitempty"`
	// HitChance is the percent probability (1-100) that this NPC's
	// attacks land. Defaults to 50 at creation when not supplied.
	HitChance int        `json:"hit_chance"`
	Inventory *Inventory `json:"inventory,omitempty"`
}

// BestiaryEntry is a creature template, not a live combatant. Instances
// are spawned into combat with fresh health copied from the template.
type BestiaryEntry struct {
	// ID is the slug derived from Name, unique within the campaign.
	ID   string `json:"id"`
	Name string `json:"name"`
	// ThreatLevel determines the derived hit chance; it is mandatory
	// and must be one of the seven enumerated levels.
	ThreatLevel ThreatLevel       `json:"threat_level"`
	Health      int               `json:"health"`
	Weapons     map[string]string `json:"weapons,omitempty"`
}

// Campaign is a named, persistent play session. It owns one Player,
// NPC and bestiary templates, and at most one active combat session.
//
// Invariant: the campaign record is owned by its repository; engine
// operations reload, mutate, and save — never hold a copy across calls.
type Campaign struct {
	// ID is the slug derived from Name, unique and immutable once created.
	ID       string                   `json:"id"`
	Name     string                   `json:"name"`
	Player   Player                   `json:"player"`
	NPCs     map[string]*NPC          `json:"npcs,omitempty"`
	Bestiary map[string]*BestiaryEntry `json:"bestiary,omitempty"`
	// Combat is the active combat session; nil when no combat is running.
	Combat *CombatSession `json:"combat,omitempty"`
}

// NPCByID returns the NPC with the given ID.
//
// Postcondition: Returns (npc, true) if found, or (nil, false) otherwise.
func (c *Campaign) NPCByID(id string) (*NPC, bool) {
	npc, ok := c.NPCs[id]
	return npc, ok
}

// BestiaryByID returns the bestiary entry with the given ID.
//
// Postcondition: Returns (entry, true) if found, or (nil, false) otherwise.
func (c *Campaign) BestiaryByID(id string) (*BestiaryEntry, bool) {
	entry, ok := c.Bestiary[id]
	return entry, ok
}
