package entity

// Clone returns a deep copy of the campaign. Repository
// implementations use it to keep stored records isolated from
// caller-held copies.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	out := &Campaign{
		ID:     c.ID,
		Name:   c.Name,
		Player: c.Player,
	}
	out.Player.Weapons = cloneWeapons(c.Player.Weapons)
	out.Player.Inventory = c.Player.Inventory.Clone()

	if c.NPCs != nil {
		out.NPCs = make(map[string]*NPC, len(c.NPCs))
		for id, npc := range c.NPCs {
			n := *npc
			n.Weapons = cloneWeapons(npc.Weapons)
			n.Inventory = npc.Inventory.Clone()
			out.NPCs[id] = &n
		}
	}
	if c.Bestiary != nil {
		out.Bestiary = make(map[string]*BestiaryEntry, len(c.Bestiary))
		for id, entry := range c.Bestiary {
			e := *entry
			e.Weapons = cloneWeapons(entry.Weapons)
			out.Bestiary[id] = &e
		}
	}
	out.Combat = c.Combat.Clone()
	return out
}

// Clone returns a deep copy of the session, or nil for a nil session.
func (s *CombatSession) Clone() *CombatSession {
	if s == nil {
		return nil
	}
	out := &CombatSession{
		ID:           s.ID,
		Participants: make(map[string]*CombatParticipant, len(s.Participants)),
	}
	for name, p := range s.Participants {
		cp := *p
		out.Participants[name] = &cp
	}
	return out
}

func cloneWeapons(weapons map[string]string) map[string]string {
	if weapons == nil {
		return nil
	}
	out := make(map[string]string, len(weapons))
	for name, expr := range weapons {
		out[name] = expr
	}
	return out
}
