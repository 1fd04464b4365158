package engine

import (
	"errors"
	"fmt"

	"github.com/torchlight-games/chronicler/internal/game/dice"
	"github.com/torchlight-games/chronicler/internal/game/entity"
	"github.com/torchlight-games/chronicler/internal/storage"
)

// findNPC resolves an NPC by ID or by the slug of the given name.
func findNPC(c *entity.Campaign, name string) (*entity.NPC, bool) {
	if npc, ok := c.NPCs[name]; ok {
		return npc, true
	}
	npc, ok := c.NPCs[entity.Slugify(name)]
	return npc, ok
}

// findBestiaryEntry resolves a bestiary entry by ID or name slug.
func findBestiaryEntry(c *entity.Campaign, name string) (*entity.BestiaryEntry, bool) {
	if entry, ok := c.Bestiary[name]; ok {
		return entry, true
	}
	entry, ok := c.Bestiary[entity.Slugify(name)]
	return entry, ok
}

// matchesPlayer reports whether name refers to the campaign's player.
func matchesPlayer(c *entity.Campaign, name string) bool {
	return entity.Slugify(name) == entity.Slugify(c.Player.Name)
}

// findParticipant resolves an existing combat participant by exact
// name or name slug.
func findParticipant(s *entity.CombatSession, name string) (*entity.CombatParticipant, bool) {
	if s == nil {
		return nil, false
	}
	if p, ok := s.Participants[name]; ok {
		return p, true
	}
	slug := entity.Slugify(name)
	for key, p := range s.Participants {
		if entity.Slugify(key) == slug {
			return p, true
		}
	}
	return nil, false
}

// spawnParticipant creates an active participant from the first
// campaign entity matching name: the player, an NPC, or a bestiary
// template. Player and NPC participants carry their current health;
// creatures spawn fresh at template health with the hit chance derived
// from their threat level.
//
// Postcondition: Returns ErrEntityNotFound when name matches nothing.
func spawnParticipant(c *entity.Campaign, name string) (*entity.CombatParticipant, error) {
	if matchesPlayer(c, name) {
		return &entity.CombatParticipant{
			Name:      c.Player.Name,
			Kind:      entity.KindPlayer,
			Ref:       c.ID,
			Health:    c.Player.Health,
			MaxHealth: c.Player.MaxHealth,
			HitChance: defaultHitChance,
			Status:    entity.StatusActive,
		}, nil
	}
	if npc, ok := findNPC(c, name); ok {
		return &entity.CombatParticipant{
			Name:      npc.Name,
			Kind:      entity.KindNPC,
			Ref:       npc.ID,
			Health:    npc.Health,
			MaxHealth: npc.MaxHealth,
			HitChance: npc.HitChance,
			Status:    entity.StatusActive,
		}, nil
	}
	if entry, ok := findBestiaryEntry(c, name); ok {
		hitChance, err := entry.ThreatLevel.HitChance()
		if err != nil {
			// Creation validates threat levels; a stored record with a
			// bad level is corruption and must surface.
			return nil, fmt.Errorf("bestiary entry %q: %w: %v", entry.ID, ErrRepository, err)
		}
		return &entity.CombatParticipant{
			Name:      entry.Name,
			Kind:      entity.KindCreature,
			Ref:       entry.ID,
			Health:    entry.Health,
			MaxHealth: entry.Health,
			HitChance: hitChance,
			Status:    entity.StatusActive,
		}, nil
	}
	return nil, fmt.Errorf("%q matches no player, npc, or bestiary entry: %w", name, ErrEntityNotFound)
}

// weaponExpression looks up the named weapon in the participant's
// source entity. Player and NPC attackers resolve through their weapon
// mapping, then their inventory (a carried non-weapon item swings as an
// improvised weapon for 1d4), then the unarmed keywords; creatures only
// use the weapons their template defines.
func weaponExpression(c *entity.Campaign, attacker *entity.CombatParticipant, weapon string) (expr string, improvised bool, err error) {
	var weapons map[string]string
	var inventory *entity.Inventory
	switch attacker.Kind {
	case entity.KindPlayer:
		weapons = c.Player.Weapons
		inventory = c.Player.Inventory
	case entity.KindNPC:
		if npc, ok := c.NPCs[attacker.Ref]; ok {
			weapons = npc.Weapons
			inventory = npc.Inventory
		}
	case entity.KindCreature:
		if entry, ok := c.Bestiary[attacker.Ref]; ok {
			weapons = entry.Weapons
		}
		if expr, ok := weapons[weapon]; ok {
			return expr, false, nil
		}
		return "", false, fmt.Errorf("%s has no weapon %q: %w", attacker.Name, weapon, ErrUnknownWeapon)
	}

	if expr, ok := weapons[weapon]; ok {
		return expr, false, nil
	}
	if item, ok := inventory.Item(weapon); ok {
		if item.Weapon && item.Damage != "" {
			return item.Damage, false, nil
		}
		// Carried but not a weapon: improvised.
		return unarmedDamage, true, nil
	}
	if isUnarmed(weapon) {
		return unarmedDamage, false, nil
	}
	return "", false, fmt.Errorf("%s has no weapon %q: %w", attacker.Name, weapon, ErrUnknownWeapon)
}

const (
	unarmedWeapon = "unarmed"
	unarmedDamage = "1d4"
)

// unarmedKeywords are the weapon names accepted as unarmed combat for
// player and NPC attackers.
var unarmedKeywords = map[string]bool{
	"unarmed": true, "fists": true, "fist": true,
	"punch": true, "kick": true, "bare hands": true,
}

func isUnarmed(weapon string) bool {
	return unarmedKeywords[weapon]
}

// dieParse validates a dice expression, surfacing parse failures as
// caller errors before any repository access.
func dieParse(expr string) (dice.Expression, error) {
	parsed, err := dice.Parse(expr)
	if err != nil {
		return dice.Expression{}, err
	}
	return parsed, nil
}

// isStorageDuplicate reports whether err is an identifier collision.
func isStorageDuplicate(err error) bool {
	return errors.Is(err, storage.ErrDuplicate)
}
