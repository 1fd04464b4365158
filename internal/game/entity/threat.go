package entity

import "fmt"

// ThreatLevel is the fixed seven-point danger scale for bestiary
// creatures. A creature's hit chance is always derived from its threat
// level; it is never stored independently.
type ThreatLevel string

const (
	ThreatNone         ThreatLevel = "none"
	ThreatNegligible   ThreatLevel = "negligible"
	ThreatLow          ThreatLevel = "low"
	ThreatModerate     ThreatLevel = "moderate"
	ThreatHigh         ThreatLevel = "high"
	ThreatDeadly       ThreatLevel = "deadly"
	ThreatCertainDeath ThreatLevel = "certain_death"
)

// threatHitChance is the total, fixed threat_level -> hit_chance table.
var threatHitChance = map[ThreatLevel]int{
	ThreatNone:         10,
	ThreatNegligible:   25,
	ThreatLow:          35,
	ThreatModerate:     50,
	ThreatHigh:         65,
	ThreatDeadly:       80,
	ThreatCertainDeath: 95,
}

// Valid reports whether l is one of the seven enumerated levels.
func (l ThreatLevel) Valid() bool {
	_, ok := threatHitChance[l]
	return ok
}

// HitChance returns the derived hit chance percent for l.
//
// Postcondition: Returns a value in [10, 95] for valid levels, or an
// error for an unrecognized level. Never falls back to a default.
func (l ThreatLevel) HitChance() (int, error) {
	chance, ok := threatHitChance[l]
	if !ok {
		return 0, fmt.Errorf("entity: unrecognized threat level %q", l)
	}
	return chance, nil
}

// ThreatLevels returns all valid levels in ascending danger order.
func ThreatLevels() []ThreatLevel {
	return []ThreatLevel{
		ThreatNone, ThreatNegligible, ThreatLow, ThreatModerate,
		ThreatHigh, ThreatDeadly, ThreatCertainDeath,
	}
}
