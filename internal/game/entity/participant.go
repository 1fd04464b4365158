package entity

// ParticipantStatus is the lifecycle state of a combat participant.
//
// State machine: active -> dead (health reaches 0, or removal with
// reason dead), active -> fled, active -> surrendered. All three
// non-active states are terminal.
type ParticipantStatus string

const (
	StatusActive      ParticipantStatus = "active"
	StatusDead        ParticipantStatus = "dead"
	StatusFled        ParticipantStatus = "fled"
	StatusSurrendered ParticipantStatus = "surrendered"
)

// Terminal reports whether s is a terminal status. No transition
// leaves a terminal status.
func (s ParticipantStatus) Terminal() bool {
	return s == StatusDead || s == StatusFled || s == StatusSurrendered
}

// ParticipantKind identifies the source entity a participant was
// spawned from.
type ParticipantKind string

const (
	KindPlayer   ParticipantKind = "player"
	KindNPC      ParticipantKind = "npc"
	KindCreature ParticipantKind = "creature"
)

// CombatParticipant is a live combat actor instantiated from the
// player, an NPC, or a bestiary template.
type CombatParticipant struct {
	// Name is the display name, unique within the session.
	Name string `json:"name"`
	Kind ParticipantKind `json:"kind"`
	// Ref is the source entity's ID (campaign ID for the player).
	Ref       string `json:"ref"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"max_health"`
	// HitChance is copied from the source at spawn time. Later changes
	// to the NPC record or template do not affect this participant.
	HitChance int               `json:"hit_chance"`
	Status    ParticipantStatus `json:"status"`
}

// ApplyDamage reduces Health by amount, flooring at zero, and marks
// the participant dead when health reaches zero.
//
// Precondition: amount >= 0.
// Postcondition: Health >= 0; Status == StatusDead iff Health == 0
// (once dead, the participant stays dead).
func (p *CombatParticipant) ApplyDamage(amount int) {
	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		p.Status = StatusDead
	}
}

// Heal raises Health by amount, clamped at MaxHealth.
//
// Precondition: amount >= 0.
func (p *CombatParticipant) Heal(amount int) {
	p.Health += amount
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
}

// CombatSession holds the live participants of a campaign's combat,
// keyed by participant name. Attacks are caller-driven; there is no
// turn counter.
type CombatSession struct {
	ID           string                        `json:"id"`
	Participants map[string]*CombatParticipant `json:"participants"`
}

// Participant returns the participant with the given name.
//
// Postcondition: Returns (participant, true) if present, (nil, false) otherwise.
func (s *CombatSession) Participant(name string) (*CombatParticipant, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.Participants[name]
	return p, ok
}

// ActiveParticipants returns a snapshot of participants whose status
// is StatusActive.
func (s *CombatSession) ActiveParticipants() []*CombatParticipant {
	if s == nil {
		return nil
	}
	var active []*CombatParticipant
	for _, p := range s.Participants {
		if p.Status == StatusActive {
			active = append(active, p)
		}
	}
	return active
}
