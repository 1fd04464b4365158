package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/torchlight-games/chronicler/internal/game/entity"
)

// AttackParams are the arguments for Attack.
type AttackParams struct {
	CampaignID string
	Attacker   string
	Target     string
	// Weapon names an entry in the attacker's weapon mapping or
	// inventory. Empty defaults to unarmed combat (1d4) for player and
	// NPC attackers.
	Weapon string
}

// AttackResult is the outcome of a single resolved attack.
type AttackResult struct {
	// Hit reports whether the hit check succeeded.
	Hit bool `json:"hit"`
	// Damage is the damage dealt; always 0 on a miss.
	Damage int `json:"damage"`
	// Attacker and Target are the resolved participant names.
	Attacker string `json:"attacker"`
	Target   string `json:"target"`
	Weapon   string `json:"weapon"`
	// Improvised reports that the weapon was a carried non-weapon item
	// swung for unarmed damage.
	Improvised bool `json:"improvised,omitempty"`
	// TargetHealth is the target's health after the attack.
	TargetHealth int `json:"target_health"`
	// TargetStatus is the target's status after the attack; "dead"
	// when the damage reduced health to zero.
	TargetStatus entity.ParticipantStatus `json:"target_status"`
}

// Attack resolves one attack between two combat participants,
// spawning either side into the session on first reference.
//
// Resolution order: hit check on the attacker's hit chance first, then
// the damage roll — reproducible under a seeded dice source. The
// updated campaign (participant spawns plus health and status changes)
// is persisted as one atomic update; on a miss only the spawns persist.
func (e *Engine) Attack(ctx context.Context, p AttackParams) (*AttackResult, error) {
	if p.CampaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if p.Attacker == "" {
		return nil, fmt.Errorf("attacker is required: %w", ErrValidation)
	}
	if p.Target == "" {
		return nil, fmt.Errorf("target is required: %w", ErrValidation)
	}
	weapon := p.Weapon
	if weapon == "" {
		weapon = unarmedWeapon
	}

	var result AttackResult
	_, err := e.mutate(ctx, p.CampaignID, func(c *entity.Campaign) error {
		ensureSession(c)

		attacker, err := resolveCombatant(c, p.Attacker, ErrInvalidAttacker)
		if err != nil {
			return err
		}
		target, err := resolveCombatant(c, p.Target, ErrInvalidTarget)
		if err != nil {
			return err
		}

		expr, improvised, err := weaponExpression(c, attacker, weapon)
		if err != nil {
			return err
		}
		parsed, err := dieParse(expr)
		if err != nil {
			return err
		}

		result = AttackResult{
			Attacker:     attacker.Name,
			Target:       target.Name,
			Weapon:       weapon,
			Improvised:   improvised,
			TargetHealth: target.Health,
			TargetStatus: target.Status,
		}

		if !e.roller.HitCheck(attacker.HitChance) {
			// Miss: no health change persists, but participant spawns do.
			return nil
		}

		damage := e.roller.Roll(parsed).Total()
		if damage < 0 {
			damage = 0
		}
		target.ApplyDamage(damage)
		syncHealth(c, target)

		result.Hit = true
		result.Damage = damage
		result.TargetHealth = target.Health
		result.TargetStatus = target.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("attack resolved",
		zap.String("campaign_id", p.CampaignID),
		zap.String("attacker", result.Attacker),
		zap.String("target", result.Target),
		zap.String("weapon", result.Weapon),
		zap.Bool("hit", result.Hit),
		zap.Int("damage", result.Damage),
		zap.Int("target_health", result.TargetHealth),
	)
	return &result, nil
}

// RemoveFromCombat transitions an active participant to the given
// terminal status and persists the session.
//
// Postcondition: Returns ErrValidation for an unknown reason,
// ErrInvalidTarget when the name is not currently an active
// participant (including a second removal of the same name), or
// ErrEntityNotFound when the name matches nothing in the campaign.
func (e *Engine) RemoveFromCombat(ctx context.Context, campaignID, name string, reason entity.ParticipantStatus) error {
	if campaignID == "" {
		return fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if name == "" {
		return fmt.Errorf("participant is required: %w", ErrValidation)
	}
	if !reason.Terminal() {
		return fmt.Errorf("reason must be one of [dead, fled, surrendered], got %q: %w", reason, ErrValidation)
	}

	_, err := e.mutate(ctx, campaignID, func(c *entity.Campaign) error {
		participant, ok := findParticipant(c.Combat, name)
		if !ok {
			// Distinguish a known entity that is simply not in combat
			// from a name that matches nothing at all.
			if _, err := spawnParticipant(c, name); err != nil {
				return fmt.Errorf("participant %q: %w", name, ErrEntityNotFound)
			}
			return fmt.Errorf("%q is not in the active combat session: %w", name, ErrInvalidTarget)
		}
		if participant.Status.Terminal() {
			return fmt.Errorf("%q already left combat (%s): %w", participant.Name, participant.Status, ErrInvalidTarget)
		}
		participant.Status = reason
		if reason == entity.StatusDead {
			participant.Health = 0
			syncHealth(c, participant)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Info("participant removed from combat",
		zap.String("campaign_id", campaignID),
		zap.String("participant", name),
		zap.String("reason", string(reason)),
	)
	return nil
}

// SpawnEnemy instantiates a bestiary creature into the combat session
// without an attack: fresh health from the template and the hit chance
// derived from its threat level.
//
// Postcondition: Returns ErrEntityNotFound for an unknown creature or
// ErrDuplicateEntity when the name is already a session participant.
func (e *Engine) SpawnEnemy(ctx context.Context, campaignID, creature string) (*entity.CombatParticipant, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if creature == "" {
		return nil, fmt.Errorf("creature is required: %w", ErrValidation)
	}

	var spawned *entity.CombatParticipant
	_, err := e.mutate(ctx, campaignID, func(c *entity.Campaign) error {
		entry, ok := findBestiaryEntry(c, creature)
		if !ok {
			return fmt.Errorf("bestiary entry %q: %w", creature, ErrEntityNotFound)
		}
		ensureSession(c)
		if _, exists := findParticipant(c.Combat, entry.Name); exists {
			return fmt.Errorf("participant %q: %w", entry.Name, ErrDuplicateEntity)
		}

		hitChance, err := entry.ThreatLevel.HitChance()
		if err != nil {
			return fmt.Errorf("bestiary entry %q: %w: %v", entry.ID, ErrRepository, err)
		}
		spawned = &entity.CombatParticipant{
			Name:      entry.Name,
			Kind:      entity.KindCreature,
			Ref:       entry.ID,
			Health:    entry.Health,
			MaxHealth: entry.Health,
			HitChance: hitChance,
			Status:    entity.StatusActive,
		}
		c.Combat.Participants[spawned.Name] = spawned
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("enemy spawned",
		zap.String("campaign_id", campaignID),
		zap.String("creature", spawned.Name),
		zap.Int("health", spawned.Health),
	)
	return spawned, nil
}

// ensureSession lazily creates the campaign's combat session.
func ensureSession(c *entity.Campaign) {
	if c.Combat == nil {
		c.Combat = &entity.CombatSession{
			ID:           uuid.NewString(),
			Participants: make(map[string]*entity.CombatParticipant),
		}
	}
}

// resolveCombatant returns the live participant for name, spawning one
// on first reference. terminalErr is the kind reported when the name
// resolves to a participant already in a terminal state.
func resolveCombatant(c *entity.Campaign, name string, terminalErr error) (*entity.CombatParticipant, error) {
	if p, ok := findParticipant(c.Combat, name); ok {
		if p.Status.Terminal() {
			return nil, fmt.Errorf("%q is %s: %w", p.Name, p.Status, terminalErr)
		}
		return p, nil
	}
	p, err := spawnParticipant(c, name)
	if err != nil {
		return nil, err
	}
	c.Combat.Participants[p.Name] = p
	return p, nil
}

// syncHealth mirrors a participant's health back to its source record,
// keeping NPC and player health current outside the session.
func syncHealth(c *entity.Campaign, p *entity.CombatParticipant) {
	switch p.Kind {
	case entity.KindPlayer:
		c.Player.Health = p.Health
	case entity.KindNPC:
		if npc, ok := c.NPCs[p.Ref]; ok {
			npc.Health = p.Health
		}
	}
}
