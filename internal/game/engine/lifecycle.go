package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/torchlight-games/chronicler/internal/game/entity"
)

// defaultPlayerHealth is used when begin_campaign omits player_health.
const defaultPlayerHealth = 20

// defaultHitChance is used when create_npc omits hit_chance.
const defaultHitChance = 50

// BeginCampaignParams are the arguments for BeginCampaign.
type BeginCampaignParams struct {
	Name              string
	PlayerName        string
	PlayerDescription string
	// PlayerHealth is the player's starting and maximum health.
	// Zero means unset; defaults to 20.
	PlayerHealth  int
	PlayerWeapons map[string]string
}

// BeginCampaign creates a new campaign whose identifier is the slug
// derived from its name.
//
// Postcondition: Returns ErrValidation on missing name/player or
// non-positive health, ErrDuplicateCampaign if the slug already
// exists; on success the campaign is persisted in a single atomic
// create.
func (e *Engine) BeginCampaign(ctx context.Context, p BeginCampaignParams) (*entity.Campaign, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if p.PlayerName == "" {
		return nil, fmt.Errorf("player_name is required: %w", ErrValidation)
	}
	health := p.PlayerHealth
	if health == 0 {
		health = defaultPlayerHealth
	}
	if health < 0 {
		return nil, fmt.Errorf("player_health must be > 0: %w", ErrValidation)
	}

	slug := entity.Slugify(p.Name)
	if slug == "" {
		return nil, fmt.Errorf("name %q yields an empty identifier: %w", p.Name, ErrValidation)
	}

	campaign := &entity.Campaign{
		ID:   slug,
		Name: p.Name,
		Player: entity.Player{
			Name:        p.PlayerName,
			Description: p.PlayerDescription,
			Health:      health,
			MaxHealth:   health,
			Weapons:     p.PlayerWeapons,
			Inventory:   entity.NewInventory(),
		},
		NPCs:     make(map[string]*entity.NPC),
		Bestiary: make(map[string]*entity.BestiaryEntry),
	}

	if err := e.createCampaign(ctx, campaign); err != nil {
		return nil, err
	}

	e.logger.Info("campaign created",
		zap.String("campaign_id", campaign.ID),
		zap.String("player", p.PlayerName),
	)
	return campaign, nil
}

// CreateNPCParams are the arguments for CreateNPC.
type CreateNPCParams struct {
	CampaignID string
	Name       string
	Health     int
	Weapons    map[string]string
	// HitChance is the percent chance this NPC's attacks land, in
	// [1, 100]. Nil means unset and defaults to 50; an explicit zero is
	// rejected, never silently replaced.
	HitChance *int
}

// CreateNPC adds an NPC to the campaign, identified by the slug of its
// name.
//
// Postcondition: Returns ErrCampaignNotFound, ErrDuplicateEntity on a
// name collision, or ErrValidation for non-positive health or an
// explicit hit chance outside [1, 100].
func (e *Engine) CreateNPC(ctx context.Context, p CreateNPCParams) (*entity.NPC, error) {
	if p.CampaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if p.Health <= 0 {
		return nil, fmt.Errorf("health must be > 0: %w", ErrValidation)
	}
	hitChance := defaultHitChance
	if p.HitChance != nil {
		hitChance = *p.HitChance
		if hitChance < 1 || hitChance > 100 {
			return nil, fmt.Errorf("hit_chance must be in [1, 100], got %d: %w", hitChance, ErrValidation)
		}
	}

	npc := &entity.NPC{
		ID:        entity.Slugify(p.Name),
		Name:      p.Name,
		Health:    p.Health,
		MaxHealth: p.Health,
		Weapons:   p.Weapons,
		HitChance: hitChance,
		Inventory: entity.NewInventory(),
	}

	_, err := e.mutate(ctx, p.CampaignID, func(c *entity.Campaign) error {
		if _, exists := c.NPCs[npc.ID]; exists {
			return fmt.Errorf("npc %q: %w", p.Name, ErrDuplicateEntity)
		}
		if c.NPCs == nil {
			c.NPCs = make(map[string]*entity.NPC)
		}
		c.NPCs[npc.ID] = npc
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("npc created",
		zap.String("campaign_id", p.CampaignID),
		zap.String("npc_id", npc.ID),
		zap.Int("hit_chance", hitChance),
	)
	return npc, nil
}

// CreateBestiaryEntryParams are the arguments for CreateBestiaryEntry.
type CreateBestiaryEntryParams struct {
	CampaignID  string
	Name        string
	ThreatLevel entity.ThreatLevel
	Health      int
	Weapons     map[string]string
	// HitChance must not be supplied: a bestiary entry's hit chance is
	// always derived from its threat level. A non-zero value is
	// rejected with ErrValidation.
	HitChance int
}

// CreateBestiaryEntry adds a creature template to the campaign
// bestiary. Hit chance is derived from the threat level and never
// stored independently.
//
// Postcondition: Returns ErrInvalidThreatLevel for an unrecognized
// level (never a default), ErrValidation for an explicit hit chance or
// non-positive health, ErrCampaignNotFound, or ErrDuplicateEntity.
func (e *Engine) CreateBestiaryEntry(ctx context.Context, p CreateBestiaryEntryParams) (*entity.BestiaryEntry, error) {
	if p.CampaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if p.ThreatLevel == "" {
		return nil, fmt.Errorf("threat_level is required: %w", ErrValidation)
	}
	if !p.ThreatLevel.Valid() {
		return nil, fmt.Errorf("threat_level %q: %w", p.ThreatLevel, ErrInvalidThreatLevel)
	}
	if p.HitChance != 0 {
		return nil, fmt.Errorf("hit_chance is derived from threat_level and must not be supplied: %w", ErrValidation)
	}
	if p.Health <= 0 {
		return nil, fmt.Errorf("health must be > 0: %w", ErrValidation)
	}

	entry := &entity.BestiaryEntry{
		ID:          entity.Slugify(p.Name),
		Name:        p.Name,
		ThreatLevel: p.ThreatLevel,
		Health:      p.Health,
		Weapons:     p.Weapons,
	}

	_, err := e.mutate(ctx, p.CampaignID, func(c *entity.Campaign) error {
		if _, exists := c.Bestiary[entry.ID]; exists {
			return fmt.Errorf("bestiary entry %q: %w", p.Name, ErrDuplicateEntity)
		}
		if c.Bestiary == nil {
			c.Bestiary = make(map[string]*entity.BestiaryEntry)
		}
		c.Bestiary[entry.ID] = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("bestiary entry created",
		zap.String("campaign_id", p.CampaignID),
		zap.String("entry_id", entry.ID),
		zap.String("threat_level", string(p.ThreatLevel)),
	)
	return entry, nil
}

// HealNPC rolls healDice and raises the NPC's health by the result,
// clamped at its maximum. If the NPC is currently an active combat
// participant, the participant's health is raised in the same update.
//
// Postcondition: Returns the amount healed and the NPC's new health;
// fails with ErrEntityNotFound for an unknown NPC or a dice error for
// a malformed expression. The dice expression is validated before any
// repository access.
func (e *Engine) HealNPC(ctx context.Context, campaignID, npcName, healDice string) (healed, health int, err error) {
	if campaignID == "" {
		return 0, 0, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if npcName == "" {
		return 0, 0, fmt.Errorf("npc_name is required: %w", ErrValidation)
	}
	expr, err := dieParse(healDice)
	if err != nil {
		return 0, 0, err
	}

	_, err = e.mutate(ctx, campaignID, func(c *entity.Campaign) error {
		npc, ok := findNPC(c, npcName)
		if !ok {
			return fmt.Errorf("npc %q: %w", npcName, ErrEntityNotFound)
		}

		amount := e.roller.Roll(expr).Total()
		if amount < 0 {
			amount = 0
		}

		before := npc.Health
		npc.Health += amount
		if npc.Health > npc.MaxHealth {
			npc.Health = npc.MaxHealth
		}
		healed = npc.Health - before
		health = npc.Health

		if p, ok := c.Combat.Participant(npc.Name); ok && p.Status == entity.StatusActive {
			p.Heal(healed)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	e.logger.Info("npc healed",
		zap.String("campaign_id", campaignID),
		zap.String("npc", npcName),
		zap.Int("healed", healed),
		zap.Int("health", health),
	)
	return healed, health, nil
}

// createCampaign persists a new campaign, translating storage errors.
func (e *Engine) createCampaign(ctx context.Context, c *entity.Campaign) error {
	if err := e.campaigns.Create(ctx, c); err != nil {
		if isStorageDuplicate(err) {
			return fmt.Errorf("campaign %q: %w", c.ID, ErrDuplicateCampaign)
		}
		return fmt.Errorf("creating campaign %q: %w: %v", c.ID, ErrRepository, err)
	}
	return nil
}
