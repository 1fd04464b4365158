package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/torchlight-games/chronicler/internal/game/entity"
)

// ListCampaigns returns all campaigns ordered by ID.
func (e *Engine) ListCampaigns(ctx context.Context) ([]*entity.Campaign, error) {
	campaigns, err := e.campaigns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w: %v", ErrRepository, err)
	}
	return campaigns, nil
}

// GetCampaign returns the full campaign record.
func (e *Engine) GetCampaign(ctx context.Context, campaignID string) (*entity.Campaign, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	return e.load(ctx, campaignID)
}

// ListNPCs returns the campaign's NPCs ordered by ID.
func (e *Engine) ListNPCs(ctx context.Context, campaignID string) ([]*entity.NPC, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	c, err := e.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	npcs := make([]*entity.NPC, 0, len(c.NPCs))
	for _, npc := range c.NPCs {
		npcs = append(npcs, npc)
	}
	sort.Slice(npcs, func(i, j int) bool { return npcs[i].ID < npcs[j].ID })
	return npcs, nil
}

// GetNPC returns one NPC by ID or name slug.
func (e *Engine) GetNPC(ctx context.Context, campaignID, npcID string) (*entity.NPC, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if npcID == "" {
		return nil, fmt.Errorf("npc_id is required: %w", ErrValidation)
	}
	c, err := e.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	npc, ok := findNPC(c, npcID)
	if !ok {
		return nil, fmt.Errorf("npc %q: %w", npcID, ErrEntityNotFound)
	}
	return npc, nil
}

// GetCombatStatus returns the campaign's combat session, or nil when
// no combat is active.
func (e *Engine) GetCombatStatus(ctx context.Context, campaignID string) (*entity.CombatSession, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	c, err := e.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return c.Combat, nil
}

// GetBestiary returns the campaign's bestiary entries ordered by ID.
func (e *Engine) GetBestiary(ctx context.Context, campaignID string) ([]*entity.BestiaryEntry, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	c, err := e.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	entries := make([]*entity.BestiaryEntry, 0, len(c.Bestiary))
	for _, entry := range c.Bestiary {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}
