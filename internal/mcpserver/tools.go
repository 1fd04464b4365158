package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/torchlight-games/chronicler/internal/game/engine"
	"github.com/torchlight-games/chronicler/internal/game/entity"
)

// Tool argument records. Required-field validation lives in the
// engine, which checks inputs before any repository access.

type BeginCampaignInput struct {
	Name              string            `json:"name" jsonschema:"the campaign name"`
	PlayerName        string            `json:"player_name" jsonschema:"the player character's name"`
	PlayerDescription string            `json:"player_description,omitempty" jsonschema:"optional player description"`
	PlayerHealth      int               `json:"player_health,omitempty" jsonschema:"optional starting health, defaults to 20"`
	PlayerWeapons     map[string]string `json:"player_weapons,omitempty" jsonschema:"weapon name to damage dice, e.g. {\"sword\": \"1d8\"}"`
}

type CampaignResult struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Player entity.Player `json:"player"`
}

func (s *Server) beginCampaign(ctx context.Context, _ *mcp.CallToolRequest, in BeginCampaignInput) (*mcp.CallToolResult, CampaignResult, error) {
	c, err := s.engine.BeginCampaign(ctx, engine.BeginCampaignParams{
		Name:              in.Name,
		PlayerName:        in.PlayerName,
		PlayerDescription: in.PlayerDescription,
		PlayerHealth:      in.PlayerHealth,
		PlayerWeapons:     in.PlayerWeapons,
	})
	if err != nil {
		return nil, CampaignResult{}, err
	}
	return nil, CampaignResult{ID: c.ID, Name: c.Name, Player: c.Player}, nil
}

type CreateNPCInput struct {
	CampaignID string            `json:"campaign_id" jsonschema:"the campaign ID (use list_campaigns)"`
	Name       string            `json:"name" jsonschema:"the NPC's name"`
	Health     int               `json:"health" jsonschema:"starting and maximum health, must be > 0"`
	Weapons    map[string]string `json:"weapons,omitempty" jsonschema:"weapon name to damage dice"`
	HitChance  *int              `json:"hit_chance,omitempty" jsonschema:"optional hit chance percent in [1, 100], defaults to 50 when omitted"`
}

func (s *Server) createNPC(ctx context.Context, _ *mcp.CallToolRequest, in CreateNPCInput) (*mcp.CallToolResult, *entity.NPC, error) {
	npc, err := s.engine.CreateNPC(ctx, engine.CreateNPCParams{
		CampaignID: in.CampaignID,
		Name:       in.Name,
		Health:     in.Health,
		Weapons:    in.Weapons,
		HitChance:  in.HitChance,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, npc, nil
}

type CreateBestiaryEntryInput struct {
	CampaignID  string            `json:"campaign_id" jsonschema:"the campaign ID"`
	Name        string            `json:"name" jsonschema:"creature type name, e.g. 'goblin'"`
	ThreatLevel string            `json:"threat_level" jsonschema:"one of none, negligible, low, moderate, high, deadly, certain_death"`
	Health      int               `json:"health" jsonschema:"template health, must be > 0"`
	Weapons     map[string]string `json:"weapons,omitempty" jsonschema:"weapon name to damage dice"`
	HitChance   int               `json:"hit_chance,omitempty" jsonschema:"must not be supplied; derived from threat_level"`
}

func (s *Server) createBestiaryEntry(ctx context.Context, _ *mcp.CallToolRequest, in CreateBestiaryEntryInput) (*mcp.CallToolResult, *entity.BestiaryEntry, error) {
	entry, err := s.engine.CreateBestiaryEntry(ctx, engine.CreateBestiaryEntryParams{
		CampaignID:  in.CampaignID,
		Name:        in.Name,
		ThreatLevel: entity.ThreatLevel(in.ThreatLevel),
		Health:      in.Health,
		Weapons:     in.Weapons,
		HitChance:   in.HitChance,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, entry, nil
}

type AttackInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"the campaign ID"`
	Attacker   string `json:"attacker" jsonschema:"name of the attacking player, NPC, or creature"`
	Target     string `json:"target" jsonschema:"name of the target"`
	Weapon     string `json:"weapon,omitempty" jsonschema:"weapon name; omitted means unarmed (1d4)"`
}

func (s *Server) attack(ctx context.Context, _ *mcp.CallToolRequest, in AttackInput) (*mcp.CallToolResult, *engine.AttackResult, error) {
	result, err := s.engine.Attack(ctx, engine.AttackParams{
		CampaignID: in.CampaignID,
		Attacker:   in.Attacker,
		Target:     in.Target,
		Weapon:     in.Weapon,
	})
	if err != nil {
		return nil, nil, err
	}
	return nil, result, nil
}

type RemoveFromCombatInput struct {
	CampaignID  string `json:"campaign_id" jsonschema:"the campaign ID"`
	Participant string `json:"participant" jsonschema:"name of the participant to remove"`
	Reason      string `json:"reason" jsonschema:"one of dead, fled, surrendered"`
}

type RemoveFromCombatResult struct {
	Participant string `json:"participant"`
	Status      string `json:"status"`
}

func (s *Server) removeFromCombat(ctx context.Context, _ *mcp.CallToolRequest, in RemoveFromCombatInput) (*mcp.CallToolResult, RemoveFromCombatResult, error) {
	err := s.engine.RemoveFromCombat(ctx, in.CampaignID, in.Participant, entity.ParticipantStatus(in.Reason))
	if err != nil {
		return nil, RemoveFromCombatResult{}, err
	}
	return nil, RemoveFromCombatResult{Participant: in.Participant, Status: in.Reason}, nil
}

type SpawnEnemyInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"the campaign ID"`
	Creature   string `json:"creature" jsonschema:"name of the bestiary creature to spawn"`
}

func (s *Server) spawnEnemy(ctx context.Context, _ *mcp.CallToolRequest, in SpawnEnemyInput) (*mcp.CallToolResult, *entity.CombatParticipant, error) {
	spawned, err := s.engine.SpawnEnemy(ctx, in.CampaignID, in.Creature)
	if err != nil {
		return nil, nil, err
	}
	return nil, spawned, nil
}

type HealNPCInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"the campaign ID"`
	NPCName    string `json:"npc_name" jsonschema:"name of the NPC to heal"`
	HealDice   string `json:"heal_dice" jsonschema:"healing dice formula, e.g. '1d4'"`
}

type HealNPCResult struct {
	NPC    string `json:"npc"`
	Healed int    `json:"healed"`
	Health int    `json:"health"`
}

func (s *Server) healNPC(ctx context.Context, _ *mcp.CallToolRequest, in HealNPCInput) (*mcp.CallToolResult, HealNPCResult, error) {
	healed, health, err := s.engine.HealNPC(ctx, in.CampaignID, in.NPCName, in.HealDice)
	if err != nil {
		return nil, HealNPCResult{}, err
	}
	return nil, HealNPCResult{NPC: in.NPCName, Healed: healed, Health: health}, nil
}

type ItemInput struct {
	CampaignID  string `json:"campaign_id" jsonschema:"the campaign ID"`
	Owner       string `json:"owner" jsonschema:"the inventory holder: the player's name or an NPC ID or name"`
	Name        string `json:"name" jsonschema:"the item name"`
	Description string `json:"description,omitempty" jsonschema:"optional item description"`
	Source      string `json:"source,omitempty" jsonschema:"where the item came from, e.g. 'looted', 'quest reward'"`
	Weapon      bool   `json:"weapon,omitempty" jsonschema:"whether the item is usable as a weapon in combat"`
	Damage      string `json:"damage,omitempty" jsonschema:"damage dice expression, required for weapons, e.g. '1d8'"`
}

type ItemResult struct {
	Owner string       `json:"owner"`
	Name  string       `json:"name"`
	Item  *entity.Item `json:"item"`
}

func (s *Server) addItem(ctx context.Context, _ *mcp.CallToolRequest, in ItemInput) (*mcp.CallToolResult, ItemResult, error) {
	item, err := s.engine.AddItem(ctx, engine.ItemParams{
		CampaignID:  in.CampaignID,
		Owner:       in.Owner,
		Name:        in.Name,
		Description: in.Description,
		Source:      in.Source,
		Weapon:      in.Weapon,
		Damage:      in.Damage,
	})
	if err != nil {
		return nil, ItemResult{}, err
	}
	return nil, ItemResult{Owner: in.Owner, Name: in.Name, Item: item}, nil
}

func (s *Server) updateItem(ctx context.Context, _ *mcp.CallToolRequest, in ItemInput) (*mcp.CallToolResult, ItemResult, error) {
	item, err := s.engine.UpdateItem(ctx, engine.ItemParams{
		CampaignID:  in.CampaignID,
		Owner:       in.Owner,
		Name:        in.Name,
		Description: in.Description,
		Source:      in.Source,
		Weapon:      in.Weapon,
		Damage:      in.Damage,
	})
	if err != nil {
		return nil, ItemResult{}, err
	}
	return nil, ItemResult{Owner: in.Owner, Name: in.Name, Item: item}, nil
}

type RemoveItemInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"the campaign ID"`
	Owner      string `json:"owner" jsonschema:"the inventory holder"`
	Name       string `json:"name" jsonschema:"the item name"`
}

type RemoveItemResult struct {
	Owner   string `json:"owner"`
	Removed string `json:"removed"`
}

func (s *Server) removeItem(ctx context.Context, _ *mcp.CallToolRequest, in RemoveItemInput) (*mcp.CallToolResult, RemoveItemResult, error) {
	if err := s.engine.RemoveItem(ctx, in.CampaignID, in.Owner, in.Name); err != nil {
		return nil, RemoveItemResult{}, err
	}
	return nil, RemoveItemResult{Owner: in.Owner, Removed: in.Name}, nil
}

type GetInventoryInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"the campaign ID"`
	Owner      string `json:"owner" jsonschema:"the inventory holder"`
}

type InventoryResult struct {
	Owner     string            `json:"owner"`
	Inventory *entity.Inventory `json:"inventory"`
}

func (s *Server) getInventory(ctx context.Context, _ *mcp.CallToolRequest, in GetInventoryInput) (*mcp.CallToolResult, InventoryResult, error) {
	inv, err := s.engine.GetInventory(ctx, in.CampaignID, in.Owner)
	if err != nil {
		return nil, InventoryResult{}, err
	}
	return nil, InventoryResult{Owner: in.Owner, Inventory: inv}, nil
}

type MoneyInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"the campaign ID"`
	Owner      string `json:"owner" jsonschema:"the inventory holder"`
	Amount     int    `json:"amount" jsonschema:"amount of money, must be > 0"`
}

type MoneyResult struct {
	Owner   string `json:"owner"`
	Balance int    `json:"balance"`
}

func (s *Server) addMoney(ctx context.Context, _ *mcp.CallToolRequest, in MoneyInput) (*mcp.CallToolResult, MoneyResult, error) {
	balance, err := s.engine.AddMoney(ctx, in.CampaignID, in.Owner, in.Amount)
	if err != nil {
		return nil, MoneyResult{}, err
	}
	return nil, MoneyResult{Owner: in.Owner, Balance: balance}, nil
}

func (s *Server) removeMoney(ctx context.Context, _ *mcp.CallToolRequest, in MoneyInput) (*mcp.CallToolResult, MoneyResult, error) {
	balance, err := s.engine.RemoveMoney(ctx, in.CampaignID, in.Owner, in.Amount)
	if err != nil {
		return nil, MoneyResult{}, err
	}
	return nil, MoneyResult{Owner: in.Owner, Balance: balance}, nil
}

type ListCampaignsInput struct{}

type CampaignSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Player string `json:"player"`
}

type ListCampaignsResult struct {
	Campaigns []CampaignSummary `json:"campaigns"`
}

func (s *Server) listCampaigns(ctx context.Context, _ *mcp.CallToolRequest, _ ListCampaignsInput) (*mcp.CallToolResult, ListCampaignsResult, error) {
	campaigns, err := s.engine.ListCampaigns(ctx)
	if err != nil {
		return nil, ListCampaignsResult{}, err
	}
	out := ListCampaignsResult{Campaigns: make([]CampaignSummary, 0, len(campaigns))}
	for _, c := range campaigns {
		out.Campaigns = append(out.Campaigns, CampaignSummary{
			ID:     c.ID,
			Name:   c.Name,
			Player: c.Player.Name,
		})
	}
	return nil, out, nil
}

type CampaignIDInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"the campaign ID"`
}

func (s *Server) getCampaign(ctx context.Context, _ *mcp.CallToolRequest, in CampaignIDInput) (*mcp.CallToolResult, *entity.Campaign, error) {
	c, err := s.engine.GetCampaign(ctx, in.CampaignID)
	if err != nil {
		return nil, nil, err
	}
	return nil, c, nil
}

type ListNPCsResult struct {
	NPCs []*entity.NPC `json:"npcs"`
}

func (s *Server) listNPCs(ctx context.Context, _ *mcp.CallToolRequest, in CampaignIDInput) (*mcp.CallToolResult, ListNPCsResult, error) {
	npcs, err := s.engine.ListNPCs(ctx, in.CampaignID)
	if err != nil {
		return nil, ListNPCsResult{}, err
	}
	return nil, ListNPCsResult{NPCs: npcs}, nil
}

type GetNPCInput struct {
	CampaignID string `json:"campaign_id" jsonschema:"the campaign ID"`
	NPCID      string `json:"npc_id" jsonschema:"the NPC's ID or name"`
}

func (s *Server) getNPC(ctx context.Context, _ *mcp.CallToolRequest, in GetNPCInput) (*mcp.CallToolResult, *entity.NPC, error) {
	npc, err := s.engine.GetNPC(ctx, in.CampaignID, in.NPCID)
	if err != nil {
		return nil, nil, err
	}
	return nil, npc, nil
}

type CombatStatusResult struct {
	Active bool `json:"active"`
	// Session is the live combat session; omitted when no combat is active.
	Session *entity.CombatSession `json:"session,omitempty"`
}

func (s *Server) getCombatStatus(ctx context.Context, _ *mcp.CallToolRequest, in CampaignIDInput) (*mcp.CallToolResult, CombatStatusResult, error) {
	session, err := s.engine.GetCombatStatus(ctx, in.CampaignID)
	if err != nil {
		return nil, CombatStatusResult{}, err
	}
	return nil, CombatStatusResult{Active: session != nil, Session: session}, nil
}

type BestiaryResult struct {
	Entries []*entity.BestiaryEntry `json:"entries"`
}

func (s *Server) getBestiary(ctx context.Context, _ *mcp.CallToolRequest, in CampaignIDInput) (*mcp.CallToolResult, BestiaryResult, error) {
	entries, err := s.engine.GetBestiary(ctx, in.CampaignID)
	if err != nil {
		return nil, BestiaryResult{}, err
	}
	return nil, BestiaryResult{Entries: entries}, nil
}
