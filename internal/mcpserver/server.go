// Package mcpserver exposes the engine's operations as MCP tools over
// a stdio transport. It is a thin mapping layer: argument decoding and
// error reporting only, no game rules.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/torchlight-games/chronicler/internal/game/engine"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// Server wraps an MCP server bound to one engine instance.
type Server struct {
	engine *engine.Engine
	logger *zap.Logger
	mcp    *mcp.Server
}

// New creates an MCP server named name with every engine operation
// registered as a tool.
//
// Precondition: eng and logger must be non-nil.
func New(name string, eng *engine.Engine, logger *zap.Logger) *Server {
	s := &Server{
		engine: eng,
		logger: logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: serverVersion,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "begin_campaign",
		Description: "Start a new campaign with a player character. The campaign ID is a slug derived from the name.",
	}, s.beginCampaign)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_npc",
		Description: "Create an NPC in the campaign. hit_chance defaults to 50 when omitted.",
	}, s.createNPC)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_bestiary_entry",
		Description: "Create a creature template with a mandatory threat level. Hit chance is derived from the threat level and cannot be supplied.",
	}, s.createBestiaryEntry)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "attack",
		Description: "Resolve an attack between two participants. Names matching the player, an NPC, or a bestiary creature join combat on first reference. Omitting the weapon uses unarmed combat (1d4).",
	}, s.attack)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_from_combat",
		Description: "Remove a participant from combat with a reason: dead, fled, or surrendered.",
	}, s.removeFromCombat)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "spawn_enemy",
		Description: "Spawn a bestiary creature into the combat session without attacking.",
	}, s.spawnEnemy)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "heal_npc",
		Description: "Heal an NPC by rolling healing dice (e.g. '1d4', '2d6+1'). Health cannot exceed the NPC's maximum.",
	}, s.healNPC)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_item",
		Description: "Add an item to the player's or an NPC's inventory. Items flagged as weapons carry damage dice and can be used in attacks.",
	}, s.addItem)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_item",
		Description: "Remove an item from an inventory.",
	}, s.removeItem)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "update_item",
		Description: "Replace an existing inventory item's description, source, weapon flag, and damage.",
	}, s.updateItem)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_inventory",
		Description: "Get the items and money carried by the player or an NPC.",
	}, s.getInventory)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_money",
		Description: "Add money to the player's or an NPC's inventory.",
	}, s.addMoney)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_money",
		Description: "Remove money from an inventory. Fails if the balance is insufficient.",
	}, s.removeMoney)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_campaigns",
		Description: "List all campaigns.",
	}, s.listCampaigns)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_campaign",
		Description: "Get a campaign's full state.",
	}, s.getCampaign)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_npcs",
		Description: "List the campaign's NPCs.",
	}, s.listNPCs)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_npc",
		Description: "Get one NPC by ID or name.",
	}, s.getNPC)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_combat_status",
		Description: "Get the active combat session, if any.",
	}, s.getCombatStatus)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_bestiary",
		Description: "List the campaign's bestiary entries.",
	}, s.getBestiary)
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
