package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/torchlight-games/chronicler/internal/game/entity"
)

// ItemParams are the arguments for AddItem and UpdateItem. Owner names
// the inventory holder: the player or an NPC, by ID or name.
type ItemParams struct {
	CampaignID  string
	Owner       string
	Name        string
	Description string
	// Source records where the item came from, e.g. "looted", "quest
	// reward".
	Source string
	// Weapon marks the item usable in combat; a weapon requires a
	// parseable damage dice expression.
	Weapon bool
	Damage string
}

func (p ItemParams) validate() error {
	if p.CampaignID == "" {
		return fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if p.Owner == "" {
		return fmt.Errorf("owner is required: %w", ErrValidation)
	}
	if p.Name == "" {
		return fmt.Errorf("item name is required: %w", ErrValidation)
	}
	if p.Weapon && p.Damage == "" {
		return fmt.Errorf("a weapon item requires damage dice: %w", ErrValidation)
	}
	if p.Damage != "" {
		if _, err := dieParse(p.Damage); err != nil {
			return err
		}
	}
	return nil
}

func (p ItemParams) item() *entity.Item {
	return &entity.Item{
		Description: p.Description,
		Source:      p.Source,
		Weapon:      p.Weapon,
		Damage:      p.Damage,
	}
}

// AddItem places a new item in the owner's inventory.
//
// Postcondition: Returns ErrEntityNotFound for an unknown owner or
// ErrDuplicateEntity when the owner already carries an item by that
// name. Bestiary creatures do not carry inventories.
func (e *Engine) AddItem(ctx context.Context, p ItemParams) (*entity.Item, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	item := p.item()
	_, err := e.mutate(ctx, p.CampaignID, func(c *entity.Campaign) error {
		inv, owner, err := holderInventory(c, p.Owner)
		if err != nil {
			return err
		}
		if _, exists := inv.Item(p.Name); exists {
			return fmt.Errorf("%s already carries %q: %w", owner, p.Name, ErrDuplicateEntity)
		}
		inv.SetItem(p.Name, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("item added",
		zap.String("campaign_id", p.CampaignID),
		zap.String("owner", p.Owner),
		zap.String("item", p.Name),
		zap.Bool("weapon", p.Weapon),
	)
	return item, nil
}

// UpdateItem replaces an existing item's attributes. The item keeps
// its name; description, source, weapon flag, and damage are all
// overwritten with the given values.
//
// Postcondition: Returns ErrEntityNotFound when the owner or item is
// unknown.
func (e *Engine) UpdateItem(ctx context.Context, p ItemParams) (*entity.Item, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	item := p.item()
	_, err := e.mutate(ctx, p.CampaignID, func(c *entity.Campaign) error {
		inv, owner, err := holderInventory(c, p.Owner)
		if err != nil {
			return err
		}
		if _, exists := inv.Item(p.Name); !exists {
			return fmt.Errorf("%s carries no item %q: %w", owner, p.Name, ErrEntityNotFound)
		}
		inv.SetItem(p.Name, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("item updated",
		zap.String("campaign_id", p.CampaignID),
		zap.String("owner", p.Owner),
		zap.String("item", p.Name),
	)
	return item, nil
}

// RemoveItem deletes an item from the owner's inventory.
//
// Postcondition: Returns ErrEntityNotFound when the owner or item is
// unknown.
func (e *Engine) RemoveItem(ctx context.Context, campaignID, owner, name string) error {
	if campaignID == "" {
		return fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if owner == "" {
		return fmt.Errorf("owner is required: %w", ErrValidation)
	}
	if name == "" {
		return fmt.Errorf("item name is required: %w", ErrValidation)
	}

	_, err := e.mutate(ctx, campaignID, func(c *entity.Campaign) error {
		inv, resolved, err := holderInventory(c, owner)
		if err != nil {
			return err
		}
		if !inv.RemoveItem(name) {
			return fmt.Errorf("%s carries no item %q: %w", resolved, name, ErrEntityNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.logger.Info("item removed",
		zap.String("campaign_id", campaignID),
		zap.String("owner", owner),
		zap.String("item", name),
	)
	return nil
}

// GetInventory returns a copy of the owner's inventory. An owner that
// has never carried anything reports an empty inventory rather than
// an error.
func (e *Engine) GetInventory(ctx context.Context, campaignID, owner string) (*entity.Inventory, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if owner == "" {
		return nil, fmt.Errorf("owner is required: %w", ErrValidation)
	}

	c, err := e.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	inv, _, err := holderInventory(c, owner)
	if err != nil {
		return nil, err
	}
	return inv.Clone(), nil
}

// AddMoney raises the owner's balance by amount.
//
// Postcondition: Returns the new balance; amount must be positive.
func (e *Engine) AddMoney(ctx context.Context, campaignID, owner string, amount int) (balance int, err error) {
	if err := validateMoney(campaignID, owner, amount); err != nil {
		return 0, err
	}

	_, err = e.mutate(ctx, campaignID, func(c *entity.Campaign) error {
		inv, _, err := holderInventory(c, owner)
		if err != nil {
			return err
		}
		inv.Money += amount
		balance = inv.Money
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("money added",
		zap.String("campaign_id", campaignID),
		zap.String("owner", owner),
		zap.Int("amount", amount),
		zap.Int("balance", balance),
	)
	return balance, nil
}

// RemoveMoney lowers the owner's balance by amount.
//
// Postcondition: Returns ErrInsufficientFunds when amount exceeds the
// balance; the balance never goes negative, and a failed withdrawal
// persists nothing.
func (e *Engine) RemoveMoney(ctx context.Context, campaignID, owner string, amount int) (balance int, err error) {
	if err := validateMoney(campaignID, owner, amount); err != nil {
		return 0, err
	}

	_, err = e.mutate(ctx, campaignID, func(c *entity.Campaign) error {
		inv, resolved, err := holderInventory(c, owner)
		if err != nil {
			return err
		}
		if amount > inv.Money {
			return fmt.Errorf("%s has %d, cannot remove %d: %w", resolved, inv.Money, amount, ErrInsufficientFunds)
		}
		inv.Money -= amount
		balance = inv.Money
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("money removed",
		zap.String("campaign_id", campaignID),
		zap.String("owner", owner),
		zap.Int("amount", amount),
		zap.Int("balance", balance),
	)
	return balance, nil
}

func validateMoney(campaignID, owner string, amount int) error {
	if campaignID == "" {
		return fmt.Errorf("campaign_id is required: %w", ErrValidation)
	}
	if owner == "" {
		return fmt.Errorf("owner is required: %w", ErrValidation)
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be > 0, got %d: %w", amount, ErrValidation)
	}
	return nil
}

// holderInventory resolves owner to the player or an NPC and returns
// its inventory, lazily allocating one on records that predate
// inventories. The second return is the holder's display name.
//
// Postcondition: Returns ErrEntityNotFound when owner matches neither
// the player nor an NPC; bestiary creatures never hold inventories.
func holderInventory(c *entity.Campaign, owner string) (*entity.Inventory, string, error) {
	if matchesPlayer(c, owner) {
		if c.Player.Inventory == nil {
			c.Player.Inventory = entity.NewInventory()
		}
		return c.Player.Inventory, c.Player.Name, nil
	}
	if npc, ok := findNPC(c, owner); ok {
		if npc.Inventory == nil {
			npc.Inventory = entity.NewInventory()
		}
		return npc.Inventory, npc.Name, nil
	}
	return nil, "", fmt.Errorf("%q matches no player or npc: %w", owner, ErrEntityNotFound)
}
