// Package engine implements the campaign lifecycle and combat
// resolution operations over an injected campaign repository. All
// state lives in the repository; each operation reloads, mutates, and
// saves the campaign it touches.
package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/torchlight-games/chronicler/internal/game/dice"
	"github.com/torchlight-games/chronicler/internal/game/entity"
	"github.com/torchlight-games/chronicler/internal/storage"
)

// Engine resolves campaign and combat operations. Safe for concurrent
// use: per-campaign serialization is delegated to the repository's
// Mutate contract.
type Engine struct {
	campaigns storage.Campaigns
	roller    *dice.Roller
	logger    *zap.Logger
}

// New creates an Engine over the given repository and dice roller.
//
// Precondition: campaigns, roller, and logger must be non-nil.
func New(campaigns storage.Campaigns, roller *dice.Roller, logger *zap.Logger) *Engine {
	return &Engine{
		campaigns: campaigns,
		roller:    roller,
		logger:    logger,
	}
}

// load fetches a campaign, translating storage errors to engine kinds.
func (e *Engine) load(ctx context.Context, campaignID string) (*entity.Campaign, error) {
	c, err := e.campaigns.Get(ctx, campaignID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("campaign %q: %w", campaignID, ErrCampaignNotFound)
		}
		return nil, fmt.Errorf("loading campaign %q: %w: %v", campaignID, ErrRepository, err)
	}
	return c, nil
}

// mutate runs fn through the repository's serialized read-modify-write
// cycle, translating storage errors to engine kinds. Engine error
// kinds raised inside fn pass through unchanged.
func (e *Engine) mutate(ctx context.Context, campaignID string, fn func(*entity.Campaign) error) (*entity.Campaign, error) {
	c, err := e.campaigns.Mutate(ctx, campaignID, fn)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("campaign %q: %w", campaignID, ErrCampaignNotFound)
		case isEngineError(err):
			return nil, err
		default:
			return nil, fmt.Errorf("updating campaign %q: %w: %v", campaignID, ErrRepository, err)
		}
	}
	return c, nil
}

// isEngineError reports whether err carries one of the typed engine
// kinds (or a dice expression failure) rather than a storage failure.
func isEngineError(err error) bool {
	for _, kind := range []error{
		ErrValidation, ErrCampaignNotFound, ErrEntityNotFound,
		ErrDuplicateCampaign, ErrDuplicateEntity, ErrInvalidThreatLevel,
		ErrUnknownWeapon, ErrInvalidAttacker, ErrInvalidTarget,
		ErrInsufficientFunds, dice.ErrInvalidExpression,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
