// Package storage defines the persistence contracts between the game
// engine and its backing stores. Implementations live in the memory
// and postgres subpackages; the engine depends only on the interfaces
// here.
package storage

import (
	"context"
	"errors"

	"github.com/torchlight-games/chronicler/internal/game/entity"
)

// ErrNotFound is returned when a lookup by identifier yields no record.
var ErrNotFound = errors.New("storage: record not found")

// ErrDuplicate is returned when a create collides with an existing identifier.
var ErrDuplicate = errors.New("storage: duplicate identifier")

// Campaigns is the persistence contract for campaign records. The
// campaign is the unit of persistence: NPCs, bestiary entries, and the
// combat session are nested state, updated through whole-campaign
// read-modify-write cycles.
//
// Implementations MUST guarantee that a persisted write is atomic (a
// reader never observes a partially written record) and that Mutate
// calls for the same campaign ID are mutually exclusive end-to-end.
// Operations on different campaigns may run in parallel.
type Campaigns interface {
	// Create persists a new campaign.
	//
	// Postcondition: Returns ErrDuplicate if a campaign with c.ID
	// already exists; on success the record is durably stored.
	Create(ctx context.Context, c *entity.Campaign) error

	// Get returns the campaign with the given ID.
	//
	// Postcondition: Returns ErrNotFound if absent. The returned
	// record is owned by the caller; mutating it does not affect the
	// stored record.
	Get(ctx context.Context, id string) (*entity.Campaign, error)

	// List returns all campaigns ordered by ID.
	List(ctx context.Context) ([]*entity.Campaign, error)

	// Update replaces the stored record with c (full-record replace,
	// not a field-level patch).
	//
	// Postcondition: Returns ErrNotFound if no campaign with c.ID exists.
	Update(ctx context.Context, c *entity.Campaign) error

	// Delete removes the campaign with the given ID.
	//
	// Postcondition: Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Mutate runs fn inside a serialized read-modify-write cycle: the
	// campaign is loaded, fn mutates it in memory, and the result is
	// persisted as one atomic update. If fn returns an error the
	// cycle aborts and no state change is observable.
	//
	// Postcondition: Returns the persisted campaign, ErrNotFound if
	// absent, or fn's error unchanged.
	Mutate(ctx context.Context, id string, fn func(*entity.Campaign) error) (*entity.Campaign, error)
}
