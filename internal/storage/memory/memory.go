// Package memory provides an in-process implementation of the storage
// contracts, used as the development default and as the reference
// implementation in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/torchlight-games/chronicler/internal/game/entity"
	"github.com/torchlight-games/chronicler/internal/storage"
)

// Campaigns is an in-memory storage.Campaigns implementation. Records
// are stored as deep copies, so callers never alias stored state.
// Mutate serializes same-campaign cycles with a lock keyed by campaign
// ID; different campaigns proceed in parallel.
type Campaigns struct {
	mu        sync.RWMutex
	records   map[string]*entity.Campaign
	campaigns map[string]*sync.Mutex // per-campaign Mutate locks
}

// NewCampaigns creates an empty in-memory campaign store.
//
// Postcondition: Returns a non-nil store ready for use.
func NewCampaigns() *Campaigns {
	return &Campaigns{
		records:   make(map[string]*entity.Campaign),
		campaigns: make(map[string]*sync.Mutex),
	}
}

// Create persists a new campaign.
func (s *Campaigns) Create(_ context.Context, c *entity.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[c.ID]; exists {
		return storage.ErrDuplicate
	}
	s.records[c.ID] = c.Clone()
	s.campaigns[c.ID] = &sync.Mutex{}
	return nil
}

// Get returns a deep copy of the campaign with the given ID.
func (s *Campaigns) Get(_ context.Context, id string) (*entity.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c.Clone(), nil
}

// List returns deep copies of all campaigns ordered by ID.
func (s *Campaigns) List(_ context.Context) ([]*entity.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Campaign, 0, len(s.records))
	for _, c := range s.records {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces the stored record with c.
func (s *Campaigns) Update(_ context.Context, c *entity.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[c.ID]; !ok {
		return storage.ErrNotFound
	}
	s.records[c.ID] = c.Clone()
	return nil
}

// Delete removes the campaign with the given ID.
func (s *Campaigns) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.records, id)
	delete(s.campaigns, id)
	return nil
}

// Mutate runs fn in a read-modify-write cycle serialized per campaign.
// The snapshot swap is all-or-nothing: if fn fails, the stored record
// is untouched.
func (s *Campaigns) Mutate(ctx context.Context, id string, fn func(*entity.Campaign) error) (*entity.Campaign, error) {
	lock, err := s.campaignLock(id)
	if err != nil {
		return nil, err
	}
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}
	if err := s.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *Campaigns) campaignLock(id string) (*sync.Mutex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lock, ok := s.campaigns[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return lock, nil
}
