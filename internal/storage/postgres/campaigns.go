package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/torchlight-games/chronicler/internal/game/entity"
	"github.com/torchlight-games/chronicler/internal/storage"
)

// Campaigns is a storage.Campaigns implementation backed by a single
// campaigns table. The campaign record is stored as one JSONB column,
// so a row update is atomic by construction; Mutate serializes
// same-campaign cycles with a row lock (SELECT ... FOR UPDATE).
type Campaigns struct {
	db *pgxpool.Pool
}

// NewCampaigns creates a campaign repository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the
// campaigns table migrated.
func NewCampaigns(db *pgxpool.Pool) *Campaigns {
	return &Campaigns{db: db}
}

// Create inserts a new campaign row.
func (r *Campaigns) Create(ctx context.Context, c *entity.Campaign) error {
	state, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding campaign %q: %w", c.ID, err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO campaigns (id, name, state)
		VALUES ($1, $2, $3)`,
		c.ID, c.Name, state,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("inserting campaign %q: %w", c.ID, err)
	}
	return nil
}

// Get retrieves the campaign with the given ID.
func (r *Campaigns) Get(ctx context.Context, id string) (*entity.Campaign, error) {
	var state []byte
	err := r.db.QueryRow(ctx,
		`SELECT state FROM campaigns WHERE id = $1`, id,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("querying campaign %q: %w", id, err)
	}
	return decodeCampaign(id, state)
}

// List returns all campaigns ordered by ID.
func (r *Campaigns) List(ctx context.Context) ([]*entity.Campaign, error) {
	rows, err := r.db.Query(ctx, `SELECT id, state FROM campaigns ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*entity.Campaign, 0)
	for rows.Next() {
		var (
			id    string
			state []byte
		)
		if err := rows.Scan(&id, &state); err != nil {
			return nil, fmt.Errorf("scanning campaign row: %w", err)
		}
		c, err := decodeCampaign(id, state)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// Update replaces the stored record with c.
func (r *Campaigns) Update(ctx context.Context, c *entity.Campaign) error {
	state, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding campaign %q: %w", c.ID, err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE campaigns SET name = $2, state = $3, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, state,
	)
	if err != nil {
		return fmt.Errorf("updating campaign %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes the campaign with the given ID.
func (r *Campaigns) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting campaign %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Mutate runs fn against the campaign row inside a transaction holding
// a row lock, so concurrent cycles for the same campaign serialize at
// the database. fn errors roll the transaction back unchanged.
func (r *Campaigns) Mutate(ctx context.Context, id string, fn func(*entity.Campaign) error) (*entity.Campaign, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("beginning campaign transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var state []byte
	err = tx.QueryRow(ctx,
		`SELECT state FROM campaigns WHERE id = $1 FOR UPDATE`, id,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("locking campaign %q: %w", id, err)
	}

	c, err := decodeCampaign(id, state)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}

	updated, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding campaign %q: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE campaigns SET name = $2, state = $3, updated_at = NOW()
		WHERE id = $1`,
		id, c.Name, updated,
	); err != nil {
		return nil, fmt.Errorf("updating campaign %q: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing campaign %q: %w", id, err)
	}
	return c, nil
}

// decodeCampaign unmarshals a state column. A row that fails to decode
// is corruption and must surface, never be silently recovered.
func decodeCampaign(id string, state []byte) (*entity.Campaign, error) {
	var c entity.Campaign
	if err := json.Unmarshal(state, &c); err != nil {
		return nil, fmt.Errorf("decoding campaign %q: %w", id, err)
	}
	return &c, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
