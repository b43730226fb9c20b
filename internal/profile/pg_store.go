package profile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/SaganOrg/command-center-sub001/internal/db"
)

// lookupTimeout bounds every profile store round-trip. Lookups run on
// the request path, so a hung database must surface as a deny, not a
// stalled navigation.
const lookupTimeout = 3 * time.Second

// PGStore is the canonical Postgres-backed profile store.
type PGStore struct {
	db *db.DB
}

func NewPGStore(db *db.DB) *PGStore {
	return &PGStore{db: db}
}

const profileColumns = `id, email, role, status, assistant_id, created_at, updated_at`

func scanProfile(row *sql.Row) (*Profile, error) {
	var (
		p           Profile
		assistantID sql.NullString
	)

	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Role,
		&p.Status,
		&assistantID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if assistantID.Valid {
		p.AssistantID = &assistantID.String
	}
	return &p, nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	return scanProfile(s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM user_profiles
		WHERE id = $1
	`, id))
}

func (s *PGStore) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	return scanProfile(s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM user_profiles
		WHERE LOWER(email) = LOWER($1)
	`, email))
}

// GetOrCreate returns the profile for id, inserting it with the given
// provisioning defaults when absent. The insert is ON CONFLICT DO
// NOTHING keyed on id, so two requests racing on the same new identity
// converge on one row and the loser simply re-reads. Transient lookup
// failures are retried once before surfacing.
func (s *PGStore) GetOrCreate(ctx context.Context, id, email string, d Defaults) (*Profile, bool, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		// single retry on transient failure
		p, err = s.Get(ctx, id)
		if err != nil {
			return nil, false, err
		}
	}
	if p != nil {
		return p, false, nil
	}

	insertCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	res, err := s.db.ExecContext(insertCtx, `
		INSERT INTO user_profiles (id, email, role, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, id, email, string(d.Role), string(d.Status))
	if err != nil {
		return nil, false, err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	p, err = s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return nil, false, errors.New("profile: row missing after insert")
	}

	return p, inserted == 1, nil
}
