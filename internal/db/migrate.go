package db

import (
	"context"
	"database/sql"
)

const coreMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS user_profiles (
    id text PRIMARY KEY,
    email text NOT NULL,
    role text NOT NULL DEFAULT 'executive',
    status text NOT NULL DEFAULT 'pending',
    assistant_id text REFERENCES user_profiles(id),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS user_profiles_email_lower_idx
ON user_profiles (LOWER(email));

CREATE TABLE IF NOT EXISTS credentials (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    profile_id text NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    password_hash text NOT NULL,
    hash_version text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT credentials_profile_unique UNIQUE (profile_id)
);
`

// RunCoreMigration creates the tables the access-control core reads and
// writes. The primary key on user_profiles.id is what makes lazy profile
// creation safe under concurrent first-sight requests.
func RunCoreMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, coreMigration)
	return err
}
