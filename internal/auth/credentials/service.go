package credentials

import (
	"context"
	"errors"

	"github.com/SaganOrg/command-center-sub001/internal/db"
	"github.com/SaganOrg/command-center-sub001/internal/profile"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
)

// Service handles form-based signup and login. Signup provisions the
// profile through the same store the OAuth paths use, with the signup
// provisioning policy (approved).
type Service struct {
	db       *db.DB
	profiles profile.Store
}

func NewService(db *db.DB, profiles profile.Store) *Service {
	return &Service{db: db, profiles: profiles}
}

func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	// 1. Find or create profile by email. Form signups have no external
	// subject, so a generated UUID becomes the opaque profile id.
	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if p == nil {
		p, _, err = s.profiles.GetOrCreate(
			ctx,
			uuid.NewString(),
			email,
			profile.SignupDefaults,
		)
		if err != nil {
			return "", err
		}
	}

	// 2. Check if credentials already exist
	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credentials WHERE profile_id = $1
		)
	`, p.ID).Scan(&exists)

	if err != nil {
		return "", err
	}

	if exists {
		return "", ErrAlreadyRegistered
	}

	// 3. Hash password
	hash, version, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	// 4. Insert credentials
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (profile_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, p.ID, hash, version)

	if err != nil {
		return "", err
	}

	return p.ID, nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	var (
		profileID    string
		passwordHash string
	)

	// 1. Find profile + credentials
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, c.password_hash
		FROM user_profiles p
		JOIN credentials c ON c.profile_id = p.id
		WHERE LOWER(p.email) = LOWER($1)
	`, email).Scan(&profileID, &passwordHash)

	if err != nil {
		// hide whether the account exists or not
		return "", ErrInvalidCredentials
	}

	// 2. Verify password
	if err := VerifyPassword(passwordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return profileID, nil
}
