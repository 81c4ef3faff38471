// ABOUTME: Profile and business profile persistence
// ABOUTME: Missing rows return nil so the assembler can degrade gracefully
package sqlite

import (
	"database/sql"

	"github.com/cadencehq/coachmem/internal/models"
)

// ProfileStore handles user and business profile persistence
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new ProfileStore
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// SaveProfile inserts or updates the user profile
func (s *ProfileStore) SaveProfile(p *models.Profile) error {
	_, err := s.db.Exec(`
		INSERT INTO profiles (user_id, full_name, email)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			updated_at = CURRENT_TIMESTAMP
	`, p.UserID, nullString(p.FullName), nullString(p.Email))
	return err
}

// GetProfile retrieves a user profile, nil if none exists
func (s *ProfileStore) GetProfile(userID string) (*models.Profile, error) {
	var (
		p        models.Profile
		fullName sql.NullString
		email    sql.NullString
	)

	err := s.db.QueryRow(`
		SELECT user_id, full_name, email FROM profiles WHERE user_id = ?
	`, userID).Scan(&p.UserID, &fullName, &email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.FullName = fullName.String
	p.Email = email.String

	return &p, nil
}

// SaveBusinessProfile inserts or updates the business profile
func (s *ProfileStore) SaveBusinessProfile(bp *models.BusinessProfile) error {
	var teamSize sql.NullInt64
	if bp.TeamSize > 0 {
		teamSize = sql.NullInt64{Int64: int64(bp.TeamSize), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO business_profiles (user_id, role, industry, stage, team_size)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			role = excluded.role,
			industry = excluded.industry,
			stage = excluded.stage,
			team_size = excluded.team_size,
			updated_at = CURRENT_TIMESTAMP
	`, bp.UserID, nullString(bp.Role), nullString(bp.Industry), nullString(bp.Stage), teamSize)
	return err
}

// GetBusinessProfile retrieves a business profile, nil if none exists
func (s *ProfileStore) GetBusinessProfile(userID string) (*models.BusinessProfile, error) {
	var (
		bp       models.BusinessProfile
		role     sql.NullString
		industry sql.NullString
		stage    sql.NullString
		teamSize sql.NullInt64
	)

	err := s.db.QueryRow(`
		SELECT user_id, role, industry, stage, team_size FROM business_profiles WHERE user_id = ?
	`, userID).Scan(&bp.UserID, &role, &industry, &stage, &teamSize)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	bp.Role = role.String
	bp.Industry = industry.String
	bp.Stage = stage.String
	bp.TeamSize = int(teamSize.Int64)

	return &bp, nil
}
