package team

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DhavalSuthar-24/crickpro/internal/match"
)

// ErrMissingTeamID is returned when a team is saved without an id.
var ErrMissingTeamID = errors.New("team id is required")

// TeamRepository defines the interface for saved team operations
type TeamRepository interface {
	SaveTeam(ctx context.Context, userID uint, t match.Team) error
	ListTeams(ctx context.Context, userID uint) ([]match.Team, error)
}

type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new GORM-backed TeamRepository
func NewTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// SaveTeam upserts the team by (user, team id).
func (r *GormTeamRepository) SaveTeam(ctx context.Context, userID uint, t match.Team) error {
	if t.ID == "" {
		return ErrMissingTeamID
	}
	roster := rosterFromTeam(userID, t)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "team_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "color", "logo", "players", "updated_at"}),
	}).Create(&roster).Error
}

// ListTeams returns the user's teams, oldest first.
func (r *GormTeamRepository) ListTeams(ctx context.Context, userID uint) ([]match.Team, error) {
	var rosters []TeamRoster
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&rosters).Error; err != nil {
		return nil, err
	}
	teams := make([]match.Team, 0, len(rosters))
	for _, roster := range rosters {
		teams = append(teams, roster.Team())
	}
	return teams, nil
}
