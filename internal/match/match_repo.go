package match

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository stores each user's current match.
type MatchRepository interface {
	Save(ctx context.Context, userID uint, s MatchState) error
	// Load returns nil, nil when the user has no saved match.
	Load(ctx context.Context, userID uint) (*MatchState, error)
	Clear(ctx context.Context, userID uint) error
	ListAll(ctx context.Context, page, pageSize int) ([]MatchSnapshot, int64, error)
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// Save upserts the snapshot keyed by user.
func (r *GormMatchRepository) Save(ctx context.Context, userID uint, s MatchState) error {
	snap := MatchSnapshot{
		UserID:   userID,
		Phase:    s.Phase,
		Revision: s.Revision,
		Winner:   s.Winner,
		State:    s,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phase", "revision", "winner", "state", "updated_at"}),
	}).Create(&snap).Error
}

func (r *GormMatchRepository) Load(ctx context.Context, userID uint) (*MatchState, error) {
	var snap MatchSnapshot
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&snap)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	s := snap.State
	if s.SchemaVersion == 0 {
		s.SchemaVersion = SchemaVersion
	}
	return &s, nil
}

// Clear hard-deletes the snapshot so the unique user index is free again.
func (r *GormMatchRepository) Clear(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userID).Delete(&MatchSnapshot{}).Error
}

// ListAll retrieves snapshots with pagination, most recently updated first.
func (r *GormMatchRepository) ListAll(ctx context.Context, page, pageSize int) ([]MatchSnapshot, int64, error) {
	var snaps []MatchSnapshot
	var total int64

	query := r.db.WithContext(ctx).Model(&MatchSnapshot{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	result := query.Order("updated_at desc").Order("id desc").Offset(offset).Limit(pageSize).Find(&snaps)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return snaps, total, nil
}
