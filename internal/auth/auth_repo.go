package auth

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DhavalSuthar-24/crickpro/internal/user"
)

type AuthRepository interface {
	CreateUser(u *user.User) error
	GetUserByEmail(email string) (*user.User, error)
	GetUserByUsername(username string) (*user.User, error)
	GetUserByID(id uint) (*user.User, error)
	UpdateUser(u *user.User) error

	SaveRefreshToken(token *user.RefreshToken) error
	GetRefreshToken(tokenString string) (*user.RefreshToken, error)
	InvalidateRefreshToken(tokenString string) error
	InvalidateAllRefreshTokensForUser(userID uint) error

	EnsureRoles(names ...string) error
	AssignRoleToUser(userID uint, role string) error
	GetUserRoles(userID uint) ([]string, error)
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *authRepository) GetUserByEmail(email string) (*user.User, error) {
	return r.findUser("email = ?", email)
}

func (r *authRepository) GetUserByUsername(username string) (*user.User, error) {
	return r.findUser("username = ?", username)
}

func (r *authRepository) GetUserByID(id uint) (*user.User, error) {
	return r.findUser("id = ?", id)
}

// findUser returns gorm.ErrRecordNotFound unwrapped so callers can test for it.
func (r *authRepository) findUser(query string, arg interface{}) (*user.User, error) {
	var u user.User
	if err := r.db.Where(query, arg).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) UpdateUser(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *authRepository) SaveRefreshToken(token *user.RefreshToken) error {
	return r.db.Create(token).Error
}

// GetRefreshToken returns the token only while it is unrevoked and unexpired.
func (r *authRepository) GetRefreshToken(tokenString string) (*user.RefreshToken, error) {
	var rt user.RefreshToken
	if err := r.db.Where("token = ? AND expires_at > ? AND revoked = ?", tokenString, time.Now(), false).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *authRepository) InvalidateRefreshToken(tokenString string) error {
	return r.db.Model(&user.RefreshToken{}).Where("token = ?", tokenString).Update("revoked", true).Error
}

func (r *authRepository) InvalidateAllRefreshTokensForUser(userID uint) error {
	result := r.db.Model(&user.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("failed to invalidate all refresh tokens: %w", result.Error)
	}
	return nil
}

// EnsureRoles creates any of the named roles that do not exist yet.
func (r *authRepository) EnsureRoles(names ...string) error {
	for _, name := range names {
		role := user.Role{Name: name}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role %q: %w", name, err)
		}
	}
	return nil
}

func (r *authRepository) AssignRoleToUser(userID uint, roleName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d not found", userID)
			}
			return fmt.Errorf("failed to find user: %w", err)
		}

		var role user.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("role '%s' not found", roleName)
			}
			return fmt.Errorf("failed to find role: %w", err)
		}

		var existing user.UserRole
		err := tx.Where("user_id = ? AND role_id = ?", userID, role.ID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing user role: %w", err)
		}

		if err := tx.Create(&user.UserRole{UserID: userID, RoleID: role.ID}).Error; err != nil {
			return fmt.Errorf("failed to assign role to user: %w", err)
		}
		return nil
	})
}

func (r *authRepository) GetUserRoles(userID uint) ([]string, error) {
	var roles []string
	err := r.db.Model(&user.UserRole{}).
		Joins("JOIN roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND user_roles.deleted_at IS NULL", userID).
		Order("roles.name").
		Pluck("roles.name", &roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return roles, nil
}
