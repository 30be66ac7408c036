package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
	"github.com/DhavalSuthar-24/crickpro/internal/user"
	"github.com/DhavalSuthar-24/crickpro/utils"
)

// Seed creates the default roles and, when an email and password are given,
// an admin account. An existing account with that email is promoted.
func Seed(repo AuthRepository, adminEmail, adminPassword string) error {
	if err := repo.EnsureRoles(user.DefaultRoles...); err != nil {
		return err
	}
	if adminEmail == "" || adminPassword == "" {
		return nil
	}
	adminEmail = strings.ToLower(adminEmail)

	admin, err := repo.GetUserByEmail(adminEmail)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := utils.HashPassword(adminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin = &user.User{
			Name:       "Administrator",
			Username:   "admin",
			Email:      adminEmail,
			Password:   hash,
			LastActive: time.Now(),
		}
		if err := repo.CreateUser(admin); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		telemetry.Infof("Seeded admin account %s", adminEmail)
	case err != nil:
		return fmt.Errorf("look up admin: %w", err)
	}
	return repo.AssignRoleToUser(admin.ID, user.RoleAdmin)
}
