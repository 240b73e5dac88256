package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/config"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// bootstrapAdmin creates the manager account from ADMIN_EMAIL once, so a
// fresh installation can log in and create employees.
func bootstrapAdmin(ctx context.Context, users user.UserRepository, admin config.AdminConfig) error {
	if admin.Email == "" {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(admin.Email))

	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if exists {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	hash := string(hashed)

	if _, err := users.Create(ctx, user.User{Email: email, PasswordHash: &hash, Role: user.RoleManager}); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	slog.Info("Admin user created", "email", email)
	return nil
}
