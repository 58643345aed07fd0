package model

import (
	"blog/internal/auth"
	"blog/internal/config"
	"blog/internal/entity"
	"context"
	"errors"

	"gorm.io/gorm"
)

// SeedAdminUser ensures the bootstrap "admin" account exists. The first-run
// setup flow repurposes this record, so a deployment without it is broken.
func SeedAdminUser(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	_, err := repo.GetUserByLogin(ctx, entity.AdminLogin)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return createAdminUser(ctx, repo, cfg)
	default:
		return err
	}
}

func createAdminUser(ctx context.Context, repo Repository, cfg config.Config) error {
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	email := cfg.AdminEmail
	if email == "" {
		email = "admin@localhost"
	}

	admin := &entity.DbUser{
		Login:        entity.AdminLogin,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Administrator",
		LangKey:      "en",
		Activated:    true,
		Roles:        entity.StringArray{entity.RoleAdmin, entity.RoleUser},
	}

	return repo.CreateUser(ctx, admin)
}
