package ctxkeys

import (
	"context"

	"github.com/littlesteps/booking/internal/config"
	"github.com/littlesteps/booking/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AdminKey  contextKey = "admin"
	ConfigKey contextKey = "config"
)

func Admin(ctx context.Context) *model.AdminUser {
	admin, _ := ctx.Value(AdminKey).(*model.AdminUser)
	return admin
}

func WithAdmin(ctx context.Context, admin *model.AdminUser) context.Context {
	return context.WithValue(ctx, AdminKey, admin)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}
