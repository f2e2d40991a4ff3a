package app

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
	"github.com/aussiebroadwan/soapbox/internal/api/service"
	"github.com/aussiebroadwan/soapbox/internal/api/store/drivers/sqlite"
	"github.com/aussiebroadwan/soapbox/pkg/cryptox"
)

// OpenStore opens the configured database without touching its schema.
func OpenStore(cfg Config) (*sqlite.Store, error) {
	db, err := sqlite.NewStore(sqlite.DSN(cfg.DatabaseFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// NewPasswordHasher loads the pepper, creating it on first use.
func NewPasswordHasher(cfg Config) (*cryptox.PasswordHasher, error) {
	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	return cryptox.NewPasswordHasher(pepper), nil
}

// Migrate applies pending migrations and returns the resulting version.
func Migrate(cfg Config) (uint, error) {
	db, err := OpenStore(cfg)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()

	if err := db.ApplyMigrations(); err != nil {
		return 0, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	v, _, err := db.MigrationVersion()
	return v, err
}

// CreateAdmin provisions an admin account directly against the database.
// The schema is migrated first so it works on a fresh file.
func CreateAdmin(ctx context.Context, cfg Config, username, email, password string) (domain.User, error) {
	db, err := OpenStore(cfg)
	if err != nil {
		return domain.User{}, err
	}
	defer func() { _ = db.Close() }()

	if err := db.ApplyMigrations(); err != nil {
		return domain.User{}, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	hasher, err := NewPasswordHasher(cfg)
	if err != nil {
		return domain.User{}, err
	}

	users := &service.UserService{Store: db, Passwords: hasher}
	return users.CreateAdmin(ctx, username, email, password)
}
