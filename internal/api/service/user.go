package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/soapbox/internal/api/domain"
	"github.com/aussiebroadwan/soapbox/internal/api/store"
	"github.com/aussiebroadwan/soapbox/pkg/authz"
	"github.com/aussiebroadwan/soapbox/pkg/cryptox"
	"github.com/aussiebroadwan/soapbox/pkg/slogx"
)

// PasswordHasher produces the stored digest for a new password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type UserService struct {
	Store     store.Store
	Passwords PasswordHasher
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string // optional; a random one is generated when empty
	Role     authz.Role
}

// Register creates a regular account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return domain.User{}, ErrInvalidInput
	}
	return s.create(ctx, in.Username, in.Email, in.Password, authz.RoleUser)
}

// CreateByAdmin lets an admin create an account with any role. Without a
// password the account gets a random one it can never log in with until
// it is reset.
func (s *UserService) CreateByAdmin(ctx context.Context, actor *authz.Identity, in CreateUserInput) (domain.User, error) {
	if err := authz.RequireRole(actor, authz.RoleAdmin).Err(); err != nil {
		return domain.User{}, err
	}
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" {
		return domain.User{}, ErrInvalidInput
	}

	role := in.Role
	if role == "" {
		role = authz.RoleUser
	}
	if !role.Valid() {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	password := in.Password
	if password == "" {
		generated, err := cryptox.GeneratePassword()
		if err != nil {
			return domain.User{}, err
		}
		password = generated
	}

	u, err := s.create(ctx, in.Username, in.Email, password, role)
	if err != nil {
		return domain.User{}, err
	}
	slogx.FromContext(ctx).Info("user created by admin",
		slog.Int64("user_id", u.ID),
		slog.Int64("admin_id", actor.ID),
		slog.String("role", string(role)),
	)
	return u, nil
}

// CreateAdmin is used by the CLI to bootstrap an administrator.
func (s *UserService) CreateAdmin(ctx context.Context, username, email, password string) (domain.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return domain.User{}, ErrInvalidInput
	}
	return s.create(ctx, username, email, password, authz.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, username, email, password string, role authz.Role) (domain.User, error) {
	hash, err := s.Passwords.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.Store.Users().CreateUser(ctx, domain.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// Get fetches a single user.
func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrAccountNotFound
	}
	return u, err
}

// Update changes username and email. Users may only update themselves,
// admins may update anyone.
func (s *UserService) Update(ctx context.Context, actor *authz.Identity, id int64, username, email string) (domain.User, error) {
	if err := authz.RequireOwnership(actor, id).Err(); err != nil {
		return domain.User{}, err
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
		return domain.User{}, ErrInvalidInput
	}

	err := s.Store.Users().UpdateUser(ctx, id, strings.TrimSpace(username), strings.TrimSpace(email))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.User{}, ErrAccountNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.User{}, ErrConflict
	case err != nil:
		return domain.User{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes an account and everything it owns. The last admin cannot
// be removed.
func (s *UserService) Delete(ctx context.Context, actor *authz.Identity, id int64) error {
	if err := authz.RequireRole(actor, authz.RoleAdmin).Err(); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if u.Role.IsAdmin() {
			n, err := tx.Users().CountAdmins(ctx)
			if err != nil {
				return err
			}
			if n <= 1 {
				return ErrLastAdmin
			}
		}

		if err := tx.Users().DeleteUser(ctx, id); err != nil {
			return err
		}
		slogx.FromContext(ctx).Info("user deleted",
			slog.Int64("user_id", id),
			slog.Int64("admin_id", actor.ID),
		)
		return nil
	})
}

// Profile returns the caller's own record.
func (s *UserService) Profile(ctx context.Context, actor *authz.Identity) (domain.User, error) {
	if actor == nil {
		return domain.User{}, authz.ErrUnauthenticated
	}
	return s.Get(ctx, actor.ID)
}

// UpdateProfile changes the caller's username and picture. Empty values
// keep the current ones.
func (s *UserService) UpdateProfile(ctx context.Context, actor *authz.Identity, username, profilePic string) (domain.User, error) {
	current, err := s.Profile(ctx, actor)
	if err != nil {
		return domain.User{}, err
	}

	if username = strings.TrimSpace(username); username == "" {
		username = current.Username
	}
	if profilePic = strings.TrimSpace(profilePic); profilePic == "" {
		profilePic = current.ProfilePic
	}

	err = s.Store.Users().UpdateProfile(ctx, current.ID, username, profilePic)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.User{}, ErrAccountNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.User{}, ErrConflict
	case err != nil:
		return domain.User{}, err
	}
	return s.Get(ctx, current.ID)
}
