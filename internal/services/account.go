package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quill-blog/server/internal/auth"
	"github.com/quill-blog/server/internal/store"
	"github.com/quill-blog/server/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateWithRole(ctx context.Context, user types.User, roleID int) (types.User, error)
	UpdatePasswordHash(ctx context.Context, id int, hash string) error
}

// RoleAssignments looks up the role joined to a user.
type RoleAssignments interface {
	RoleOf(ctx context.Context, userID int) (int, error)
}

// AccountService encapsulates registration, login and authorization.
type AccountService struct {
	users  UserRepository
	roles  RoleAssignments
	events *EventPublisher
	logger *zap.Logger
}

func NewAccountService(users UserRepository, roles RoleAssignments, events *EventPublisher, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:  users,
		roles:  roles,
		events: events,
		logger: logger,
	}
}

// Register creates an account with the default role. An email that is
// already registered yields ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (types.User, error) {
	email = strings.TrimSpace(email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return types.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return types.User{}, ErrEmailTaken
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateWithRole(ctx, types.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hashed,
	}, types.DefaultRoleID)
	if err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, ErrEmailTaken
		}
		return types.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID))
	s.events.Emit(ctx, types.Event{
		Type:    types.EventUserRegistered,
		ActorID: user.ID,
		UserID:  user.ID,
		RoleID:  types.DefaultRoleID,
	})
	return user, nil
}

// Authenticate checks the credentials. Unknown email and wrong password
// both yield ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, fmt.Errorf("load user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return types.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password)
	}
	return user, nil
}

func (s *AccountService) rehash(ctx context.Context, userID int, password string) {
	hashed, err := auth.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, userID, hashed)
	}
	if err != nil {
		s.logger.Warn("upgrade password hash", zap.Int("user_id", userID), zap.Error(err))
		return
	}
	s.logger.Info("password hash upgraded", zap.Int("user_id", userID))
}

func (s *AccountService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.users.GetByID(ctx, id)
}

// IsAdmin reports whether user holds the admin role. The bootstrap owner
// is always an admin.
func (s *AccountService) IsAdmin(ctx context.Context, user types.User) (bool, error) {
	if user.ID == types.OwnerUserID {
		return true, nil
	}
	roleID, err := s.roles.RoleOf(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load role: %w", err)
	}
	return roleID == types.AdminRoleID, nil
}
