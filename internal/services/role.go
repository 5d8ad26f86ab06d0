package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quill-blog/server/internal/store"
	"github.com/quill-blog/server/types"
)

// RoleRepository defines persistence operations for user types.
type RoleRepository interface {
	List(ctx context.Context) ([]types.Role, error)
	Get(ctx context.Context, id int) (types.Role, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, role types.Role) (types.Role, error)
}

// UserRoleRepository writes the user to role join table.
type UserRoleRepository interface {
	Assign(ctx context.Context, userID, roleID int) (inserted bool, err error)
}

// UserDirectory lists users together with their role.
type UserDirectory interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	ListWithRoles(ctx context.Context, defaultRoleID int) ([]types.UserWithRole, error)
}

// RoleService manages user types and their assignment to users.
type RoleService struct {
	roles     RoleRepository
	userRoles UserRoleRepository
	users     UserDirectory
	events    *EventPublisher
	logger    *zap.Logger
}

func NewRoleService(roles RoleRepository, userRoles UserRoleRepository, users UserDirectory, events *EventPublisher, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{
		roles:     roles,
		userRoles: userRoles,
		users:     users,
		events:    events,
		logger:    logger,
	}
}

func (s *RoleService) List(ctx context.Context) ([]types.Role, error) {
	return s.roles.List(ctx)
}

// Create adds a user type. Names are compared exactly; an existing name
// yields ErrRoleExists.
func (s *RoleService) Create(ctx context.Context, actor types.User, name, description string) (types.Role, error) {
	name = strings.TrimSpace(name)

	exists, err := s.roles.NameExists(ctx, name)
	if err != nil {
		return types.Role{}, fmt.Errorf("check user type: %w", err)
	}
	if exists {
		return types.Role{}, ErrRoleExists
	}

	role, err := s.roles.Create(ctx, types.Role{
		Name:        name,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.Role{}, ErrRoleExists
		}
		return types.Role{}, fmt.Errorf("create user type: %w", err)
	}

	s.logger.Info("user type created", zap.Int("role_id", role.ID), zap.String("name", role.Name))
	s.events.Emit(ctx, types.Event{
		Type:    types.EventRoleCreated,
		ActorID: actor.ID,
		RoleID:  role.ID,
		Title:   role.Name,
	})
	return role, nil
}

// UserRoles is the data behind the user administration page.
type UserRoles struct {
	Users []types.UserWithRole
	Roles []types.Role
}

// ListUsersWithRoles returns every user with its current role (the
// default role when none is assigned) and every role to choose from.
func (s *RoleService) ListUsersWithRoles(ctx context.Context) (UserRoles, error) {
	users, err := s.users.ListWithRoles(ctx, types.DefaultRoleID)
	if err != nil {
		return UserRoles{}, fmt.Errorf("list users: %w", err)
	}
	roles, err := s.roles.List(ctx)
	if err != nil {
		return UserRoles{}, fmt.Errorf("list user types: %w", err)
	}
	return UserRoles{Users: users, Roles: roles}, nil
}

// Assign gives userID the role roleID, inserting the join row when the
// user has none and updating it otherwise. It returns the affected user.
// An unknown user yields store.ErrNotFound, an unknown role ErrRoleNotFound.
func (s *RoleService) Assign(ctx context.Context, actor types.User, userID, roleID int) (types.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return types.User{}, err
	}
	if _, err := s.roles.Get(ctx, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrRoleNotFound
		}
		return types.User{}, fmt.Errorf("load user type: %w", err)
	}

	inserted, err := s.userRoles.Assign(ctx, userID, roleID)
	if err != nil {
		return types.User{}, fmt.Errorf("assign user type: %w", err)
	}

	s.logger.Info("user type assigned",
		zap.Int("user_id", userID),
		zap.Int("role_id", roleID),
		zap.Bool("inserted", inserted),
		zap.Int("actor_id", actor.ID),
	)
	s.events.Emit(ctx, types.Event{
		Type:    types.EventRoleAssigned,
		ActorID: actor.ID,
		UserID:  userID,
		RoleID:  roleID,
	})
	return user, nil
}
