package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/quill-blog/server/types"
)

// RoleRepository handles persistence for roles (user types).
type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]types.Role, error) {
	const query = `SELECT id, name, description FROM roles ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]types.Role, 0)
	for rows.Next() {
		var role types.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepository) Get(ctx context.Context, id int) (types.Role, error) {
	const query = `SELECT id, name, description FROM roles WHERE id = $1`
	var role types.Role
	err := r.db.QueryRowContext(ctx, query, id).Scan(&role.ID, &role.Name, &role.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Role{}, ErrNotFound
		}
		return types.Role{}, err
	}
	return role, nil
}

// NameExists compares names exactly; "Admin" and "admin" are different roles.
func (r *RoleRepository) NameExists(ctx context.Context, name string) (bool, error) {
	return Exists(ctx, r.db, "roles", "name", name)
}

func (r *RoleRepository) Create(ctx context.Context, role types.Role) (types.Role, error) {
	const query = `
		INSERT INTO roles (name, description)
		VALUES ($1, $2)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, role.Name, role.Description).Scan(&role.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Role{}, ErrConflict
		}
		return types.Role{}, err
	}
	return role, nil
}
