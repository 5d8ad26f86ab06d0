package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/quill-blog/server/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return Exists(ctx, r.db, "users", "email", email)
}

// CreateWithRole inserts the user and its role assignment in one transaction.
// A duplicate email yields ErrConflict.
func (r *UserRepository) CreateWithRole(ctx context.Context, user types.User, roleID int) (types.User, error) {
	user.CreatedAt = time.Now().UTC()

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const insertUser = `
			INSERT INTO users (email, password_hash, name, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id`
		if err := tx.QueryRowContext(
			ctx,
			insertUser,
			user.Email,
			user.PasswordHash,
			user.Name,
			user.CreatedAt,
		).Scan(&user.ID); err != nil {
			return err
		}

		const insertRole = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`
		_, err := tx.ExecContext(ctx, insertRole, user.ID, roleID)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return types.User{}, ErrConflict
		}
		return types.User{}, err
	}
	return user, nil
}

// UpdatePasswordHash replaces the stored hash of the user.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	const query = `UPDATE users SET password_hash = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, hash, id)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

// ListWithRoles returns every user with the role assigned to them.
// Users without an assignment get defaultRoleID and Assigned=false.
func (r *UserRepository) ListWithRoles(ctx context.Context, defaultRoleID int) ([]types.UserWithRole, error) {
	const query = `
		SELECT u.id, u.email, u.name, u.created_at, ur.role_id
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		ORDER BY u.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.UserWithRole, 0)
	for rows.Next() {
		var item types.UserWithRole
		var roleID sql.NullInt64
		if err := rows.Scan(
			&item.ID,
			&item.Email,
			&item.Name,
			&item.CreatedAt,
			&roleID,
		); err != nil {
			return nil, err
		}
		item.RoleID = defaultRoleID
		if roleID.Valid {
			item.RoleID = int(roleID.Int64)
			item.Assigned = true
		}
		users = append(users, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func scanUser(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
