package store

import (
	"context"
	"database/sql"
	"errors"
)

// UserRoleRepository handles the user to role join table.
type UserRoleRepository struct {
	db *sql.DB
}

func NewUserRoleRepository(db *sql.DB) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

// RoleOf returns the role assigned to userID, or ErrNotFound.
func (r *UserRoleRepository) RoleOf(ctx context.Context, userID int) (int, error) {
	const query = `SELECT role_id FROM user_roles WHERE user_id = $1`
	var roleID int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&roleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return roleID, nil
}

// Assign sets the role of userID. It inserts a join row when the user has
// none and updates the existing row otherwise; inserted reports which.
func (r *UserRoleRepository) Assign(ctx context.Context, userID, roleID int) (inserted bool, err error) {
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := Exists(ctx, tx, "user_roles", "user_id", userID)
		if err != nil {
			return err
		}

		if !found {
			const insert = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`
			if _, err := tx.ExecContext(ctx, insert, userID, roleID); err != nil {
				return err
			}
			inserted = true
			return nil
		}

		const update = `UPDATE user_roles SET role_id = $1 WHERE user_id = $2`
		result, err := tx.ExecContext(ctx, update, roleID, userID)
		if err != nil {
			return err
		}
		return checkAffected(result)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrConflict
		}
		return false, err
	}
	return inserted, nil
}
