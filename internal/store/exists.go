package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type columnRef struct {
	table  string
	column string
}

// existsQueries is the complete set of lookups Exists may run. Identifiers
// never come from the caller; they only select one of these constant queries.
var existsQueries = map[columnRef]string{
	{"users", "id"}:           `SELECT 1 FROM users WHERE id = $1`,
	{"users", "email"}:        `SELECT 1 FROM users WHERE email = $1`,
	{"roles", "id"}:           `SELECT 1 FROM roles WHERE id = $1`,
	{"roles", "name"}:         `SELECT 1 FROM roles WHERE name = $1`,
	{"user_roles", "user_id"}: `SELECT 1 FROM user_roles WHERE user_id = $1`,
	{"posts", "id"}:           `SELECT 1 FROM posts WHERE id = $1`,
	{"posts", "title"}:        `SELECT 1 FROM posts WHERE title = $1`,
}

// Exists reports whether a row with column = value exists in table.
// Only allow-listed table/column pairs are accepted.
func Exists(ctx context.Context, q Querier, table, column string, value any) (bool, error) {
	query, ok := existsQueries[columnRef{table: table, column: column}]
	if !ok {
		return false, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, table, column)
	}

	var one int
	err := q.QueryRowContext(ctx, query, value).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
