package db_test

import (
	"context"
	"testing"

	"github.com/quill-blog/server/config"
	"github.com/quill-blog/server/internal/db"
	"github.com/quill-blog/server/internal/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_SeedsDefaultRoles(t *testing.T) {
	conn := dbtest.Open(t)

	rows, err := conn.Query(`SELECT id, name FROM roles ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	got := map[int]string{}
	for rows.Next() {
		var id int
		var name string
		require.NoError(t, rows.Scan(&id, &name))
		got[id] = name
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, map[int]string{1: "admin", 2: "author", 3: "user"}, got)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	conn := dbtest.Open(t)
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}

	require.NoError(t, db.Migrate(context.Background(), conn, cfg, db.Up))
}

func TestMigrate_UserRolesAllowsOneRowPerUser(t *testing.T) {
	conn := dbtest.Open(t)

	_, err := conn.Exec(`INSERT INTO users (email, password_hash, name, created_at) VALUES ('a@x.com', 'h', 'Ann', CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES (1, 3)`)
	require.NoError(t, err)

	_, err = conn.Exec(`INSERT INTO user_roles (user_id, role_id) VALUES (1, 2)`)
	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := db.Open(context.Background(), config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}
