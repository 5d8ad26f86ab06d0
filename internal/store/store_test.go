package store_test

import (
	"context"
	"testing"

	"github.com/quill-blog/server/internal/db/dbtest"
	"github.com/quill-blog/server/internal/store"
	"github.com/quill-blog/server/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, users *store.UserRepository, email, name string) types.User {
	t.Helper()
	user, err := users.CreateWithRole(context.Background(), types.User{
		Email:        email,
		Name:         name,
		PasswordHash: "hash",
	}, types.DefaultRoleID)
	require.NoError(t, err)
	return user
}

func TestUserRepository_CreateWithRole(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	users := store.NewUserRepository(conn)
	userRoles := store.NewUserRoleRepository(conn)

	ann := createUser(t, users, "a@x.com", "Ann")
	assert.Equal(t, 1, ann.ID)
	assert.False(t, ann.CreatedAt.IsZero())

	roleID, err := userRoles.RoleOf(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultRoleID, roleID)

	fetched, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, ann.ID, fetched.ID)
	assert.Equal(t, "hash", fetched.PasswordHash)

	_, err = users.CreateWithRole(ctx, types.User{Email: "a@x.com", Name: "Other", PasswordHash: "h"}, types.DefaultRoleID)
	assert.ErrorIs(t, err, store.ErrConflict)

	all, err := users.ListWithRoles(ctx, types.DefaultRoleID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	users := store.NewUserRepository(dbtest.Open(t))

	_, err := users.GetByID(ctx, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = users.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	exists, err := users.EmailExists(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRoleRepository_AssignInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	users := store.NewUserRepository(conn)
	userRoles := store.NewUserRoleRepository(conn)

	ann := createUser(t, users, "a@x.com", "Ann")
	_, err := conn.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, ann.ID)
	require.NoError(t, err)

	list, err := users.ListWithRoles(ctx, types.DefaultRoleID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Assigned)
	assert.Equal(t, types.DefaultRoleID, list[0].RoleID)

	inserted, err := userRoles.Assign(ctx, ann.ID, types.AuthorRoleID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = userRoles.Assign(ctx, ann.ID, types.AdminRoleID)
	require.NoError(t, err)
	assert.False(t, inserted)

	var count int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(1) FROM user_roles WHERE user_id = $1`, ann.ID).Scan(&count))
	assert.Equal(t, 1, count)

	roleID, err := userRoles.RoleOf(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, types.AdminRoleID, roleID)
}

func TestExists_RejectsUnlistedIdentifiers(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)

	_, err := store.Exists(ctx, conn, "user_roles", "user_id) OR 1=1 --", 1)
	assert.ErrorIs(t, err, store.ErrUnknownColumn)

	_, err = store.Exists(ctx, conn, "sqlite_master", "name", "users")
	assert.ErrorIs(t, err, store.ErrUnknownColumn)

	found, err := store.Exists(ctx, conn, "roles", "name", "admin")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRoleRepository(t *testing.T) {
	ctx := context.Background()
	roles := store.NewRoleRepository(dbtest.Open(t))

	all, err := roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	exists, err := roles.NameExists(ctx, "Admin")
	require.NoError(t, err)
	assert.False(t, exists, "role names are case-sensitive")

	created, err := roles.Create(ctx, types.Role{Name: "Admin", Description: "capitalized"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)

	_, err = roles.Create(ctx, types.Role{Name: "Admin"})
	assert.ErrorIs(t, err, store.ErrConflict)

	fetched, err := roles.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "capitalized", fetched.Description)

	_, err = roles.Get(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostAndCommentRepositories(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	users := store.NewUserRepository(conn)
	posts := store.NewPostRepository(conn)
	comments := store.NewCommentRepository(conn)

	ann := createUser(t, users, "a@x.com", "Ann")
	bob := createUser(t, users, "b@x.com", "Bob")

	post, err := posts.Create(ctx, types.Post{
		AuthorID: ann.ID,
		Title:    "Hello",
		Subtitle: "First",
		Date:     "August 24, 2021",
		Body:     "<p>body</p>",
		ImageURL: "https://example.com/a.png",
	})
	require.NoError(t, err)

	_, err = posts.Create(ctx, types.Post{AuthorID: bob.ID, Title: "Hello", Subtitle: "dup", Date: "d", Body: "b", ImageURL: "u"})
	assert.ErrorIs(t, err, store.ErrConflict)

	listed, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Ann", listed[0].AuthorName)

	_, err = comments.Create(ctx, types.Comment{PostID: post.ID, UserID: bob.ID, Text: "<p>nice</p>"})
	require.NoError(t, err)

	thread, err := comments.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "Bob", thread[0].AuthorName)
	assert.Equal(t, "b@x.com", thread[0].AuthorEmail)

	post.Title = "Hello again"
	post.AuthorID = bob.ID
	updated, err := posts.Update(ctx, post)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, ann.ID, updated.AuthorID, "author is not editable")

	require.NoError(t, posts.Delete(ctx, post.ID))
	assert.ErrorIs(t, posts.Delete(ctx, post.ID), store.ErrNotFound)

	count, err := comments.Count(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = posts.Get(ctx, post.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
