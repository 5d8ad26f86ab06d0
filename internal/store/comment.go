package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/quill-blog/server/types"
)

// CommentRepository handles persistence for comments.
type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int) ([]types.Comment, error) {
	const query = `
		SELECT c.id, c.post_id, c.user_id, c.text, c.created_at, u.name, u.email
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]types.Comment, 0)
	for rows.Next() {
		var comment types.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.UserID,
			&comment.Text,
			&comment.CreatedAt,
			&comment.AuthorName,
			&comment.AuthorEmail,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	comment.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO comments (text, user_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		comment.Text,
		comment.UserID,
		comment.PostID,
		comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		return types.Comment{}, err
	}
	return comment, nil
}

// Count returns the number of comments on a post.
func (r *CommentRepository) Count(ctx context.Context, postID int) (int, error) {
	const query = `SELECT COUNT(1) FROM comments WHERE post_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, query, postID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
