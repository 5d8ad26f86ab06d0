package services

import (
	"context"
	"fmt"

	"github.com/quill-blog/server/types"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID int) ([]types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
}

// CommentService encapsulates comment use-cases.
type CommentService struct {
	repo   CommentRepository
	events *EventPublisher
}

func NewCommentService(repo CommentRepository, events *EventPublisher) *CommentService {
	return &CommentService{repo: repo, events: events}
}

func (s *CommentService) ListByPost(ctx context.Context, postID int) ([]types.Comment, error) {
	return s.repo.ListByPost(ctx, postID)
}

// Add stores a sanitized comment by author on post postID. Text that
// sanitizes to nothing is rejected with ErrBlankContent.
func (s *CommentService) Add(ctx context.Context, author types.User, postID int, text string) (types.Comment, error) {
	clean := sanitizeRichText(text)
	if clean == "" {
		return types.Comment{}, ErrBlankContent
	}

	comment, err := s.repo.Create(ctx, types.Comment{
		PostID: postID,
		UserID: author.ID,
		Text:   clean,
	})
	if err != nil {
		return types.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	comment.AuthorName = author.Name
	comment.AuthorEmail = author.Email

	s.events.Emit(ctx, types.Event{
		Type:      types.EventCommentCreated,
		ActorID:   author.ID,
		PostID:    postID,
		CommentID: comment.ID,
	})
	return comment, nil
}
