package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quill-blog/server/internal/store"
	"github.com/quill-blog/server/types"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	List(ctx context.Context) ([]types.Post, error)
	Get(ctx context.Context, id int) (types.Post, error)
	Create(ctx context.Context, post types.Post) (types.Post, error)
	Update(ctx context.Context, post types.Post) (types.Post, error)
	Delete(ctx context.Context, id int) error
}

// PostInput carries the editable fields of a post. When Image is set it
// is uploaded and replaces ImageURL.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImageURL string
	Image    *ImageFile
}

// PostService encapsulates post use-cases.
type PostService struct {
	repo   PostRepository
	images *ImageService
	events *EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewPostService(repo PostRepository, images *ImageService, events *EventPublisher, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		repo:   repo,
		images: images,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

func (s *PostService) List(ctx context.Context) ([]types.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id int) (types.Post, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a post written by author and dated today.
func (s *PostService) Create(ctx context.Context, author types.User, input PostInput) (types.Post, error) {
	body := sanitizeRichText(input.Body)
	if body == "" {
		return types.Post{}, ErrBlankContent
	}

	imageURL, uploaded, err := s.resolveImage(ctx, input)
	if err != nil {
		return types.Post{}, err
	}

	post, err := s.repo.Create(ctx, types.Post{
		AuthorID: author.ID,
		Title:    strings.TrimSpace(input.Title),
		Subtitle: strings.TrimSpace(input.Subtitle),
		Date:     s.now().Format(types.PostDateLayout),
		Body:     body,
		ImageURL: imageURL,
	})
	if err != nil {
		if uploaded {
			s.images.Remove(ctx, imageURL)
		}
		if errors.Is(err, store.ErrConflict) {
			return types.Post{}, ErrTitleTaken
		}
		return types.Post{}, fmt.Errorf("create post: %w", err)
	}
	post.AuthorName = author.Name

	s.events.Emit(ctx, types.Event{
		Type:    types.EventPostCreated,
		ActorID: author.ID,
		PostID:  post.ID,
		Title:   post.Title,
	})
	return post, nil
}

// Update replaces title, subtitle, body and image of post id. Author and
// date are kept.
func (s *PostService) Update(ctx context.Context, actor types.User, id int, input PostInput) (types.Post, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Post{}, err
	}

	body := sanitizeRichText(input.Body)
	if body == "" {
		return types.Post{}, ErrBlankContent
	}

	imageURL, uploaded, err := s.resolveImage(ctx, input)
	if err != nil {
		return types.Post{}, err
	}

	updated := current
	updated.Title = strings.TrimSpace(input.Title)
	updated.Subtitle = strings.TrimSpace(input.Subtitle)
	updated.Body = body
	updated.ImageURL = imageURL

	post, err := s.repo.Update(ctx, updated)
	if err != nil {
		if uploaded {
			s.images.Remove(ctx, imageURL)
		}
		if errors.Is(err, store.ErrConflict) {
			return types.Post{}, ErrTitleTaken
		}
		return types.Post{}, fmt.Errorf("update post: %w", err)
	}
	if current.ImageURL != post.ImageURL {
		s.images.Remove(ctx, current.ImageURL)
	}

	s.events.Emit(ctx, types.Event{
		Type:    types.EventPostUpdated,
		ActorID: actor.ID,
		PostID:  post.ID,
		Title:   post.Title,
	})
	return post, nil
}

// Delete removes post id together with its comments and stored image.
func (s *PostService) Delete(ctx context.Context, actor types.User, id int) error {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.images.Remove(ctx, post.ImageURL)

	s.logger.Info("post deleted", zap.Int("post_id", id), zap.Int("actor_id", actor.ID))
	s.events.Emit(ctx, types.Event{
		Type:    types.EventPostDeleted,
		ActorID: actor.ID,
		PostID:  id,
		Title:   post.Title,
	})
	return nil
}

func (s *PostService) resolveImage(ctx context.Context, input PostInput) (url string, uploaded bool, err error) {
	if input.Image == nil {
		return strings.TrimSpace(input.ImageURL), false, nil
	}
	url, err = s.images.Upload(ctx, *input.Image)
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}
