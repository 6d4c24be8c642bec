package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
	"github.com/johncpakin/pinged/pkg/mediaurl"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	publishAttempts = 3
)

type postService struct {
	repo      ports.PostRepository
	publisher ports.PostEventPublisher

	retryBase time.Duration
}

func NewPostService(repo ports.PostRepository, pub ports.PostEventPublisher) ports.PostService {
	return &postService{repo: repo, publisher: pub, retryBase: 100 * time.Millisecond}
}

func (s *postService) CreatePost(ctx context.Context, cmd ports.CreatePostCmd) (*domain.Post, error) {
	if cmd.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.New().String(),
		UserID:    cmd.UserID,
		Content:   content,
		MediaURL:  mediaFor(cmd.MediaURL, content),
		GameTag:   strings.TrimSpace(cmd.GameTag),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 1. Sauvegarde DB (Source of Truth)
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}

	// 2. Publication (déclenche le fan-out). La donnée est sauvée : un échec n'annule rien.
	s.publish(ctx, "post.created", post, s.publisher.PublishPostCreated)

	return post, nil
}

func (s *postService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, postID)
}

func (s *postService) UpdatePost(ctx context.Context, cmd ports.UpdatePostCmd) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, cmd.PostID)
	if err != nil {
		return nil, err
	}

	// Seul l'auteur peut modifier
	if post.UserID != cmd.UserID {
		return nil, domain.ErrUnauthorized
	}

	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	previous := post.ContentType()

	post.Content = content
	post.MediaURL = mediaFor(cmd.MediaURL, content)
	post.GameTag = strings.TrimSpace(cmd.GameTag)
	post.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	// Les filtres du feed suivent le type (ex: lien de clip ajouté)
	if post.ContentType() != previous {
		s.publish(ctx, "post.updated", post, s.publisher.PublishPostUpdated)
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return domain.ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}

	s.publish(ctx, "post.deleted", post, s.publisher.PublishPostDeleted)
	return nil
}

// GetPosts (batch pour le feed) : l'ordre des IDs demandés est conservé.
func (s *postService) GetPosts(ctx context.Context, postIDs []string) ([]*domain.Post, error) {
	if len(postIDs) == 0 {
		return []*domain.Post{}, nil
	}
	posts, err := s.repo.GetPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	return orderPosts(postIDs, posts), nil
}

func (s *postService) ListRecent(ctx context.Context, limit int) ([]*domain.Post, error) {
	return s.repo.ListRecent(ctx, clampLimit(limit))
}

// publish retente avec backoff exponentiel puis abandonne en loggant.
func (s *postService) publish(ctx context.Context, subject string, post *domain.Post, fn func(context.Context, *domain.Post) error) {
	b := retry.WithMaxRetries(publishAttempts-1, retry.NewExponential(s.retryBase))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := fn(ctx, post); err != nil {
			slog.Warn("⚠️ Publish failed, retrying", "subject", subject, "post_id", post.ID, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("❌ Event dropped", "subject", subject, "post_id", post.ID, "error", fmt.Errorf("after %d attempts: %w", publishAttempts, err))
	}
}

// mediaFor : l'URL explicite gagne, sinon on cherche un lien embarquable dans le texte.
func mediaFor(explicit, content string) string {
	if u := strings.TrimSpace(explicit); u != "" {
		return u
	}
	if u, _, ok := mediaurl.FindInText(content); ok {
		return u
	}
	return ""
}

func orderPosts(ids []string, posts []*domain.Post) []*domain.Post {
	byID := make(map[string]*domain.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*domain.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
