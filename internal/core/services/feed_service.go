package services

import (
	"context"
	"log/slog"
	"slices"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
)

const (
	BatchSize = 1000 // Taille des paquets pour Redis

	// FallbackSize : timeline vide => derniers posts globaux, comme l'accueil historique.
	FallbackSize = 20
)

type FeedService struct {
	repo  ports.FeedRepository
	conns ports.ConnectionRepository
	posts ports.PostRepository
	users ports.UserRepository
}

func NewFeedService(
	repo ports.FeedRepository,
	conns ports.ConnectionRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
) *FeedService {
	return &FeedService{repo: repo, conns: conns, posts: posts, users: users}
}

func (s *FeedService) DistributePost(ctx context.Context, item *domain.FeedItem) error {
	slog.Info("📢 Fan-out starting", "post_id", item.PostID, "author_id", item.AuthorID)
	count, err := s.fanOut(ctx, item, s.repo.AddToTimelines)
	if err != nil {
		return err
	}
	slog.Info("✅ Fan-out complete", "post_id", item.PostID, "count", count)
	return nil
}

func (s *FeedService) RetractPost(ctx context.Context, item *domain.FeedItem) error {
	count, err := s.fanOut(ctx, item, s.repo.RemoveFromTimelines)
	if err != nil {
		return err
	}
	slog.Info("🧹 Post retracted from timelines", "post_id", item.PostID, "count", count)
	return nil
}

// ReclassifyPost déplace l'entrée vers son nouveau type après une édition.
func (s *FeedService) ReclassifyPost(ctx context.Context, item *domain.FeedItem) error {
	count, err := s.fanOut(ctx, item, s.repo.RetypeInTimelines)
	if err != nil {
		return err
	}
	slog.Info("🔁 Post reclassified in timelines", "post_id", item.PostID, "type", item.Type, "count", count)
	return nil
}

// fanOut applique write à l'auteur puis à ses connexions acceptées, par paquets de BatchSize.
func (s *FeedService) fanOut(
	ctx context.Context,
	item *domain.FeedItem,
	write func(context.Context, []string, *domain.FeedItem) error,
) (int, error) {
	// L'auteur voit ses propres posts
	if err := write(ctx, []string{item.AuthorID}, item); err != nil {
		slog.Error("❌ Failed to write author timeline", "error", err, "author_id", item.AuthorID)
	}
	count := 1

	err := s.conns.StreamAcceptedIDs(ctx, item.AuthorID, BatchSize, func(batch []string) error {
		if err := write(ctx, batch, item); err != nil {
			// Un paquet perdu ne doit pas bloquer les suivants
			slog.Error("❌ Failed to push batch to redis", "error", err, "batch_start", count)
		}
		count += len(batch)
		return nil
	})
	return count, err
}

func (s *FeedService) HomeFeed(ctx context.Context, req domain.FeedRequest) ([]domain.FeedEntry, error) {
	if req.Limit <= 0 {
		req.Limit = DefaultPageSize
	}
	if req.Limit > MaxPageSize {
		req.Limit = MaxPageSize
	}

	items, err := s.repo.GetTimeline(ctx, req)
	if err != nil {
		return nil, err
	}

	fallback := false
	if len(items) == 0 && req.Offset == 0 {
		// Le repli ne vaut que pour une timeline vide, pas pour un filtre sans résultat
		size, err := s.repo.TimelineSize(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		fallback = size == 0
	}

	var posts []*domain.Post
	if fallback {
		posts, err = s.recent(ctx, req.Types)
	} else {
		posts, err = s.hydrate(ctx, items)
	}
	if err != nil {
		return nil, err
	}
	return s.withAuthors(ctx, posts)
}

func (s *FeedService) recent(ctx context.Context, types []domain.ContentType) ([]*domain.Post, error) {
	posts, err := s.posts.ListRecent(ctx, FallbackSize)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return posts, nil
	}
	return slices.DeleteFunc(posts, func(p *domain.Post) bool {
		return !slices.Contains(types, p.ContentType())
	}), nil
}

// hydrate garde l'ordre de la timeline et saute les posts supprimés entre-temps.
func (s *FeedService) hydrate(ctx context.Context, items []*domain.FeedItem) ([]*domain.Post, error) {
	if len(items) == 0 {
		return []*domain.Post{}, nil
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.PostID
	}
	posts, err := s.posts.GetPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	return orderPosts(ids, posts), nil
}

func (s *FeedService) withAuthors(ctx context.Context, posts []*domain.Post) ([]domain.FeedEntry, error) {
	entries := make([]domain.FeedEntry, 0, len(posts))
	if len(posts) == 0 {
		return entries, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if !slices.Contains(ids, p.UserID) {
			ids = append(ids, p.UserID)
		}
	}
	authors, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}

	for _, p := range posts {
		entries = append(entries, domain.FeedEntry{Post: p, Author: byID[p.UserID]})
	}
	return entries, nil
}
