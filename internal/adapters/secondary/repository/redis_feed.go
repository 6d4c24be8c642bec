package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johncpakin/pinged/internal/core/domain"
)

const (
	timelineTTL = 24 * 30 * time.Hour // on ne garde pas l'infini en RAM
	timelineCap = 500
)

type RedisFeedRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
	maxLen int64
}

func NewRedisFeedRepo(client redis.UniversalClient) *RedisFeedRepo {
	return &RedisFeedRepo{client: client, ttl: timelineTTL, maxLen: timelineCap}
}

// timelineKey : tous types confondus.
func timelineKey(userID string) string {
	return "timeline:" + userID
}

// typedTimelineKey : un sorted set par type, pour filtrer avant de paginer.
func typedTimelineKey(userID string, t domain.ContentType) string {
	return "timeline:" + userID + ":" + string(t)
}

// feedMember : "AUTHOR_ID:POST_ID". Le type n'en fait pas partie, il peut changer à l'édition.
func feedMember(item *domain.FeedItem) string {
	return fmt.Sprintf("%s:%s", item.AuthorID, item.PostID)
}

// AddToTimelines écrit l'entrée chez chaque destinataire en un seul pipeline.
func (r *RedisFeedRepo) AddToTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error {
	pipe := r.client.Pipeline()

	z := redis.Z{Score: float64(item.CreatedAt.Unix()), Member: feedMember(item)}

	for _, uid := range userIDs {
		r.add(ctx, pipe, timelineKey(uid), z)
		if item.Type.Valid() {
			r.add(ctx, pipe, typedTimelineKey(uid, item.Type), z)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisFeedRepo) add(ctx context.Context, pipe redis.Pipeliner, key string, z redis.Z) {
	pipe.ZAdd(ctx, key, z)
	// On garde les 500 plus récents
	pipe.ZRemRangeByRank(ctx, key, 0, -(r.maxLen + 1))
	pipe.Expire(ctx, key, r.ttl)
}

func (r *RedisFeedRepo) RemoveFromTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error {
	pipe := r.client.Pipeline()
	member := feedMember(item)
	for _, uid := range userIDs {
		pipe.ZRem(ctx, timelineKey(uid), member)
		for _, t := range domain.ContentTypes {
			pipe.ZRem(ctx, typedTimelineKey(uid, t), member)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisFeedRepo) RetypeInTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error {
	if !item.Type.Valid() {
		return fmt.Errorf("retype: unknown content type %q", item.Type)
	}
	member := feedMember(item)

	// 1. On retire l'entrée des sets des autres types
	pipe := r.client.Pipeline()
	removed := make(map[string][]*redis.IntCmd, len(userIDs))
	for _, uid := range userIDs {
		for _, t := range domain.ContentTypes {
			if t != item.Type {
				removed[uid] = append(removed[uid], pipe.ZRem(ctx, typedTimelineKey(uid, t), member))
			}
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	// 2. Réinsertion uniquement là où elle était encore (pas de résurrection après trim)
	pipe = r.client.Pipeline()
	z := redis.Z{Score: float64(item.CreatedAt.Unix()), Member: member}
	pending := 0
	for uid, cmds := range removed {
		if slices.ContainsFunc(cmds, func(c *redis.IntCmd) bool { return c.Val() > 0 }) {
			r.add(ctx, pipe, typedTimelineKey(uid, item.Type), z)
			pending++
		}
	}
	if pending == 0 {
		return nil
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetTimeline lit une page (plus récent d'abord) ; le filtre s'applique avant la pagination.
func (r *RedisFeedRepo) GetTimeline(ctx context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error) {
	switch len(req.Types) {
	case 0:
		return r.readPage(ctx, timelineKey(req.UserID), "", req)
	case 1:
		return r.readPage(ctx, typedTimelineKey(req.UserID, req.Types[0]), req.Types[0], req)
	}
	return r.readUnion(ctx, req)
}

func (r *RedisFeedRepo) readPage(ctx context.Context, key string, t domain.ContentType, req domain.FeedRequest) ([]*domain.FeedItem, error) {
	// Pagination Redis (inclusive)
	start := req.Offset
	stop := req.Offset + req.Limit - 1

	results, err := r.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, err
	}
	return toFeedItems(results, t), nil
}

// readUnion : plusieurs types, chaque set est borné à maxLen donc l'union reste petite.
func (r *RedisFeedRepo) readUnion(ctx context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error) {
	keys := make([]string, 0, len(req.Types))
	for _, t := range req.Types {
		keys = append(keys, typedTimelineKey(req.UserID, t))
	}

	results, err := r.client.ZUnionWithScores(ctx, redis.ZStore{Keys: keys, Aggregate: "MAX"}).Result()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(results, func(a, b redis.Z) int { return cmp.Compare(b.Score, a.Score) })

	start := min(int(req.Offset), len(results))
	stop := min(start+int(req.Limit), len(results))
	return toFeedItems(results[start:stop], ""), nil
}

func (r *RedisFeedRepo) TimelineSize(ctx context.Context, userID string) (int64, error) {
	return r.client.ZCard(ctx, timelineKey(userID)).Result()
}

func toFeedItems(results []redis.Z, t domain.ContentType) []*domain.FeedItem {
	items := make([]*domain.FeedItem, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		item, ok := parseFeedMember(member)
		if !ok {
			continue // donnée corrompue
		}
		item.Type = t
		item.CreatedAt = time.Unix(int64(z.Score), 0).UTC()
		items = append(items, item)
	}
	return items
}

func parseFeedMember(member string) (*domain.FeedItem, bool) {
	authorID, postID, ok := strings.Cut(member, ":")
	if !ok || authorID == "" || postID == "" || strings.Contains(postID, ":") {
		return nil, false
	}
	return &domain.FeedItem{AuthorID: authorID, PostID: postID}, true
}
