package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/johncpakin/pinged/internal/core/domain"
)

const themeField = "theme"

// RedisSettingsRepo : préférences d'affichage dans le hash settings:{user}.
type RedisSettingsRepo struct {
	client redis.UniversalClient
}

func NewRedisSettingsRepo(client redis.UniversalClient) *RedisSettingsRepo {
	return &RedisSettingsRepo{client: client}
}

func settingsKey(userID string) string {
	return "settings:" + userID
}

func (r *RedisSettingsRepo) GetTheme(ctx context.Context, userID string) (domain.Theme, error) {
	v, err := r.client.HGet(ctx, settingsKey(userID), themeField).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return domain.Theme(v), nil
}

func (r *RedisSettingsRepo) SetTheme(ctx context.Context, userID string, theme domain.Theme) error {
	return r.client.HSet(ctx, settingsKey(userID), themeField, string(theme)).Err()
}
