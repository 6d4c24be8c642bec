package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johncpakin/pinged/internal/core/domain"
)

type PostgresOnboardingRepo struct {
	db *pgxpool.Pool
}

func NewPostgresOnboardingRepo(pool *pgxpool.Pool) *PostgresOnboardingRepo {
	return &PostgresOnboardingRepo{db: pool}
}

// CompleteOnboarding : profil, jeux et créneaux dans une seule transaction.
// Les jeux et créneaux existants sont remplacés.
func (r *PostgresOnboardingRepo) CompleteOnboarding(ctx context.Context, user *domain.User, games []domain.UserGame, slots []domain.AvailabilitySlot) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := updateUser(ctx, tx, user)
		if err != nil {
			return translateUserError(err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrUserNotFound
		}

		batch := &pgx.Batch{}
		batch.Queue(`DELETE FROM user_games WHERE user_id = $1`, user.ID)
		batch.Queue(`DELETE FROM availability WHERE user_id = $1`, user.ID)
		for _, g := range games {
			batch.Queue(
				`INSERT INTO user_games (id, user_id, game_name, platform, rank, tags, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				g.ID, user.ID, g.GameName, g.Platform, g.Rank, nonNil(g.Tags), g.CreatedAt,
			)
		}
		for _, s := range slots {
			batch.Queue(
				`INSERT INTO availability (id, user_id, day_of_week, start_time, end_time, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
				s.ID, user.ID, s.DayOfWeek, s.StartTime, s.EndTime, s.CreatedAt,
			)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("db: onboarding batch: %w", err)
		}
		return nil
	})
}

func (r *PostgresOnboardingRepo) ListGames(ctx context.Context, userID string) ([]domain.UserGame, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, game_name, platform, rank, tags, created_at
		FROM user_games WHERE user_id = $1 ORDER BY created_at, game_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("db: list games: %w", err)
	}
	defer rows.Close()

	games := []domain.UserGame{}
	for rows.Next() {
		var g domain.UserGame
		if err := rows.Scan(&g.ID, &g.UserID, &g.GameName, &g.Platform, &g.Rank, &g.Tags, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// ListAvailability : triée par jour puis heure de début.
func (r *PostgresOnboardingRepo) ListAvailability(ctx context.Context, userID string) ([]domain.AvailabilitySlot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, day_of_week, start_time, end_time, created_at
		FROM availability WHERE user_id = $1 ORDER BY day_of_week, start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("db: list availability: %w", err)
	}
	defer rows.Close()

	slots := []domain.AvailabilitySlot{}
	for rows.Next() {
		var s domain.AvailabilitySlot
		if err := rows.Scan(&s.ID, &s.UserID, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
