package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johncpakin/pinged/internal/core/domain"
)

const postColumns = `id, user_id, content, media_url, game_tag, created_at, updated_at`

type PostgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(db *pgxpool.Pool) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

func (r *PostgresPostRepo) Save(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, content, media_url, game_tag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Content,
		post.MediaURL,
		post.GameTag,
		post.CreatedAt,
		post.UpdatedAt,
	)
	return err
}

func (r *PostgresPostRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, postID)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetPosts : BATCH FETCH (hydratation feed), l'ordre est rétabli par le service.
func (r *PostgresPostRepo) GetPosts(ctx context.Context, postIDs []string) ([]*domain.Post, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ANY($1)`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListByAuthor : pagination keyset sur (created_at, id), after est le dernier post vu.
func (r *PostgresPostRepo) ListByAuthor(ctx context.Context, authorID string, limit int, after domain.PageCursor) ([]*domain.Post, error) {
	// Première page (pas de curseur)
	if after.IsZero() {
		rows, err := r.db.Query(ctx, `
			SELECT `+postColumns+`
			FROM posts
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, authorID, limit)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		return collectPosts(rows)
	}

	// Page suivante : comparaison de ligne, les ex aequo sur created_at ne sautent pas
	rows, err := r.db.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE user_id = $1 AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`, authorID, after.CreatedAt, after.ID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostgresPostRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Post, error) {
	rows, err := r.db.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostgresPostRepo) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET content = $1, media_url = $2, game_tag = $3, updated_at = $4
		WHERE id = $5
	`
	cmdTag, err := r.db.Exec(ctx, query, post.Content, post.MediaURL, post.GameTag, post.UpdatedAt, post.ID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostgresPostRepo) Delete(ctx context.Context, postID string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// --- Helpers ---

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.MediaURL, &p.GameTag, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]*domain.Post, error) {
	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db: scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
