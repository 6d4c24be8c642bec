package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/johncpakin/pinged/internal/core/domain"
)

// Code PostgreSQL 23505 = Unique Violation
const uniqueViolation = "23505"

const userColumns = `id, email, COALESCE(username, ''), password_hash, display_name,
	avatar_url, bio, region, timezone, created_at, updated_at`

// sqlUser sert de tampon entre la base et le domaine (username NULL avant onboarding).
type sqlUser struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	DisplayName  string
	AvatarURL    string
	Bio          string
	Region       string
	Timezone     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, email, username, password_hash, display_name, avatar_url, bio, region, timezone, created_at, updated_at)
		VALUES (@id, @email, NULLIF(@username, ''), @password_hash, @display_name, @avatar_url, @bio, @region, @timezone, @created_at, @updated_at)
	`
	args := userArgs(user)
	args["created_at"] = user.CreatedAt

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return translateUserError(err)
	}
	return nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByIDs : batch pour l'hydratation des auteurs du feed.
func (r *PostgresUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("db: get by ids: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, len(ids))
	for rows.Next() {
		var u sqlUser
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u.toDomain())
	}
	return users, rows.Err()
}

func (r *PostgresUserRepo) Update(ctx context.Context, user *domain.User) error {
	tag, err := updateUser(ctx, r.db, user)
	if err != nil {
		return translateUserError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// --- HELPERS ---

// execer est commun au pool et à une transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateUser(ctx context.Context, db execer, user *domain.User) (pgconn.CommandTag, error) {
	q := `
		UPDATE users
		SET email = @email, username = NULLIF(@username, ''), password_hash = @password_hash,
		    display_name = @display_name, avatar_url = @avatar_url, bio = @bio,
		    region = @region, timezone = @timezone, updated_at = @updated_at
		WHERE id = @id
	`
	return db.Exec(ctx, q, userArgs(user))
}

func userArgs(user *domain.User) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":            user.ID,
		"email":         user.Email,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"display_name":  user.DisplayName,
		"avatar_url":    user.AvatarURL,
		"bio":           user.Bio,
		"region":        user.Region,
		"timezone":      user.Timezone,
		"updated_at":    user.UpdatedAt,
	}
}

func (r *PostgresUserRepo) getOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	var u sqlUser
	if err := scanUser(r.db.QueryRow(ctx, q, arg), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound // Traduction technique -> Domaine
		}
		return nil, fmt.Errorf("db: get user: %w", err)
	}
	return u.toDomain(), nil
}

func scanUser(row pgx.Row, u *sqlUser) error {
	return row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.DisplayName,
		&u.AvatarURL, &u.Bio, &u.Region, &u.Timezone, &u.CreatedAt, &u.UpdatedAt,
	)
}

func (u *sqlUser) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		AvatarURL:    u.AvatarURL,
		Bio:          u.Bio,
		Region:       u.Region,
		Timezone:     u.Timezone,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// translateUserError traduit les violations d'unicité en erreurs du domaine.
func translateUserError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return domain.ErrUsernameTaken
		}
		return domain.ErrEmailAlreadyExists
	}
	return err
}
