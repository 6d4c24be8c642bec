package ports

import (
	"context"
	"time"

	"github.com/johncpakin/pinged/internal/core/domain"
)

// --- PERSISTANCE (Postgres) ---

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// OnboardingRepository écrit profil + jeux + disponibilités dans une seule transaction.
type OnboardingRepository interface {
	CompleteOnboarding(ctx context.Context, user *domain.User, games []domain.UserGame, slots []domain.AvailabilitySlot) error
	ListGames(ctx context.Context, userID string) ([]domain.UserGame, error)
	ListAvailability(ctx context.Context, userID string) ([]domain.AvailabilitySlot, error)
}

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, postID string) error

	// Hydratation du feed (batch)
	GetPosts(ctx context.Context, postIDs []string) ([]*domain.Post, error)

	// Pagination profil (keyset sur created_at)
	ListByAuthor(ctx context.Context, authorID string, limit int, after domain.PageCursor) ([]*domain.Post, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Post, error)
}

// --- CACHE (Redis) ---

// FeedRepository indexe chaque entrée dans la timeline complète et dans celle de son type.
type FeedRepository interface {
	AddToTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error
	// RemoveFromTimelines ne dépend pas de item.Type (le type a pu changer depuis l'ajout)
	RemoveFromTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error
	// RetypeInTimelines déplace l'entrée vers item.Type, chez ceux qui l'ont encore
	RetypeInTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error
	// GetTimeline filtre avant de paginer
	GetTimeline(ctx context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error)
	// TimelineSize compte les entrées, tous types confondus
	TimelineSize(ctx context.Context, userID string) (int64, error)
}

type SettingsRepository interface {
	// GetTheme renvoie "" si rien n'est enregistré
	GetTheme(ctx context.Context, userID string) (domain.Theme, error)
	SetTheme(ctx context.Context, userID string, theme domain.Theme) error
}

// --- GRAPHE (Neo4j) ---

type ConnectionRepository interface {
	EnsureSchema(ctx context.Context) error
	// Find cherche la connexion dans les deux sens, nil si aucune
	Find(ctx context.Context, a, b string) (*domain.Connection, error)
	// Create échoue avec domain.ErrConnectionExists si la paire est déjà reliée, dans un sens ou l'autre.
	Create(ctx context.Context, conn *domain.Connection) error
	UpdateStatus(ctx context.Context, id string, status domain.ConnectionStatus) error
	Delete(ctx context.Context, id string) error
	ListAccepted(ctx context.Context, userID string) ([]string, error)

	// StreamAcceptedIDs renvoie les connexions acceptées par paquets via 'yield' (fan-out)
	StreamAcceptedIDs(ctx context.Context, userID string, batchSize int, yield func([]string) error) error
}

// --- MESSAGERIE (NATS) ---

type PostEventPublisher interface {
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, post *domain.Post) error
	// PublishPostUpdated : seulement quand le type du post a changé
	PublishPostUpdated(ctx context.Context, post *domain.Post) error
}

type IdentityEventPublisher interface {
	PublishUserRegistered(ctx context.Context, userID, email string) error
}

// --- SÉCURITÉ ---

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenProvider interface {
	GenerateTokens(user *domain.User) (access string, refresh string, err error)
	// Validate n'accepte que les access tokens
	Validate(token string) (userID string, err error)
	ValidateRefresh(token string) (userID string, err error)
	AccessTTL() time.Duration
}
