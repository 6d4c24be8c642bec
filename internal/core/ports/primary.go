package ports

import (
	"context"
	"time"

	"github.com/johncpakin/pinged/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---

type RegisterCmd struct {
	Email       string
	Password    string
	DisplayName string
}

type LoginCmd struct {
	Email    string
	Password string
	IP       string // Utile pour les logs
}

type UpdateProfileCmd struct {
	UserID      string
	DisplayName *string // nil = pas de changement
	AvatarURL   *string
	Bio         *string
	Region      *string
	Timezone    *string
}

type CreatePostCmd struct {
	UserID   string
	Content  string
	MediaURL string
	GameTag  string
}

type UpdatePostCmd struct {
	PostID   string
	UserID   string
	Content  string
	MediaURL string
	GameTag  string
}

// --- OUTPUTS ---

type AuthResponse struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type UsernameCheck struct {
	Username string
	Status   domain.UsernameStatus
}

// ProfileView : tout ce que la page profil affiche en une requête.
type ProfileView struct {
	User         *domain.User
	Games        []domain.UserGame
	Availability []domain.AvailabilitySlot
	RecentPosts  []*domain.Post
	Connection   domain.ConnectionState
	OnlineNow    bool
}

// --- PORTS PRIMAIRES (Driving) ---

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (string, error)
	NextRoute(ctx context.Context, userID string) (string, error)
	ChangePassword(ctx context.Context, userID, oldPass, newPass string) error
}

type ProfileService interface {
	CheckUsername(ctx context.Context, viewerID, raw string) (*UsernameCheck, error)
	CompleteOnboarding(ctx context.Context, userID string, draft domain.OnboardingDraft) (*domain.User, error)
	GetMe(ctx context.Context, userID string) (*domain.User, error)
	LookupUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCmd) (*domain.User, error)
	GetProfile(ctx context.Context, viewerID, username string) (*ProfileView, error)
	ListPostsByAuthor(ctx context.Context, username string, limit int, cursor string) ([]*domain.Post, string, error)
}

type PostService interface {
	CreatePost(ctx context.Context, cmd CreatePostCmd) (*domain.Post, error)
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	UpdatePost(ctx context.Context, cmd UpdatePostCmd) (*domain.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
	GetPosts(ctx context.Context, postIDs []string) ([]*domain.Post, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Post, error)
}

type FeedService interface {
	// DistributePost est appelé quand un event "post.created" arrive
	DistributePost(ctx context.Context, item *domain.FeedItem) error
	// RetractPost est appelé sur "post.deleted"
	RetractPost(ctx context.Context, item *domain.FeedItem) error
	// ReclassifyPost est appelé sur "post.updated"
	ReclassifyPost(ctx context.Context, item *domain.FeedItem) error
	HomeFeed(ctx context.Context, req domain.FeedRequest) ([]domain.FeedEntry, error)
}

type ConnectionService interface {
	Toggle(ctx context.Context, actorID, targetID string) (*domain.Connection, error)
	Remove(ctx context.Context, actorID, targetID string) error
	Block(ctx context.Context, actorID, targetID string) (*domain.Connection, error)
	State(ctx context.Context, actorID, targetID string) (domain.ConnectionState, error)
	ListConnections(ctx context.Context, userID string) ([]*domain.User, error)
}

type SettingsService interface {
	GetTheme(ctx context.Context, userID string) (domain.Theme, error)
	SetTheme(ctx context.Context, userID string, theme domain.Theme) error
	Themes() []domain.ThemeInfo
}
