package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
)

// RecentPostsOnProfile : nombre de posts affichés sur la page profil.
const RecentPostsOnProfile = 5

type profileService struct {
	users      ports.UserRepository
	onboarding ports.OnboardingRepository
	posts      ports.PostRepository
	conns      ports.ConnectionRepository

	now func() time.Time
}

func NewProfileService(
	users ports.UserRepository,
	onboarding ports.OnboardingRepository,
	posts ports.PostRepository,
	conns ports.ConnectionRepository,
) ports.ProfileService {
	return &profileService{
		users:      users,
		onboarding: onboarding,
		posts:      posts,
		conns:      conns,
		now:        time.Now,
	}
}

// CheckUsername : le username actuel du viewer compte comme disponible.
func (s *profileService) CheckUsername(ctx context.Context, viewerID, raw string) (*ports.UsernameCheck, error) {
	username := domain.NormalizeUsername(raw)
	check := &ports.UsernameCheck{Username: username}

	if username == "" {
		check.Status = domain.UsernameIdle
		return check, nil
	}
	if err := domain.ValidateUsername(username); err != nil {
		check.Status = domain.UsernameInvalid
		return check, nil
	}

	existing, err := s.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		check.Status = domain.UsernameAvailable
	case err != nil:
		return nil, err
	case existing.ID == viewerID:
		check.Status = domain.UsernameAvailable
	default:
		check.Status = domain.UsernameTaken
	}
	return check, nil
}

func (s *profileService) CompleteOnboarding(ctx context.Context, userID string, draft domain.OnboardingDraft) (*domain.User, error) {
	draft.Profile.Username = domain.NormalizeUsername(draft.Profile.Username)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	check, err := s.CheckUsername(ctx, userID, draft.Profile.Username)
	if err != nil {
		return nil, err
	}
	if check.Status == domain.UsernameTaken {
		return nil, domain.ErrUsernameTaken
	}

	user.ApplyProfile(draft.Profile)

	now := time.Now().UTC()
	games := make([]domain.UserGame, 0, len(draft.Games))
	for _, g := range draft.Games {
		g.ID = uuid.NewString()
		g.UserID = userID
		g.GameName = strings.TrimSpace(g.GameName)
		g.CreatedAt = now
		games = append(games, g)
	}
	slots := make([]domain.AvailabilitySlot, 0, len(draft.Availability))
	for _, sl := range draft.Availability {
		sl.ID = uuid.NewString()
		sl.UserID = userID
		sl.CreatedAt = now
		slots = append(slots, sl)
	}

	// Tout ou rien : profil, jeux et créneaux dans la même transaction
	if err := s.onboarding.CompleteOnboarding(ctx, user, games, slots); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *profileService) LookupUsername(ctx context.Context, username string) (*domain.User, error) {
	username = domain.NormalizeUsername(username)
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.users.GetByUsername(ctx, username)
}

func (s *profileService) UpdateProfile(ctx context.Context, cmd ports.UpdateProfileCmd) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	// Patch partiel : nil = pas de changement
	if cmd.DisplayName != nil {
		name := strings.TrimSpace(*cmd.DisplayName)
		if name == "" {
			return nil, domain.ErrDisplayNameMissing
		}
		user.DisplayName = name
	}
	if cmd.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*cmd.AvatarURL)
	}
	if cmd.Bio != nil {
		user.Bio = strings.TrimSpace(*cmd.Bio)
	}
	if cmd.Region != nil {
		if *cmd.Region != "" && !domain.IsKnownRegion(*cmd.Region) {
			return nil, fmt.Errorf("%w: unknown region %q", domain.ErrInvalidInput, *cmd.Region)
		}
		user.Region = *cmd.Region
	}
	if cmd.Timezone != nil {
		if *cmd.Timezone != "" && !domain.IsKnownTimezone(*cmd.Timezone) {
			return nil, fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidInput, *cmd.Timezone)
		}
		user.Timezone = *cmd.Timezone
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *profileService) GetProfile(ctx context.Context, viewerID, username string) (*ports.ProfileView, error) {
	user, err := s.LookupUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	games, err := s.onboarding.ListGames(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	slots, err := s.onboarding.ListAvailability(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	posts, err := s.posts.ListByAuthor(ctx, user.ID, RecentPostsOnProfile, domain.PageCursor{})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	state := domain.StateNone
	if viewerID != "" && viewerID != user.ID {
		conn, err := s.conns.Find(ctx, viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("find connection: %w", err)
		}
		state = conn.StateFor(viewerID)
	}

	_, online := domain.CurrentSlot(slots, s.now(), user.Location())

	return &ports.ProfileView{
		User:         user,
		Games:        games,
		Availability: slots,
		RecentPosts:  posts,
		Connection:   state,
		OnlineNow:    online,
	}, nil
}

// ListPostsByAuthor : pagination keyset, le curseur encode (created_at, id) du dernier post.
func (s *profileService) ListPostsByAuthor(ctx context.Context, username string, limit int, cursor string) ([]*domain.Post, string, error) {
	after, err := domain.ParsePageCursor(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid page token", domain.ErrInvalidInput)
	}

	user, err := s.LookupUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}

	limit = clampLimit(limit)
	posts, err := s.posts.ListByAuthor(ctx, user.ID, limit, after)
	if err != nil {
		return nil, "", err
	}

	// Page incomplète = plus rien derrière
	next := ""
	if len(posts) == limit {
		next = domain.CursorAt(posts[len(posts)-1]).String()
	}
	return posts, next, nil
}
