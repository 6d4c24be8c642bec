package rest

import (
	"time"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
	"github.com/johncpakin/pinged/pkg/mediaurl"
)

// --- REQUESTS ---

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type GameRequest struct {
	GameName string   `json:"game_name"`
	Platform string   `json:"platform"`
	Rank     string   `json:"rank"`
	Tags     []string `json:"tags"`
}

type SlotRequest struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type OnboardingRequest struct {
	DisplayName  string        `json:"display_name"`
	Username     string        `json:"username"`
	AvatarURL    string        `json:"avatar_url"`
	Bio          string        `json:"bio"`
	Region       string        `json:"region"`
	Timezone     string        `json:"timezone"`
	Games        []GameRequest `json:"games"`
	Availability []SlotRequest `json:"availability"`
}

func (r OnboardingRequest) toDraft() domain.OnboardingDraft {
	d := domain.OnboardingDraft{
		Profile: domain.Profile{
			DisplayName: r.DisplayName,
			Username:    r.Username,
			AvatarURL:   r.AvatarURL,
			Bio:         r.Bio,
			Region:      r.Region,
			Timezone:    r.Timezone,
		},
	}
	for _, g := range r.Games {
		d.Games = append(d.Games, domain.UserGame{GameName: g.GameName, Platform: g.Platform, Rank: g.Rank, Tags: g.Tags})
	}
	for _, s := range r.Availability {
		d.Availability = append(d.Availability, domain.AvailabilitySlot{DayOfWeek: s.DayOfWeek, StartTime: s.StartTime, EndTime: s.EndTime})
	}
	return d
}

// UpdateProfileRequest : champ absent = pas de changement.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	Bio         *string `json:"bio"`
	Region      *string `json:"region"`
	Timezone    *string `json:"timezone"`
}

type PostRequest struct {
	Content  string `json:"content"`
	MediaURL string `json:"media_url"`
	GameTag  string `json:"game_tag"`
}

type ThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// --- RESPONSES ---

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Bio         string    `json:"bio"`
	Region      string    `json:"region"`
	Timezone    string    `json:"timezone"`
	CreatedAt   time.Time `json:"created_at"`
}

// MeResponse : vue privée (email, état d'onboarding).
type MeResponse struct {
	UserResponse
	Email     string `json:"email"`
	Onboarded bool   `json:"onboarded"`
}

type AuthResponse struct {
	User         MeResponse `json:"user"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int        `json:"expires_in"` // secondes
}

type MediaResponse struct {
	Platform mediaurl.Platform     `json:"platform"`
	Type     mediaurl.ResourceType `json:"type"`
	ID       string                `json:"id"`
	EmbedURL string                `json:"embed_url"`
	Vertical bool                  `json:"vertical"`
}

type PostResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Content     string             `json:"content"`
	MediaURL    string             `json:"media_url"`
	GameTag     string             `json:"game_tag"`
	ContentType domain.ContentType `json:"content_type"`
	Media       *MediaResponse     `json:"media"` // null => placeholder côté client
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type FeedEntryResponse struct {
	Post   PostResponse  `json:"post"`
	Author *UserResponse `json:"author"`
}

type GameResponse struct {
	ID       string   `json:"id"`
	GameName string   `json:"game_name"`
	Platform string   `json:"platform"`
	Rank     string   `json:"rank"`
	Tags     []string `json:"tags"`
}

type SlotResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type ProfileResponse struct {
	User         UserResponse           `json:"user"`
	Games        []GameResponse         `json:"games"`
	Availability []SlotResponse         `json:"availability"`
	RecentPosts  []PostResponse         `json:"recent_posts"`
	Connection   domain.ConnectionState `json:"connection"`
	OnlineNow    bool                   `json:"online_now"`
}

type ConnectionStateResponse struct {
	Username string                 `json:"username"`
	State    domain.ConnectionState `json:"state"`
}

// --- MAPPERS ---

func mapUser(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Region:      u.Region,
		Timezone:    u.Timezone,
		CreatedAt:   u.CreatedAt,
	}
}

func mapMe(u *domain.User) MeResponse {
	return MeResponse{UserResponse: *mapUser(u), Email: u.Email, Onboarded: u.Onboarded()}
}

func mapAuth(a *ports.AuthResponse) AuthResponse {
	return AuthResponse{
		User:         mapMe(a.User),
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		ExpiresIn:    int(a.ExpiresIn.Seconds()),
	}
}

func mapMedia(ref mediaurl.Reference, parent string) *MediaResponse {
	return &MediaResponse{
		Platform: ref.Platform,
		Type:     ref.Type,
		ID:       ref.ID,
		EmbedURL: ref.EmbedURL(parent),
		Vertical: ref.Vertical(),
	}
}

func mapPost(p *domain.Post, parent string) PostResponse {
	resp := PostResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Content:     p.Content,
		MediaURL:    p.MediaURL,
		GameTag:     p.GameTag,
		ContentType: p.ContentType(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if ref, ok := p.Media(); ok {
		resp.Media = mapMedia(ref, parent)
	}
	return resp
}

func mapPosts(posts []*domain.Post, parent string) []PostResponse {
	res := make([]PostResponse, len(posts))
	for i, p := range posts {
		res[i] = mapPost(p, parent)
	}
	return res
}

func mapUsers(users []*domain.User) []UserResponse {
	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, *mapUser(u))
	}
	return res
}

func mapProfile(v *ports.ProfileView, parent string) ProfileResponse {
	resp := ProfileResponse{
		User:         *mapUser(v.User),
		Games:        make([]GameResponse, len(v.Games)),
		Availability: make([]SlotResponse, len(v.Availability)),
		RecentPosts:  mapPosts(v.RecentPosts, parent),
		Connection:   v.Connection,
		OnlineNow:    v.OnlineNow,
	}
	for i, g := range v.Games {
		resp.Games[i] = GameResponse{ID: g.ID, GameName: g.GameName, Platform: g.Platform, Rank: g.Rank, Tags: g.Tags}
	}
	for i, s := range v.Availability {
		resp.Availability[i] = SlotResponse{
			DayOfWeek: s.DayOfWeek,
			Day:       domain.Days[s.DayOfWeek],
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}
	return resp
}
