package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
)

// --- stubs ---

type stubIdentity struct {
	ports.IdentityService
	register func(cmd ports.RegisterCmd) (*ports.AuthResponse, error)
}

func (s *stubIdentity) ValidateToken(_ context.Context, token string) (string, error) {
	if id, ok := strings.CutPrefix(token, "valid-"); ok {
		return id, nil
	}
	return "", domain.ErrInvalidToken
}

func (s *stubIdentity) Register(_ context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	return s.register(cmd)
}

func (s *stubIdentity) NextRoute(_ context.Context, userID string) (string, error) {
	if userID == "alice" {
		return "/home", nil
	}
	return "/onboarding", nil
}

type stubPosts struct {
	ports.PostService
	created ports.CreatePostCmd
	err     error
}

func (s *stubPosts) CreatePost(_ context.Context, cmd ports.CreatePostCmd) (*domain.Post, error) {
	s.created = cmd
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Post{ID: "p1", UserID: cmd.UserID, Content: cmd.Content, MediaURL: cmd.MediaURL}, nil
}

func (s *stubPosts) DeletePost(_ context.Context, postID, userID string) error {
	if userID != "alice" {
		return domain.ErrUnauthorized
	}
	return nil
}

type stubFeed struct {
	ports.FeedService
	req domain.FeedRequest
}

func (s *stubFeed) HomeFeed(_ context.Context, req domain.FeedRequest) ([]domain.FeedEntry, error) {
	s.req = req
	return []domain.FeedEntry{{
		Post:   &domain.Post{ID: "p1", Content: "gg", MediaURL: "https://clips.twitch.tv/Funny"},
		Author: &domain.User{ID: "bob", Username: "bob"},
	}}, nil
}

type stubProfiles struct {
	ports.ProfileService
	users map[string]*domain.User
}

func (s *stubProfiles) LookupUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

type stubConnections struct {
	ports.ConnectionService
}

func (s *stubConnections) Toggle(_ context.Context, actorID, targetID string) (*domain.Connection, error) {
	return &domain.Connection{UserID: actorID, TargetUserID: targetID, Status: domain.ConnectionPending}, nil
}

type stubSettings struct {
	ports.SettingsService
	theme domain.Theme
}

func (s *stubSettings) SetTheme(_ context.Context, _ string, theme domain.Theme) error {
	if !theme.Valid() {
		return domain.ErrInvalidTheme
	}
	s.theme = theme
	return nil
}

func (s *stubSettings) Themes() []domain.ThemeInfo { return domain.Themes }

type fixture struct {
	handler  *Handler
	router   *gin.Engine
	posts    *stubPosts
	feed     *stubFeed
	settings *stubSettings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{posts: &stubPosts{}, feed: &stubFeed{}, settings: &stubSettings{}}
	h := &Handler{
		Identity: &stubIdentity{register: func(cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
			if cmd.Email == "taken@pinged.gg" {
				return nil, domain.ErrEmailAlreadyExists
			}
			return &ports.AuthResponse{
				User:        &domain.User{ID: "u1", Email: cmd.Email, DisplayName: cmd.DisplayName},
				AccessToken: "a", RefreshToken: "r", ExpiresIn: 15 * time.Minute,
			}, nil
		}},
		Profiles:    &stubProfiles{users: map[string]*domain.User{"bob": {ID: "bob", Username: "bob"}}},
		Posts:       f.posts,
		Feed:        f.feed,
		Connections: &stubConnections{},
		Settings:    f.settings,
		EmbedParent: "pinged.gg",
	}
	f.handler = h
	f.router = NewRouter(h, NewRateLimiter(100))
	return f
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// --- tests ---

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", "", "").Code)
}

func TestSignup(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/auth/signup", `{"email":"a@pinged.gg","password":"hunter22","display_name":"Alice"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(900), body["expires_in"])
	assert.Equal(t, false, body["user"].(map[string]any)["onboarded"])

	w = f.do(http.MethodPost, "/auth/signup", `{"email":"taken@pinged.gg","password":"hunter22","display_name":"x"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/auth/signup", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRateLimit(t *testing.T) {
	f := newFixture(t)
	f.router = NewRouter(f.handler, NewRateLimiter(2))
	body := `{"email":"a@pinged.gg","password":"hunter22","display_name":"A"}`

	for range 2 {
		assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/auth/signup", body, "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodPost, "/auth/signup", body, "").Code)
}

func TestAuthRateLimitForwardedFor(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		second  int
	}{
		// pair non fiable : l'en-tête forgé ne change pas la clé
		{"untrusted peer", nil, http.StatusTooManyRequests},
		{"trusted proxy", []string{"192.0.2.0/24"}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.handler.TrustedProxies = tt.proxies
			router := NewRouter(f.handler, NewRateLimiter(1))

			send := func(forwarded string) int {
				req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(`{"email":"a@pinged.gg","password":"hunter22","display_name":"A"}`))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set("X-Forwarded-For", forwarded)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)
				return w.Code
			}

			assert.Equal(t, http.StatusCreated, send("198.51.100.1"))
			assert.Equal(t, tt.second, send("198.51.100.2"))
		})
	}
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/auth/next", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/auth/next", "", "garbage").Code)

	w := f.do(http.MethodGet, "/auth/next", "", "valid-alice")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/home", decode(t, w)["next"])

	w = f.do(http.MethodGet, "/auth/next", "", "valid-newbie")
	assert.Equal(t, "/onboarding", decode(t, w)["next"])
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/posts", `{"content":"check","media_url":"https://youtube.com/shorts/abc123"}`, "valid-alice")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice", f.posts.created.UserID)

	body := decode(t, w)
	assert.Equal(t, "clip", body["content_type"])
	media := body["media"].(map[string]any)
	assert.Equal(t, "youtube", media["platform"])
	assert.Equal(t, "abc123", media["id"])
	assert.Equal(t, true, media["vertical"])
}

func TestCreatePostPlaceholder(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/posts", `{"content":"lien","media_url":"https://example.com/video"}`, "valid-alice")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Nil(t, body["media"])
	assert.Equal(t, "https://example.com/video", body["media_url"])
}

func TestCreatePostErrors(t *testing.T) {
	f := newFixture(t)

	f.posts.err = domain.ErrEmptyContent
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/posts", `{"content":"  "}`, "valid-alice").Code)

	f.posts.err = errors.New("db down")
	w := f.do(http.MethodPost, "/posts", `{"content":"x"}`, "valid-alice")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decode(t, w)["error"])
}

func TestDeletePostForbidden(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/posts/p1", "", "valid-alice").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/posts/p1", "", "valid-bob").Code)
}

func TestHomeFeedFilters(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/feed?filter=clips&limit=10&offset=20", "", "valid-alice")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []domain.ContentType{domain.TypeClip}, f.feed.req.Types)
	assert.Equal(t, int64(10), f.feed.req.Limit)
	assert.Equal(t, int64(20), f.feed.req.Offset)

	entries := decode(t, w)["entries"].([]any)
	require.Len(t, entries, 1)
	media := entries[0].(map[string]any)["post"].(map[string]any)["media"].(map[string]any)
	assert.Equal(t, "https://clips.twitch.tv/embed?clip=Funny&parent=pinged.gg", media["embed_url"])

	f.do(http.MethodGet, "/feed?filter=all", "", "valid-alice")
	assert.Nil(t, f.feed.req.Types)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/feed?filter=memes", "", "valid-alice").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/feed?limit=abc", "", "valid-alice").Code)
}

func TestToggleConnection(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/users/bob/connection", "", "valid-alice")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "request_sent", decode(t, w)["state"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/users/ghost/connection", "", "valid-alice").Code)
}

func TestThemes(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/themes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "orange", body["default"])
	assert.Len(t, body["themes"], len(domain.Themes))

	assert.Equal(t, http.StatusOK, f.do(http.MethodPut, "/settings/theme", `{"theme":"pink"}`, "valid-alice").Code)
	assert.Equal(t, domain.ThemePink, f.settings.theme)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/settings/theme", `{"theme":"rainbow"}`, "valid-alice").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/settings/theme", `{}`, "valid-alice").Code)
}

func TestClassifyMedia(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/media/classify?url=https://www.twitch.tv/videos/123456", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["embeddable"])
	assert.Equal(t, "video", body["media"].(map[string]any)["type"])

	w = f.do(http.MethodGet, "/media/classify?url=https://vimeo.com/1", "", "")
	body = decode(t, w)
	assert.Equal(t, false, body["embeddable"])
	assert.Nil(t, body["media"])

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/media/classify", "", "").Code)
}

func TestRateLimiterPerClient(t *testing.T) {
	l := NewRateLimiter(1)
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrBlocked, http.StatusForbidden},
		{domain.ErrPostNotFound, http.StatusNotFound},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.ErrSelfConnection, http.StatusBadRequest},
		{domain.ErrConnectionExists, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
