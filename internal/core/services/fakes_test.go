package services

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/johncpakin/pinged/internal/core/domain"
)

// --- USERS ---

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	err   error
	saves int
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Save(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username != "" && u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	return nil
}

// --- ONBOARDING ---

type fakeOnboarding struct {
	users *fakeUsers
	games map[string][]domain.UserGame
	slots map[string][]domain.AvailabilitySlot
}

func newFakeOnboarding(users *fakeUsers) *fakeOnboarding {
	return &fakeOnboarding{
		users: users,
		games: map[string][]domain.UserGame{},
		slots: map[string][]domain.AvailabilitySlot{},
	}
}

func (f *fakeOnboarding) CompleteOnboarding(ctx context.Context, u *domain.User, games []domain.UserGame, slots []domain.AvailabilitySlot) error {
	f.games[u.ID] = games
	f.slots[u.ID] = slots
	return f.users.Update(ctx, u)
}

func (f *fakeOnboarding) ListGames(_ context.Context, userID string) ([]domain.UserGame, error) {
	return f.games[userID], nil
}

func (f *fakeOnboarding) ListAvailability(_ context.Context, userID string) ([]domain.AvailabilitySlot, error) {
	return f.slots[userID], nil
}

// --- POSTS ---

type fakePosts struct {
	mu   sync.Mutex
	byID map[string]*domain.Post
}

func newFakePosts(posts ...*domain.Post) *fakePosts {
	f := &fakePosts{byID: map[string]*domain.Post{}}
	for _, p := range posts {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePosts) Save(_ context.Context, p *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[p.ID] = p
	return nil
}

func (f *fakePosts) FindByID(_ context.Context, id string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPostNotFound
}

func (f *fakePosts) Update(ctx context.Context, p *domain.Post) error { return f.Save(ctx, p) }

func (f *fakePosts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

// GetPosts renvoie volontairement dans un ordre arbitraire (comme ANY($1) en SQL).
func (f *fakePosts) GetPosts(_ context.Context, ids []string) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Post
	for _, id := range slices.Backward(ids) {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePosts) sorted(keep func(*domain.Post) bool) []*domain.Post {
	var out []*domain.Post
	for _, p := range f.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return domain.CursorAt(out[i]).Precedes(out[j]) })
	return out
}

func (f *fakePosts) ListByAuthor(_ context.Context, authorID string, limit int, after domain.PageCursor) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(p *domain.Post) bool {
		return p.UserID == authorID && after.Precedes(p)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePosts) ListRecent(_ context.Context, limit int) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(*domain.Post) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- PUBLISHER ---

type fakePublisher struct {
	mu       sync.Mutex
	failures int // nombre d'échecs avant succès
	created  []string
	deleted  []string
	updated  []string
	calls    int
}

func (f *fakePublisher) attempt() error {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errors.New("nats: no responders")
	}
	return nil
}

func (f *fakePublisher) PublishPostCreated(_ context.Context, p *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.attempt(); err != nil {
		return err
	}
	f.created = append(f.created, p.ID)
	return nil
}

func (f *fakePublisher) PublishPostDeleted(_ context.Context, p *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.attempt(); err != nil {
		return err
	}
	f.deleted = append(f.deleted, p.ID)
	return nil
}

func (f *fakePublisher) PublishPostUpdated(_ context.Context, p *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.attempt(); err != nil {
		return err
	}
	f.updated = append(f.updated, p.ID)
	return nil
}

type fakeIdentityBroker struct {
	err        error
	registered []string
}

func (f *fakeIdentityBroker) PublishUserRegistered(_ context.Context, userID, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.registered = append(f.registered, userID)
	return nil
}

// --- SECURITY ---

type fakeHasher struct{}

func (fakeHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (fakeHasher) Compare(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateTokens(u *domain.User) (string, string, error) {
	return "access:" + u.ID, "refresh:" + u.ID, nil
}

func (fakeTokens) Validate(token string) (string, error) {
	if id, ok := strings.CutPrefix(token, "access:"); ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func (fakeTokens) ValidateRefresh(token string) (string, error) {
	if id, ok := strings.CutPrefix(token, "refresh:"); ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func (fakeTokens) AccessTTL() time.Duration { return 15 * time.Minute }

// --- CONNECTIONS ---

type fakeConns struct {
	mu    sync.Mutex
	byID  map[string]*domain.Connection
	order []string

	// beforeCreate simule une écriture concurrente entre Find et Create
	beforeCreate func(f *fakeConns)
}

func (f *fakeConns) insert(c *domain.Connection) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[c.ID] = c
	f.order = append(f.order, c.ID)
}

func newFakeConns(conns ...*domain.Connection) *fakeConns {
	f := &fakeConns{byID: map[string]*domain.Connection{}}
	for _, c := range conns {
		f.byID[c.ID] = c
		f.order = append(f.order, c.ID)
	}
	return f
}

func (f *fakeConns) EnsureSchema(context.Context) error { return nil }

func (f *fakeConns) Find(_ context.Context, a, b string) (*domain.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if (c.UserID == a && c.TargetUserID == b) || (c.UserID == b && c.TargetUserID == a) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConns) Create(_ context.Context, c *domain.Connection) error {
	if hook := f.beforeCreate; hook != nil {
		f.beforeCreate = nil
		hook(f)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if (existing.UserID == c.UserID && existing.TargetUserID == c.TargetUserID) ||
			(existing.UserID == c.TargetUserID && existing.TargetUserID == c.UserID) {
			return domain.ErrConnectionExists
		}
	}
	cp := *c
	f.byID[c.ID] = &cp
	f.order = append(f.order, c.ID)
	return nil
}

func (f *fakeConns) UpdateStatus(_ context.Context, id string, status domain.ConnectionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeConns) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

func (f *fakeConns) ListAccepted(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, id := range f.order {
		c, ok := f.byID[id]
		if !ok || c.Status != domain.ConnectionAccepted {
			continue
		}
		if c.UserID == userID || c.TargetUserID == userID {
			out = append(out, c.Other(userID))
		}
	}
	return out, nil
}

func (f *fakeConns) StreamAcceptedIDs(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	ids, _ := f.ListAccepted(ctx, userID)
	for chunk := range slices.Chunk(ids, batchSize) {
		if err := yield(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeConns) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// --- FEED / SETTINGS ---

// fakeFeed reproduit le modèle Redis : un set complet et un set par type,
// membres "AUTHOR:POST", plus récent d'abord.
type fakeFeed struct {
	mu      sync.Mutex
	sets    map[string][]fakeEntry
	batches [][]string
}

type fakeEntry struct {
	member string
	at     time.Time
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{sets: map[string][]fakeEntry{}}
}

func fakeMember(item *domain.FeedItem) string { return item.AuthorID + ":" + item.PostID }

func fakeTypedKey(uid string, t domain.ContentType) string { return uid + ":" + string(t) }

// timeline : membres du set complet d'un utilisateur.
func (f *fakeFeed) timeline(uid string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.sets[uid] {
		out = append(out, e.member)
	}
	return out
}

func (f *fakeFeed) zadd(key string, e fakeEntry) {
	set := slices.DeleteFunc(f.sets[key], func(x fakeEntry) bool { return x.member == e.member })
	set = append([]fakeEntry{e}, set...)
	sort.SliceStable(set, func(i, j int) bool { return set[i].at.After(set[j].at) })
	f.sets[key] = set
}

func (f *fakeFeed) zrem(key, member string) bool {
	before := len(f.sets[key])
	f.sets[key] = slices.DeleteFunc(f.sets[key], func(x fakeEntry) bool { return x.member == member })
	return len(f.sets[key]) < before
}

func (f *fakeFeed) AddToTimelines(_ context.Context, ids []string, item *domain.FeedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, ids)
	e := fakeEntry{member: fakeMember(item), at: item.CreatedAt}
	for _, id := range ids {
		f.zadd(id, e)
		if item.Type.Valid() {
			f.zadd(fakeTypedKey(id, item.Type), e)
		}
	}
	return nil
}

func (f *fakeFeed) RemoveFromTimelines(_ context.Context, ids []string, item *domain.FeedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	member := fakeMember(item)
	for _, id := range ids {
		f.zrem(id, member)
		for _, t := range domain.ContentTypes {
			f.zrem(fakeTypedKey(id, t), member)
		}
	}
	return nil
}

func (f *fakeFeed) RetypeInTimelines(_ context.Context, ids []string, item *domain.FeedItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	member := fakeMember(item)
	for _, id := range ids {
		moved := false
		for _, t := range domain.ContentTypes {
			if t != item.Type && f.zrem(fakeTypedKey(id, t), member) {
				moved = true
			}
		}
		if moved {
			f.zadd(fakeTypedKey(id, item.Type), fakeEntry{member: member, at: item.CreatedAt})
		}
	}
	return nil
}

func (f *fakeFeed) GetTimeline(_ context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var set []fakeEntry
	var typ domain.ContentType
	switch len(req.Types) {
	case 0:
		set = f.sets[req.UserID]
	case 1:
		typ = req.Types[0]
		set = f.sets[fakeTypedKey(req.UserID, typ)]
	default:
		for _, t := range req.Types {
			set = append(set, f.sets[fakeTypedKey(req.UserID, t)]...)
		}
		sort.SliceStable(set, func(i, j int) bool { return set[i].at.After(set[j].at) })
	}

	// filtre déjà appliqué par le choix du set, on pagine ensuite
	if int(req.Offset) >= len(set) {
		return nil, nil
	}
	set = set[req.Offset:]
	if len(set) > int(req.Limit) {
		set = set[:req.Limit]
	}

	out := make([]*domain.FeedItem, 0, len(set))
	for _, e := range set {
		author, post, _ := strings.Cut(e.member, ":")
		out = append(out, &domain.FeedItem{PostID: post, AuthorID: author, Type: typ, CreatedAt: e.at})
	}
	return out, nil
}

func (f *fakeFeed) TimelineSize(_ context.Context, uid string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.sets[uid])), nil
}

type fakeSettings struct {
	themes map[string]domain.Theme
	err    error
}

func (f *fakeSettings) GetTheme(_ context.Context, userID string) (domain.Theme, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.themes[userID], nil
}

func (f *fakeSettings) SetTheme(_ context.Context, userID string, t domain.Theme) error {
	if f.themes == nil {
		f.themes = map[string]domain.Theme{}
	}
	f.themes[userID] = t
	return nil
}
