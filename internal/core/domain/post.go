package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/johncpakin/pinged/pkg/mediaurl"
)

type ContentType string

const (
	TypePost ContentType = "post"
	TypeClip ContentType = "clip"
	TypeLFG  ContentType = "lfg"
)

var ContentTypes = []ContentType{TypePost, TypeClip, TypeLFG}

func (t ContentType) Valid() bool {
	return slices.Contains(ContentTypes, t)
}

type Post struct {
	ID        string
	UserID    string
	Content   string
	MediaURL  string
	GameTag   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Media : référence intégrable du media_url, ok == false => placeholder.
func (p *Post) Media() (mediaurl.Reference, bool) {
	if p.MediaURL == "" {
		return mediaurl.Reference{}, false
	}
	return mediaurl.Classify(p.MediaURL)
}

// ContentType sert au filtrage du feed (clips, LFG, le reste).
func (p *Post) ContentType() ContentType {
	if _, ok := p.Media(); ok {
		return TypeClip
	}
	for _, w := range strings.Fields(strings.ToLower(p.Content)) {
		if strings.Trim(w, "#!.,?:;()") == "lfg" {
			return TypeLFG
		}
	}
	return TypePost
}

// PageCursor : position keyset (created_at, id) du dernier post lu, tri du plus récent au plus ancien.
type PageCursor struct {
	CreatedAt time.Time
	ID        string
}

func CursorAt(p *Post) PageCursor { return PageCursor{CreatedAt: p.CreatedAt, ID: p.ID} }

func (c PageCursor) IsZero() bool { return c.CreatedAt.IsZero() && c.ID == "" }

// Precedes : p vient après le curseur ; à date égale l'id départage.
func (c PageCursor) Precedes(p *Post) bool {
	if c.IsZero() {
		return true
	}
	if !p.CreatedAt.Equal(c.CreatedAt) {
		return p.CreatedAt.Before(c.CreatedAt)
	}
	return p.ID < c.ID
}

func (c PageCursor) String() string {
	if c.IsZero() {
		return ""
	}
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
}

func ParsePageCursor(raw string) (PageCursor, error) {
	if raw == "" {
		return PageCursor{}, nil
	}
	ts, id, ok := strings.Cut(raw, "|")
	if !ok || id == "" {
		return PageCursor{}, ErrInvalidInput
	}
	at, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return PageCursor{}, ErrInvalidInput
	}
	return PageCursor{CreatedAt: at, ID: id}, nil
}
