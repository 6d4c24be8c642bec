// Package mediaurl reconnaît les liens YouTube et Twitch intégrables.
//
// Toutes les fonctions sont pures et totales : une entrée vide, mal formée
// ou d'une autre plateforme donne false (ou ok == false), jamais de panic.
package mediaurl

import (
	"fmt"
	"net/url"
)

type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformTwitch  Platform = "twitch"
)

type ResourceType string

const (
	ResourceVideo   ResourceType = "video"
	ResourceClip    ResourceType = "clip"
	ResourceChannel ResourceType = "channel"
	ResourceShorts  ResourceType = "shorts"
)

// Reference décrit la ressource pointée par une URL.
// ID est opaque : id vidéo YouTube, slug de clip, id numérique de VOD ou login de chaîne.
type Reference struct {
	Platform Platform     `json:"platform"`
	Type     ResourceType `json:"type"`
	ID       string       `json:"id"`
}

// Vertical indique un format 9:16 (Shorts).
func (r Reference) Vertical() bool {
	return r.Platform == PlatformYouTube && r.Type == ResourceShorts
}

// EmbedURL construit l'URL de l'iframe.
// Twitch refuse l'embed sans le domaine parent qui l'héberge.
func (r Reference) EmbedURL(parent string) string {
	id := url.QueryEscape(r.ID)
	p := url.QueryEscape(parent)

	switch r.Platform {
	case PlatformYouTube:
		return fmt.Sprintf("https://www.youtube.com/embed/%s?modestbranding=1&rel=0&showinfo=0", url.PathEscape(r.ID))
	case PlatformTwitch:
		switch r.Type {
		case ResourceClip:
			return fmt.Sprintf("https://clips.twitch.tv/embed?clip=%s&parent=%s", id, p)
		case ResourceVideo:
			return fmt.Sprintf("https://player.twitch.tv/?video=%s&parent=%s&autoplay=false", id, p)
		case ResourceChannel:
			return fmt.Sprintf("https://player.twitch.tv/?channel=%s&parent=%s&autoplay=false", id, p)
		}
	}
	return ""
}
