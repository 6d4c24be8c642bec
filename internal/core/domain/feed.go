package domain

import "time"

type FeedItem struct {
	PostID    string
	AuthorID  string
	Type      ContentType
	CreatedAt time.Time
}

// FeedRequest encapsule les critères de lecture
type FeedRequest struct {
	UserID string
	Limit  int64
	Offset int64         // Pagination
	Types  []ContentType // Filtrage optionnel
}

// FeedEntry : post hydraté avec son auteur, prêt pour l'affichage.
type FeedEntry struct {
	Post   *Post
	Author *User
}
