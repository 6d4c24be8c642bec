package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
)

func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	post, err := h.Posts.CreatePost(c.Request.Context(), ports.CreatePostCmd{
		UserID:   currentUser(c),
		Content:  req.Content,
		MediaURL: req.MediaURL,
		GameTag:  req.GameTag,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapPost(post, h.EmbedParent))
}

func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.Posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPost(post, h.EmbedParent))
}

func (h *Handler) UpdatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	post, err := h.Posts.UpdatePost(c.Request.Context(), ports.UpdatePostCmd{
		PostID:   c.Param("id"),
		UserID:   currentUser(c),
		Content:  req.Content,
		MediaURL: req.MediaURL,
		GameTag:  req.GameTag,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPost(post, h.EmbedParent))
}

func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.Posts.DeletePost(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// feedFilters : valeurs du sélecteur de l'accueil.
var feedFilters = map[string][]domain.ContentType{
	"":      nil,
	"all":   nil,
	"post":  {domain.TypePost},
	"posts": {domain.TypePost},
	"clip":  {domain.TypeClip},
	"clips": {domain.TypeClip},
	"lfg":   {domain.TypeLFG},
}

func (h *Handler) HomeFeed(c *gin.Context) {
	types, ok := feedFilters[c.Query("filter")]
	if !ok {
		badRequest(c, "filter must be one of all, post, clips, lfg")
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	offset, ok := intQuery(c, "offset")
	if !ok {
		return
	}

	entries, err := h.Feed.HomeFeed(c.Request.Context(), domain.FeedRequest{
		UserID: currentUser(c),
		Limit:  int64(limit),
		Offset: int64(offset),
		Types:  types,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	res := make([]FeedEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = FeedEntryResponse{Post: mapPost(e.Post, h.EmbedParent), Author: mapUser(e.Author)}
	}
	c.JSON(http.StatusOK, gin.H{"entries": res})
}
