package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/johncpakin/pinged/internal/core/ports"
)

func (h *Handler) CheckUsername(c *gin.Context) {
	check, err := h.Profiles.CheckUsername(c.Request.Context(), currentUser(c), c.Query("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": check.Username, "status": check.Status})
}

func (h *Handler) CompleteOnboarding(c *gin.Context) {
	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.Profiles.CompleteOnboarding(c.Request.Context(), currentUser(c), req.toDraft())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapMe(user))
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.Profiles.GetMe(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapMe(user))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.Profiles.UpdateProfile(c.Request.Context(), ports.UpdateProfileCmd{
		UserID:      currentUser(c),
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		Region:      req.Region,
		Timezone:    req.Timezone,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapMe(user))
}

func (h *Handler) GetProfile(c *gin.Context) {
	view, err := h.Profiles.GetProfile(c.Request.Context(), currentUser(c), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfile(view, h.EmbedParent))
}

func (h *Handler) ListUserPosts(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}

	posts, next, err := h.Profiles.ListPostsByAuthor(c.Request.Context(), c.Param("username"), limit, c.Query("cursor"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": mapPosts(posts, h.EmbedParent), "next_cursor": next})
}

// intQuery : paramètre absent = 0 (valeur par défaut du service).
func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(c, key+" must be a positive integer")
		return 0, false
	}
	return n, true
}
