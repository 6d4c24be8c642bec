package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/pkg/mediaurl"
)

// --- CONNEXIONS ---

func (h *Handler) ToggleConnection(c *gin.Context) {
	target, ok := h.lookupTarget(c)
	if !ok {
		return
	}
	conn, err := h.Connections.Toggle(c.Request.Context(), currentUser(c), target.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ConnectionStateResponse{Username: target.Username, State: conn.StateFor(currentUser(c))})
}

func (h *Handler) RemoveConnection(c *gin.Context) {
	target, ok := h.lookupTarget(c)
	if !ok {
		return
	}
	if err := h.Connections.Remove(c.Request.Context(), currentUser(c), target.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ConnectionStateResponse{Username: target.Username, State: domain.StateNone})
}

func (h *Handler) BlockUser(c *gin.Context) {
	target, ok := h.lookupTarget(c)
	if !ok {
		return
	}
	conn, err := h.Connections.Block(c.Request.Context(), currentUser(c), target.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ConnectionStateResponse{Username: target.Username, State: conn.StateFor(currentUser(c))})
}

func (h *Handler) ListConnections(c *gin.Context) {
	users, err := h.Connections.ListConnections(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": mapUsers(users)})
}

func (h *Handler) lookupTarget(c *gin.Context) (*domain.User, bool) {
	target, err := h.Profiles.LookupUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return target, true
}

// --- THÈMES ---

func (h *Handler) ListThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"themes": h.Settings.Themes(), "default": domain.DefaultTheme})
}

func (h *Handler) GetTheme(c *gin.Context) {
	theme, err := h.Settings.GetTheme(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *Handler) SetTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "theme is required")
		return
	}
	theme := domain.Theme(req.Theme)
	if err := h.Settings.SetTheme(c.Request.Context(), currentUser(c), theme); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// --- MÉDIAS ---

// ClassifyMedia : aperçu d'un lien avant publication.
func (h *Handler) ClassifyMedia(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		badRequest(c, "url is required")
		return
	}

	resp := gin.H{"url": raw, "embeddable": false, "media": nil}
	if ref, ok := mediaurl.Classify(raw); ok {
		resp["embeddable"] = true
		resp["media"] = mapMedia(ref, h.EmbedParent)
	}
	c.JSON(http.StatusOK, resp)
}
