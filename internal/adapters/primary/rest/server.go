package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/johncpakin/pinged/internal/core/ports"
)

// Handler regroupe les services exposés par l'API REST.
type Handler struct {
	Identity    ports.IdentityService
	Profiles    ports.ProfileService
	Posts       ports.PostService
	Feed        ports.FeedService
	Connections ports.ConnectionService
	Settings    ports.SettingsService

	// EmbedParent : domaine déclaré aux iframes Twitch
	EmbedParent string
	// TrustedProxies : vide, X-Forwarded-For est ignoré et l'IP vient de la connexion
	TrustedProxies []string
}

// NewRouter déclare les routes ; limiter protège /auth.
func NewRouter(h *Handler, limiter *RateLimiter) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(h.TrustedProxies); err != nil {
		slog.Error("❌ Invalid trusted proxies, forwarded headers ignored", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	// --- Public ---
	auth := r.Group("/auth", limiter.Middleware())
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)

	r.GET("/themes", h.ListThemes)
	r.GET("/media/classify", h.ClassifyMedia)

	// --- Authentifié ---
	api := r.Group("/", AuthMiddleware(h.Identity))
	api.GET("/auth/next", h.NextRoute)

	api.GET("/onboarding/username", h.CheckUsername)
	api.POST("/onboarding", h.CompleteOnboarding)

	api.GET("/me", h.GetMe)
	api.PATCH("/me", h.UpdateMe)
	api.PUT("/me/password", h.ChangePassword)
	api.GET("/me/connections", h.ListConnections)

	api.POST("/posts", h.CreatePost)
	api.GET("/posts/:id", h.GetPost)
	api.PUT("/posts/:id", h.UpdatePost)
	api.DELETE("/posts/:id", h.DeletePost)

	api.GET("/feed", h.HomeFeed)

	api.GET("/users/:username", h.GetProfile)
	api.GET("/users/:username/posts", h.ListUserPosts)
	api.POST("/users/:username/connection", h.ToggleConnection)
	api.DELETE("/users/:username/connection", h.RemoveConnection)
	api.POST("/users/:username/block", h.BlockUser)

	api.GET("/settings/theme", h.GetTheme)
	api.PUT("/settings/theme", h.SetTheme)

	return r
}

// Wrap applique la chaîne : otelhttp (racine) -> CORS -> gin.
func Wrap(engine http.Handler, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "baggage", "traceparent", "tracestate"},
		AllowCredentials: true,
	})
	h := c.Handler(engine)

	return otelhttp.NewHandler(h, "pinged-api", otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))
}
