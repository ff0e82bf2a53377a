package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jamwave/jamroom/internal/adapters/signal"
	"github.com/jamwave/jamroom/internal/config"
	"github.com/jamwave/jamroom/internal/core"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags each browser with a stable token for log
// correlation only; room identity stays connection-scoped.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, registry *core.Registry) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("JamroomSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctrl := signal.NewController(registry, cfg.ReadLimit, cfg.SendBuffer, cfg.WriteWait)

	api := r.Group("/api")

	api.GET("/ws/room", func(c *gin.Context) {
		ctrl.HandleRoom(ctx, c)
	})

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.List())
	})

	// The session remembers the last display name so a join without one
	// still gets a familiar handle.
	api.GET("/profile", func(c *gin.Context) {
		name, _ := sessions.Default(c).Get(signal.SessionNameKey).(string)
		c.JSON(http.StatusOK, gin.H{"name": name})
	})
	api.POST("/profile", func(c *gin.Context) {
		var body struct {
			Name string `json:"name" binding:"required,max=36"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
			return
		}
		s := sessions.Default(c)
		s.Set(signal.SessionNameKey, body.Name)
		if err := s.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"name": body.Name})
	})

	return r
}
