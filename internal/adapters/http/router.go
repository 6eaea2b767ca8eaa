package http

import (
	"context"

	"github.com/dkeye/Consult/internal/adapters/signal"
	"github.com/dkeye/Consult/internal/app/orch"
	"github.com/dkeye/Consult/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const sessionName = "ConsultSessions"

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, h *Handlers) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cookieKey(cfg)))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24, HttpOnly: true})
	r.Use(sessions.Sessions(sessionName, store))

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	r.POST("/validate-link", h.ValidateLink)
	r.GET("/user-link", h.UserLink)

	ctrl := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:          cfg.ReadLimit,
		PingPeriod:         cfg.PingPeriod,
		SendBuffer:         cfg.SendBuffer,
		MaxEventsPerSecond: cfg.MaxEventsPerSecond,
		AllowedOrigin:      cfg.FrontendURL,
	})

	api := r.Group("/api")
	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	v1 := api.Group("/v1")
	v1.POST("/links", h.CreateLinks)
	v1.GET("/whoami", h.WhoAmI)
	v1.GET("/ice-servers", h.ICE)

	return r
}

func cookieKey(cfg *config.Config) string {
	if cfg.Secret != "" {
		return cfg.Secret
	}
	log.Warn().Str("module", "adapters.http").Msg("secret not set, cookie store keyed by link_secret")
	return cfg.LinkSecret
}
