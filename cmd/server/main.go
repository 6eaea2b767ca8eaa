package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Consult/internal/adapters/http"
	"github.com/dkeye/Consult/internal/app"
	"github.com/dkeye/Consult/internal/app/orch"
	"github.com/dkeye/Consult/internal/auth"
	"github.com/dkeye/Consult/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	codec := auth.NewCodec(cfg.LinkSecret,
		auth.WithGraceWindow(cfg.TokenGraceWindow),
		auth.WithMinTTL(cfg.MinTokenTTL),
	)
	o := orch.New(codec, cfg.GracePeriod)
	defer o.Close()

	appts, err := cfg.AppointmentList()
	if err != nil {
		log.Fatal().Err(err).Msg("bad appointments")
	}
	handlers := &router.Handlers{
		Tokens:       codec,
		Links:        app.NewLinkIssuer(codec, cfg.FrontendURL),
		Appointments: app.NewAppointmentBook(appts),
		ICEServers:   cfg.WebRTCICEServers(),
	}

	r := router.SetupRouter(ctx, cfg, o, handlers)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Consult signaling server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
