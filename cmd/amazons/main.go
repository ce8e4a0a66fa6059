package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jaminalder/amazons/internal/app"
    "github.com/jaminalder/amazons/internal/config"
    "github.com/jaminalder/amazons/internal/web"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

func main() {
    cfg := config.Load()
    zerolog.SetGlobalLevel(cfg.LogLevel)
    log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

    svc := app.NewService()
    srv := &http.Server{
        Addr:              cfg.HTTPAddr,
        Handler:           web.NewServer(svc, cfg),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    go func() {
        <-ctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        if err := srv.Shutdown(shutdownCtx); err != nil {
            log.Warn().Err(err).Msg("shutdown")
        }
    }()

    log.Info().Str("addr", cfg.HTTPAddr).Int("cell_size", cfg.CellSize).Msg("listening")
    if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.Fatal().Err(err).Msg("server failed")
    }
}
