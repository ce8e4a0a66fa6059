package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/amazons/internal/app"
    "github.com/jaminalder/amazons/internal/config"
)

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, cfg config.Config) http.Handler {
    if cfg.CellSize <= 0 {
        cfg.CellSize = 60
    }
    if cfg.Heartbeat <= 0 {
        cfg.Heartbeat = 15 * time.Second
    }
    r := chi.NewRouter()
    h := &handlers{svc: s, tpl: loadTemplates(), cellSize: cfg.CellSize, heartbeat: cfg.Heartbeat, origins: map[string]bool{}}
    for _, o := range cfg.Origins {
        h.origins[o] = true
    }
    r.Get("/", h.index)
    r.Get("/health", h.health)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Get("/state", h.state)
        r.Post("/click", h.click)
        r.Post("/ack", h.ack)
        r.Post("/reset", h.reset)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}
