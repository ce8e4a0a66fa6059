package web

import (
    "context"
    "errors"
    "net/http"
    "net/url"
    "strings"

    "github.com/go-chi/chi/v5"
    "github.com/google/uuid"
    "github.com/gorilla/websocket"
    "github.com/rs/zerolog/log"
)

var errUnknownAction = errors.New("unknown action")

// Origins are vetted by originAllowed before upgrading.
var upgrader = websocket.Upgrader{
    CheckOrigin: func(r *http.Request) bool { return true },
}

// originAllowed accepts requests without an Origin header, origins on the
// configured list, or, when no list is configured, the serving host.
func (h *handlers) originAllowed(r *http.Request) bool {
    origin := r.Header.Get("Origin")
    if origin == "" {
        return true
    }
    if len(h.origins) > 0 {
        return h.origins[origin]
    }
    u, err := url.Parse(origin)
    return err == nil && strings.EqualFold(u.Host, r.Host)
}

// wsIn is a client message: {"action":"click","r":..,"c":..}, pixels via x/y,
// or {"action":"ack"} / {"action":"reset"}.
type wsIn struct {
    Action string `json:"action"`
    R      *int   `json:"r,omitempty"`
    C      *int   `json:"c,omitempty"`
    X      *int   `json:"x,omitempty"`
    Y      *int   `json:"y,omitempty"`
}

type wsOut struct {
    Action string     `json:"action"`
    Data   *stateView `json:"data,omitempty"`
    Error  string     `json:"error,omitempty"`
}

func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    if !h.originAllowed(r) {
        log.Warn().Str("game", id).Str("origin", r.Header.Get("Origin")).Msg("websocket origin rejected")
        http.Error(w, "forbidden origin", http.StatusForbidden)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        log.Warn().Err(err).Str("game", id).Msg("websocket upgrade failed")
        return
    }
    defer conn.Close()
    connID := uuid.NewString()
    logger := log.With().Str("game", id).Str("conn", connID).Logger()
    logger.Debug().Msg("websocket connected")

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    updates, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()

    // gorilla allows one writer; the reader hands replies to the write loop.
    replies := make(chan wsOut, 4)
    go func() {
        defer cancel()
        for {
            var msg wsIn
            if err := conn.ReadJSON(&msg); err != nil {
                logger.Debug().Err(err).Msg("websocket closed")
                return
            }
            if out, ok := h.handleWS(id, msg); ok {
                select {
                case replies <- out:
                default:
                }
            }
        }
    }()

    if gs, ok := h.svc.Get(id); ok {
        sv := newStateView(*gs)
        if err := conn.WriteJSON(wsOut{Action: "state", Data: &sv}); err != nil {
            return
        }
    }
    for {
        var out wsOut
        select {
        case <-ctx.Done():
            return
        case gs, ok := <-updates:
            if !ok {
                return
            }
            sv := newStateView(gs)
            out = wsOut{Action: "state", Data: &sv}
        case out = <-replies:
        }
        if err := conn.WriteJSON(out); err != nil {
            logger.Warn().Err(err).Msg("websocket write failed")
            return
        }
    }
}

// handleWS applies one client message. Accepted actions reach the client
// through the subscription, so only rejections produce a direct reply.
func (h *handlers) handleWS(id string, msg wsIn) (wsOut, bool) {
    var err error
    switch msg.Action {
    case "ack":
        _, err = h.svc.Ack(id)
    case "reset":
        _, err = h.svc.Reset(id)
    case "click":
        var row, col int
        var inside bool
        switch {
        case msg.X != nil && msg.Y != nil:
            row, col, inside = cellAt(*msg.X, *msg.Y, h.cellSize)
        case msg.R != nil && msg.C != nil:
            row, col, inside = *msg.R, *msg.C, true
        }
        if !inside {
            return wsOut{Action: "rejected", Error: "off board"}, true
        }
        var accepted bool
        _, accepted, err = h.svc.Click(id, row, col)
        if err == nil && !accepted {
            return wsOut{Action: "rejected", Error: "invalid selection"}, true
        }
    default:
        err = errUnknownAction
    }
    if err != nil {
        return wsOut{Action: "rejected", Error: err.Error()}, true
    }
    return wsOut{}, false
}
