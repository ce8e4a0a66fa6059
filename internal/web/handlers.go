package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/jaminalder/amazons/internal/app"
    "github.com/jaminalder/amazons/internal/domain"
    "github.com/rs/zerolog/log"
)

type handlers struct {
    svc       *app.Service
    tpl       *templates
    cellSize  int
    heartbeat time.Duration
    origins   map[string]bool
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, h.cellSize, errMsg))
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    var resume string
    if id := lastBoard(r); id != "" {
        if _, ok := h.svc.Get(id); ok {
            resume = id
        }
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", resume))
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write([]byte("ok"))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.CreateGame()
    if err != nil {
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    rememberBoard(w, gs.ID)
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    rememberBoard(w, gs.ID)
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.game, "", newBoardView(*gs, h.cellSize, "")))
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(newStateView(*gs))
}

// parseCell reads either cell coordinates (r, c) or pointer pixels (x, y).
// ok is false for missing or off-board input.
func (h *handlers) parseCell(r *http.Request) (row, col int, ok bool) {
    _ = r.ParseForm()
    if xs, ys := r.Form.Get("x"), r.Form.Get("y"); xs != "" && ys != "" {
        x, errX := strconv.Atoi(xs)
        y, errY := strconv.Atoi(ys)
        if errX != nil || errY != nil {
            return 0, 0, false
        }
        return cellAt(x, y, h.cellSize)
    }
    ri, errR := strconv.Atoi(r.Form.Get("r"))
    ci, errC := strconv.Atoi(r.Form.Get("c"))
    if errR != nil || errC != nil || !(domain.Pos{Row: ri, Col: ci}).InBounds() {
        return 0, 0, false
    }
    return ri, ci, true
}

func clickError(accepted bool, err error) string {
    switch {
    case accepted:
        return ""
    case errors.Is(err, app.ErrAwaitingAck):
        return "Game over, acknowledge to continue"
    case errors.Is(err, app.ErrOutOfBounds):
        return "Out of bounds"
    default:
        return "Invalid selection"
    }
}

func (h *handlers) click(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    row, col, ok := h.parseCell(r)
    if !ok {
        // off-board pointer input is ignored
        h.writeBoard(w, *gs, "")
        return
    }
    st, accepted, err := h.svc.Click(id, row, col)
    if errors.Is(err, app.ErrNotFound) {
        http.NotFound(w, r)
        return
    }
    if st == nil {
        st = gs
    }
    h.writeBoard(w, *st, clickError(accepted, err))
}

func (h *handlers) ack(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.Ack(chi.URLParam(r, "id"))
    if err != nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, "")
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.Reset(chi.URLParam(r, "id"))
    if err != nil {
        http.NotFound(w, r)
        return
    }
    h.writeBoard(w, *gs, "")
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    flusher.Flush()
    log.Debug().Str("game", id).Msg("sse subscriber connected")
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case gs, ok := <-ch:
            if !ok {
                return
            }
            _, _ = fmt.Fprintf(w, "event: board\n")
            _, _ = fmt.Fprintf(w, "data: %s\n\n", sseData(h.renderBoard(gs, "")))
            flusher.Flush()
        }
    }
}

// sseData folds a multi-line payload into continuation data lines.
func sseData(b []byte) string {
    return strings.ReplaceAll(strings.TrimSpace(string(b)), "\n", "\ndata: ")
}
