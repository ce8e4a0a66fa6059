package app

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/jaminalder/amazons/internal/domain"
    "github.com/rs/zerolog/log"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrOutOfBounds = errors.New("out of bounds")
    ErrAwaitingAck = errors.New("game over not acknowledged")
)

// GameState is a copy of one board session.
type GameState struct {
    ID   string
    Game domain.Snapshot
    // Winner is set while a game-over notice waits for acknowledgement.
    Winner  *domain.Player
    Played  int
    Created time.Time
    Updated time.Time
}

type session struct {
    id      string
    engine  *domain.Engine
    winner  *domain.Player
    played  int
    created time.Time
    updated time.Time
}

func (ss *session) snapshot() GameState {
    gs := GameState{
        ID:      ss.id,
        Game:    ss.engine.State(),
        Played:  ss.played,
        Created: ss.created,
        Updated: ss.updated,
    }
    if ss.winner != nil {
        w := *ss.winner
        gs.Winner = &w
    }
    return gs
}

type subscriber struct {
    ch        chan GameState
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages board sessions and their subscribers.
type Service struct {
    mu    sync.Mutex
    games map[string]*session
    subs  map[string]map[*subscriber]struct{}
}

// NewService returns an empty service.
func NewService() *Service {
    return &Service{
        games: make(map[string]*session),
        subs:  make(map[string]map[*subscriber]struct{}),
    }
}

func (s *Service) newSessionLocked(id string) *session {
    now := time.Now()
    ss := &session{id: id, created: now, updated: now}
    ss.engine = domain.New(domain.WithGameOver(func(w domain.Player) {
        ss.winner = &w
        ss.played++
        log.Info().Str("game", id).Stringer("winner", w).Int("played", ss.played).Msg("game over")
    }))
    s.games[id] = ss
    return ss
}

// CreateGame creates and registers a new board session.
func (s *Service) CreateGame() (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    ss := s.newSessionLocked(uuid.NewString())
    log.Info().Str("game", ss.id).Msg("game created")
    gs := ss.snapshot()
    return &gs, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    ss, ok := s.games[id]
    if !ok {
        return nil, false
    }
    gs := ss.snapshot()
    return &gs, true
}

// Click forwards a cell selection to the session's engine. The bool reports
// whether the engine accepted it; rejected selections still return the state.
func (s *Service) Click(id string, r, c int) (*GameState, bool, error) {
    s.mu.Lock()
    ss, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, false, ErrNotFound
    }
    if ss.winner != nil {
        gs := ss.snapshot()
        s.mu.Unlock()
        return &gs, false, ErrAwaitingAck
    }
    if !(domain.Pos{Row: r, Col: c}).InBounds() {
        gs := ss.snapshot()
        s.mu.Unlock()
        return &gs, false, ErrOutOfBounds
    }
    accepted := ss.engine.Click(r, c)
    if !accepted {
        gs := ss.snapshot()
        s.mu.Unlock()
        log.Debug().Str("game", id).Int("r", r).Int("c", c).Msg("selection rejected")
        return &gs, false, nil
    }
    ss.updated = time.Now()
    gs := s.publishLocked(ss)
    return &gs, true, nil
}

// Ack clears a pending game-over notice so input resumes on the fresh board.
func (s *Service) Ack(id string) (*GameState, error) {
    s.mu.Lock()
    ss, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if ss.winner == nil {
        gs := ss.snapshot()
        s.mu.Unlock()
        return &gs, nil
    }
    ss.winner = nil
    ss.updated = time.Now()
    gs := s.publishLocked(ss)
    return &gs, nil
}

// Reset abandons the current game and starts over on the canonical board.
func (s *Service) Reset(id string) (*GameState, error) {
    s.mu.Lock()
    ss, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    ss.engine.Reset()
    ss.winner = nil
    ss.updated = time.Now()
    log.Info().Str("game", id).Msg("game reset")
    gs := s.publishLocked(ss)
    return &gs, nil
}

// publishLocked snapshots ss, fans it out and releases the lock.
// Sends never block, so the lock is held for the whole fan-out.
func (s *Service) publishLocked(ss *session) GameState {
    defer s.mu.Unlock()
    gs := ss.snapshot()
    dropped := 0
    for sub := range s.subs[ss.id] {
        select {
        case sub.ch <- gs:
        default:
            // drop slow subscriber
            delete(s.subs[ss.id], sub)
            sub.close()
            dropped++
        }
    }
    if dropped > 0 {
        log.Warn().Str("game", ss.id).Int("dropped", dropped).Msg("dropped slow subscribers")
    }
    return gs
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
// Unknown ids get an already closed channel.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        ch := make(chan GameState)
        close(ch)
        return ch, func() {}
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan GameState, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            defer s.mu.Unlock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}
