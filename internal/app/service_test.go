package app

import (
    "context"
    "testing"
    "time"

    "github.com/jaminalder/amazons/internal/domain"
    "github.com/stretchr/testify/require"
)

// clicks applies a sequence of accepted selections.
func clicks(t *testing.T, s *Service, id string, cells [][2]int) *GameState {
    t.Helper()
    var gs *GameState
    for i, c := range cells {
        var ok bool
        var err error
        gs, ok, err = s.Click(id, c[0], c[1])
        require.NoError(t, err, "click %d %v", i, c)
        require.True(t, ok, "click %d %v rejected", i, c)
    }
    return gs
}

// forceGameOver drives the session to a win for B by swapping in a cornered
// position and playing B's last cycle.
func forceGameOver(t *testing.T, s *Service, id string) *GameState {
    t.Helper()
    var b domain.Board
    for _, p := range []domain.Pos{{Row: 0, Col: 0}, {Row: 0, Col: 9}, {Row: 9, Col: 0}, {Row: 9, Col: 9}} {
        b[p.Row][p.Col] = domain.PieceA
    }
    for _, p := range [][2]int{{0, 1}, {1, 0}, {1, 1}, {0, 8}, {1, 8}, {1, 9}, {8, 0}, {8, 1}, {9, 1}, {8, 8}, {8, 9}, {9, 8}} {
        b[p[0]][p[1]] = domain.Blocker
    }
    for c := 2; c < 6; c++ {
        b[5][c] = domain.PieceB
    }
    s.mu.Lock()
    ss := s.games[id]
    fresh := domain.NewFromBoard(b, domain.B, domain.WithGameOver(func(w domain.Player) {
        ss.winner = &w
        ss.played++
    }))
    ss.engine = fresh
    s.mu.Unlock()
    return clicks(t, s, id, [][2]int{{5, 2}, {6, 2}, {7, 2}})
}

func TestCreateAndGet(t *testing.T) {
    s := NewService()
    gs, err := s.CreateGame()
    require.NoError(t, err)
    require.NotEmpty(t, gs.ID)
    require.Equal(t, domain.A, gs.Game.Turn)
    require.Equal(t, domain.StartBoard(), gs.Game.Board)
    require.Nil(t, gs.Winner)
    require.False(t, gs.Created.IsZero())
    require.False(t, gs.Updated.IsZero())

    got, ok := s.Get(gs.ID)
    require.True(t, ok)
    require.Equal(t, gs.ID, got.ID)

    _, ok = s.Get("missing")
    require.False(t, ok)
}

func TestClickAppliesCycle(t *testing.T) {
    s := NewService()
    gs, _ := s.CreateGame()
    st := clicks(t, s, gs.ID, [][2]int{{6, 0}, {6, 5}, {5, 5}})
    require.Equal(t, domain.B, st.Game.Turn)
    require.Equal(t, domain.PieceA, st.Game.Board[6][5])
    require.Equal(t, domain.Blocker, st.Game.Board[5][5])
    require.Equal(t, 1, st.Game.Cycles)
}

func TestClickRejections(t *testing.T) {
    s := NewService()
    gs, _ := s.CreateGame()

    _, _, err := s.Click("missing", 0, 0)
    require.ErrorIs(t, err, ErrNotFound)

    st, ok, err := s.Click(gs.ID, 10, 0)
    require.ErrorIs(t, err, ErrOutOfBounds)
    require.False(t, ok)
    require.Equal(t, domain.SelectPiece, st.Game.Phase)

    // opponent piece: rejected without error
    st, ok, err = s.Click(gs.ID, 0, 3)
    require.NoError(t, err)
    require.False(t, ok)
    require.Nil(t, st.Game.Selection)
}

func TestGameOverNeedsAck(t *testing.T) {
    s := NewService()
    gs, _ := s.CreateGame()
    st := forceGameOver(t, s, gs.ID)
    require.NotNil(t, st.Winner)
    require.Equal(t, domain.B, *st.Winner)
    require.Equal(t, 1, st.Played)
    require.Equal(t, domain.StartBoard(), st.Game.Board)

    _, ok, err := s.Click(gs.ID, 6, 0)
    require.ErrorIs(t, err, ErrAwaitingAck)
    require.False(t, ok)

    st, err = s.Ack(gs.ID)
    require.NoError(t, err)
    require.Nil(t, st.Winner)

    _, ok, err = s.Click(gs.ID, 6, 0)
    require.NoError(t, err)
    require.True(t, ok)

    _, err = s.Ack("missing")
    require.ErrorIs(t, err, ErrNotFound)
}

func TestReset(t *testing.T) {
    s := NewService()
    gs, _ := s.CreateGame()
    clicks(t, s, gs.ID, [][2]int{{6, 0}, {6, 5}})
    st, err := s.Reset(gs.ID)
    require.NoError(t, err)
    require.Equal(t, domain.StartBoard(), st.Game.Board)
    require.Equal(t, domain.SelectPiece, st.Game.Phase)
    require.Nil(t, st.Game.Selection)

    _, err = s.Reset("missing")
    require.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribeAndBroadcast(t *testing.T) {
    s := NewService()
    gs, _ := s.CreateGame()

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    ch, unsub := s.Subscribe(ctx, gs.ID)
    defer unsub()

    clicks(t, s, gs.ID, [][2]int{{6, 0}})

    select {
    case st, ok := <-ch:
        require.True(t, ok, "channel closed unexpectedly")
        require.Equal(t, domain.SelectDestination, st.Game.Phase)
        require.Equal(t, domain.Pos{Row: 6, Col: 0}, *st.Game.Selection)
    case <-ctx.Done():
        t.Fatalf("timed out waiting for broadcast")
    }
}

func TestRejectedClickDoesNotBroadcast(t *testing.T) {
    s := NewService()
    gs, _ := s.CreateGame()
    ch, unsub := s.Subscribe(context.Background(), gs.ID)
    defer unsub()

    _, ok, _ := s.Click(gs.ID, 5, 5)
    require.False(t, ok)
    select {
    case <-ch:
        t.Fatalf("unexpected broadcast for rejected click")
    default:
    }
}

func TestDropSlowSubscriber(t *testing.T) {
    s := NewService()
    gs, _ := s.CreateGame()

    // Slow subscriber: never read
    slowCh, _ := s.Subscribe(context.Background(), gs.ID)

    ctxFast, cancelFast := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancelFast()
    fastCh, unsubFast := s.Subscribe(ctxFast, gs.ID)
    defer unsubFast()

    clicks(t, s, gs.ID, [][2]int{{6, 0}})
    <-fastCh
    clicks(t, s, gs.ID, [][2]int{{6, 5}})
    <-fastCh

    // first update is buffered, the second closes the channel
    _, ok := <-slowCh
    require.True(t, ok)
    _, ok = <-slowCh
    require.False(t, ok, "slow subscriber should be closed")
}

func TestUnsubscribeClosesChannel(t *testing.T) {
    s := NewService()
    gs, _ := s.CreateGame()
    ctx, cancel := context.WithCancel(context.Background())
    ch, _ := s.Subscribe(ctx, gs.ID)
    cancel()
    require.Eventually(t, func() bool {
        select {
        case _, open := <-ch:
            return !open
        default:
            return false
        }
    }, time.Second, 10*time.Millisecond)
}

func TestSubscribeUnknownGame(t *testing.T) {
    s := NewService()
    ch, unsub := s.Subscribe(context.Background(), "missing")
    defer unsub()
    _, open := <-ch
    require.False(t, open, "channel for unknown game should be closed")
    _, ok := s.Get("missing")
    require.False(t, ok, "subscribe must not create a session")
}
