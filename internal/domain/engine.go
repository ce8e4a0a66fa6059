package domain

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
    Board     Board
    Turn      Player
    Phase     Phase
    Selection *Pos
    Cycles    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithGameOver registers fn to be told the winner whenever a game ends.
// It runs before the board is reset.
func WithGameOver(fn func(winner Player)) Option {
    return func(e *Engine) {
        e.onGameOver = fn
    }
}

// Engine owns the board and the turn/phase state machine.
// It is not safe for concurrent use.
type Engine struct {
    board      Board
    turn       Player
    phase      Phase
    sel        Pos
    selected   bool
    cycles     int
    onGameOver func(Player)
}

// New returns an engine set up for a fresh game.
func New(opts ...Option) *Engine {
    e := &Engine{}
    for _, opt := range opts {
        opt(e)
    }
    e.Reset()
    return e
}

// NewFromBoard returns an engine positioned at b with turn to move.
func NewFromBoard(b Board, turn Player, opts ...Option) *Engine {
    e := New(opts...)
    e.board = b
    e.turn = turn
    return e
}

// Reset restores the starting layout with A to move.
func (e *Engine) Reset() {
    e.board = StartBoard()
    e.turn = A
    e.phase = SelectPiece
    e.selected = false
    e.sel = Pos{}
    e.cycles = 0
}

// State returns a copy of the current state.
func (e *Engine) State() Snapshot {
    s := Snapshot{Board: e.board, Turn: e.turn, Phase: e.phase, Cycles: e.cycles}
    if e.selected {
        p := e.sel
        s.Selection = &p
    }
    return s
}

// Click routes a cell selection to the handler for the current phase.
func (e *Engine) Click(row, col int) bool {
    switch e.phase {
    case SelectPiece:
        return e.SelectPiece(row, col)
    case SelectDestination:
        return e.SelectDestination(row, col)
    case SelectBlockCell:
        return e.SelectBlockCell(row, col)
    default:
        return false
    }
}

// SelectPiece picks one of the current player's pieces to move.
func (e *Engine) SelectPiece(row, col int) bool {
    p := Pos{row, col}
    if e.phase != SelectPiece || e.board.At(p) != e.turn.Piece() {
        return false
    }
    e.sel, e.selected = p, true
    e.phase = SelectDestination
    return true
}

// SelectDestination moves the selected piece, or switches the selection to
// another of the player's own pieces.
func (e *Engine) SelectDestination(row, col int) bool {
    p := Pos{row, col}
    if e.phase != SelectDestination || !e.selected {
        return false
    }
    own := e.turn.Piece()
    if e.IsLegalMove(e.sel, p) {
        e.board[p.Row][p.Col] = own
        e.board[e.sel.Row][e.sel.Col] = Empty
        e.sel = p
        e.phase = SelectBlockCell
        return true
    }
    if e.board.At(p) == own {
        e.sel = p
        return true
    }
    return false
}

// SelectBlockCell places a blocker reachable from the moved piece and ends
// the turn cycle.
func (e *Engine) SelectBlockCell(row, col int) bool {
    p := Pos{row, col}
    if e.phase != SelectBlockCell || !e.selected || !e.IsLegalMove(e.sel, p) {
        return false
    }
    e.board[p.Row][p.Col] = Blocker
    e.selected = false
    e.sel = Pos{}
    e.turn = e.turn.Opponent()
    e.phase = SelectPiece
    e.cycles++
    e.checkGameOver()
    return true
}

func (e *Engine) checkGameOver() {
    if e.HasAnyLegalMove(e.turn) {
        return
    }
    winner := e.turn.Opponent()
    if e.onGameOver != nil {
        e.onGameOver(winner)
    }
    e.Reset()
}

var directions = [8]Pos{
    {-1, -1}, {-1, 0}, {-1, 1},
    {0, -1}, {0, 1},
    {1, -1}, {1, 0}, {1, 1},
}

func sign(v int) int {
    switch {
    case v > 0:
        return 1
    case v < 0:
        return -1
    }
    return 0
}

func abs(v int) int {
    if v < 0 {
        return -v
    }
    return v
}

// IsLegalMove reports whether a queen-move from src to dst is unobstructed.
// Every cell after src up to and including dst must be empty.
func (e *Engine) IsLegalMove(src, dst Pos) bool {
    if src == dst || !src.InBounds() || !dst.InBounds() {
        return false
    }
    dr, dc := dst.Row-src.Row, dst.Col-src.Col
    if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
        return false
    }
    step := Pos{sign(dr), sign(dc)}
    for cur := src; cur != dst; {
        cur = Pos{cur.Row + step.Row, cur.Col + step.Col}
        if e.board.At(cur) != Empty {
            return false
        }
    }
    return true
}

// HasAnyLegalMove reports whether any of p's pieces can move.
//
// Only the eight neighbours are inspected. That is exact, not an
// approximation: the first step of every queen-move lands on an adjacent
// cell, so a piece with no empty neighbour has no legal move at any
// distance. Do not replace this with a reachability search.
func (e *Engine) HasAnyLegalMove(p Player) bool {
    piece := p.Piece()
    for r := range e.board {
        for c := range e.board[r] {
            if e.board[r][c] != piece {
                continue
            }
            for _, d := range directions {
                if e.board.At(Pos{r + d.Row, c + d.Col}) == Empty {
                    return true
                }
            }
        }
    }
    return false
}
