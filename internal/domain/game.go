package domain

import "strings"

// Size is the fixed board edge length.
const Size = 10

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    PieceA
    PieceB
    Blocker
)

func (c Cell) String() string {
    switch c {
    case PieceA:
        return "W"
    case PieceB:
        return "B"
    case Blocker:
        return "x"
    default:
        return "."
    }
}

// Player identifies a side. A moves first.
type Player uint8

const (
    A Player = iota
    B
)

// Piece returns the cell value holding one of the player's pieces.
func (p Player) Piece() Cell {
    if p == A {
        return PieceA
    }
    return PieceB
}

// Opponent returns the other side.
func (p Player) Opponent() Player {
    if p == A {
        return B
    }
    return A
}

func (p Player) String() string {
    if p == A {
        return "White"
    }
    return "Black"
}

// Phase governs the meaning of the next cell selection.
type Phase uint8

const (
    SelectPiece Phase = iota
    SelectDestination
    SelectBlockCell
)

func (p Phase) String() string {
    switch p {
    case SelectPiece:
        return "select-piece"
    case SelectDestination:
        return "select-destination"
    case SelectBlockCell:
        return "select-block"
    default:
        return "unknown"
    }
}

// Pos is a (row, col) board coordinate.
type Pos struct {
    Row, Col int
}

// InBounds reports whether p lies on the board.
func (p Pos) InBounds() bool {
    return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Board is a fixed 10x10 grid indexed [row][col].
type Board [Size][Size]Cell

// At returns the cell at p, or Blocker when p is off the board.
func (b Board) At(p Pos) Cell {
    if !p.InBounds() {
        return Blocker
    }
    return b[p.Row][p.Col]
}

// Count returns the number of cells holding c.
func (b Board) Count(c Cell) int {
    n := 0
    for r := range b {
        for col := range b[r] {
            if b[r][col] == c {
                n++
            }
        }
    }
    return n
}

func (b Board) String() string {
    var sb strings.Builder
    for r := range b {
        for c := range b[r] {
            sb.WriteString(b[r][c].String())
        }
        sb.WriteByte('\n')
    }
    return sb.String()
}

var (
    startB = [4]Pos{{0, 3}, {0, 6}, {3, 0}, {3, 9}}
    startA = [4]Pos{{6, 0}, {6, 9}, {9, 3}, {9, 6}}
)

// StartBoard returns the canonical starting layout.
func StartBoard() Board {
    var b Board
    for _, p := range startB {
        b[p.Row][p.Col] = PieceB
    }
    for _, p := range startA {
        b[p.Row][p.Col] = PieceA
    }
    return b
}
