package web

import (
    "github.com/jaminalder/amazons/internal/app"
    "github.com/jaminalder/amazons/internal/domain"
)

// cellAt maps pointer pixels on the board to a cell. Points off the board
// report ok == false.
func cellAt(x, y, cellSize int) (r, c int, ok bool) {
    if x < 0 || y < 0 || cellSize <= 0 {
        return 0, 0, false
    }
    r, c = y/cellSize, x/cellSize
    if !(domain.Pos{Row: r, Col: c}).InBounds() {
        return 0, 0, false
    }
    return r, c, true
}

type cellView struct {
    Row, Col int
    Dark     bool
    Selected bool
    Content  string
}

type boardView struct {
    ID       string
    CellSize int
    Rows     [domain.Size][domain.Size]cellView
    Turn     string
    Phase    string
    Winner   string
    Played   int
    Error    string
}

func newBoardView(gs app.GameState, cellSize int, errMsg string) boardView {
    v := boardView{
        ID:       gs.ID,
        CellSize: cellSize,
        Turn:     gs.Game.Turn.String(),
        Phase:    gs.Game.Phase.String(),
        Played:   gs.Played,
        Error:    errMsg,
    }
    if gs.Winner != nil {
        v.Winner = gs.Winner.String()
    }
    sel := gs.Game.Selection
    for r := range gs.Game.Board {
        for c, cell := range gs.Game.Board[r] {
            v.Rows[r][c] = cellView{
                Row:      r,
                Col:      c,
                Dark:     (r+c)%2 == 1,
                Selected: sel != nil && sel.Row == r && sel.Col == c,
                Content:  contentClass(cell),
            }
        }
    }
    return v
}

func contentClass(c domain.Cell) string {
    switch c {
    case domain.PieceA:
        return "white"
    case domain.PieceB:
        return "black"
    case domain.Blocker:
        return "blocker"
    default:
        return ""
    }
}

// stateView is the JSON form of a session.
type stateView struct {
    ID        string     `json:"id"`
    Board     [][]string `json:"board"`
    Turn      string     `json:"turn"`
    Phase     string     `json:"phase"`
    Selection *[2]int    `json:"selection,omitempty"`
    Cycles    int        `json:"cycles"`
    Winner    string     `json:"winner,omitempty"`
    Played    int        `json:"played"`
}

func newStateView(gs app.GameState) stateView {
    v := stateView{
        ID:     gs.ID,
        Board:  make([][]string, domain.Size),
        Turn:   gs.Game.Turn.String(),
        Phase:  gs.Game.Phase.String(),
        Cycles: gs.Game.Cycles,
        Played: gs.Played,
    }
    for r := range gs.Game.Board {
        v.Board[r] = make([]string, domain.Size)
        for c, cell := range gs.Game.Board[r] {
            v.Board[r][c] = cell.String()
        }
    }
    if sel := gs.Game.Selection; sel != nil {
        v.Selection = &[2]int{sel.Row, sel.Col}
    }
    if gs.Winner != nil {
        v.Winner = gs.Winner.String()
    }
    return v
}
