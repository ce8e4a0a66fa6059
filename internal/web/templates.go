package web

import (
    "bytes"
    "html/template"
    "net/http"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "mul": func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Game of the Amazons</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>` + boardCSS + `</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Game of the Amazons</h1>{{if .}}<p><a href="/game/{{.}}">Resume board</a></p>{{end}}<form action="/game" method="post"><button>New board</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div id="board-frame" sse-swap="board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardCSS = `
.grid { position: relative; display: grid; grid-template-columns: repeat(10, 1fr); cursor: pointer; }
.cell { box-sizing: border-box; pointer-events: none; display: flex; align-items: center; justify-content: center; background: rgb(240,217,181); }
.cell.dark { background: rgb(181,136,99); }
.cell.sel { box-shadow: inset 0 0 0 100px rgba(255,255,0,0.47); }
.white, .black { width: 76%; height: 76%; border-radius: 50%; border: 1px solid darkgray; }
.white { background: white; }
.black { background: black; }
.blocker { width: 33%; height: 33%; background: red; border: 1px solid black; }
`

// The grid posts pointer offsets; the server maps them to cells.
const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">{{.Turn}} to play ({{.Phase}}) &middot; games finished: {{.Played}}</p>
  <div class="grid" style="width: {{mul .CellSize 10}}px; height: {{mul .CellSize 10}}px"
       hx-post="/game/{{.ID}}/click" hx-trigger="click" hx-target="#board" hx-swap="outerHTML"
       hx-vals='js:{x: event.offsetX, y: event.offsetY}'>
    {{range .Rows}}{{range .}}
    <div class="cell{{if .Dark}} dark{{end}}{{if .Selected}} sel{{end}}" data-r="{{.Row}}" data-c="{{.Col}}">
      {{if .Content}}<span class="{{.Content}}"></span>{{end}}
    </div>
    {{end}}{{end}}
  </div>
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML"><button>Restart</button></form>
  {{if .Winner}}
  <dialog open id="game-over">
    <p>Game Over: {{.Winner}} wins!</p>
    <form hx-post="/game/{{.ID}}/ack" hx-target="#board" hx-swap="outerHTML"><button>OK</button></form>
  </dialog>
  {{end}}
</div>
`

const boardCookie = "board_id"

// lastBoard returns the board session remembered for this browser, if any.
func lastBoard(r *http.Request) string {
    if c, err := r.Cookie(boardCookie); err == nil {
        return c.Value
    }
    return ""
}

func rememberBoard(w http.ResponseWriter, id string) {
    http.SetCookie(w, &http.Cookie{Name: boardCookie, Value: id, Path: "/", HttpOnly: true})
}
