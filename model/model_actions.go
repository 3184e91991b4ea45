package model

import (
	"math/rand"
	"time"
)

// Engine is the state machine of one board. It is not safe for concurrent
// use, its driver calls one operation at a time.
type Engine struct {
	grid     Grid
	start    Grid
	piece    Piece
	hasPiece bool
	status   Status
	groups   []Group
	pending  Group
	chain    int
	cleared  bool
	events   []Event

	palette []Color
	rnd     *rand.Rand
}

type Option func(e *Engine)

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rnd = r
	}
}

// WithPalette limits the spawn colors. Colors outside of Palette are
// dropped, a palette left empty keeps the default one.
func WithPalette(p []Color) Option {
	return func(e *Engine) {
		palette := make([]Color, 0, len(p))
		for _, c := range p {
			if c > COLOR_NONE && c <= COLOR_PURPLE {
				palette = append(palette, c)
			}
		}
		if len(palette) > 0 {
			e.palette = palette
		}
	}
}

// WithGrid starts the engine (and every Reset) from a preset board. The
// preset decides the board dimensions.
func WithGrid(g Grid) Option {
	return func(e *Engine) {
		e.start = g.Clone()
	}
}

func NewEngine(cols, rows int, opts ...Option) *Engine {
	e := &Engine{
		start:   NewGrid(cols, rows),
		palette: Palette,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.Reset()
	return e
}

func (e *Engine) Reset() {
	e.grid = e.start.Clone()
	e.piece = Piece{}
	e.hasPiece = false
	e.status = ST_PLAYING
	e.groups = nil
	e.pending = nil
	e.chain = 0
	e.cleared = false
	e.emit(Event{Kind: EV_RESET})
}

// Tick is the gravity step. It spawns when no piece is live, otherwise it
// moves the piece one row down or locks it.
func (e *Engine) Tick() {
	if e.status != ST_PLAYING || len(e.pending) > 0 {
		return
	}
	if !e.hasPiece {
		e.spawn()
		return
	}
	below := Coord{Col: e.piece.Col, Row: e.piece.Row + 1}
	if e.grid.Free(below) {
		e.piece.Row++
		e.emit(Event{Kind: EV_MOVE, Piece: e.piece})
		return
	}
	e.lock()
}

func (e *Engine) MoveLeft() {
	e.shift(-1)
}

func (e *Engine) MoveRight() {
	e.shift(1)
}

func (e *Engine) shift(dc int) {
	if !e.active() {
		return
	}
	next := Coord{Col: e.piece.Col + dc, Row: e.piece.Row}
	if !e.grid.Free(next) {
		return
	}
	e.piece.Col = next.Col
	e.emit(Event{Kind: EV_MOVE, Piece: e.piece})
}

// HardDrop moves the piece to its resting row and locks it in one step.
func (e *Engine) HardDrop() {
	if !e.active() {
		return
	}
	for e.grid.Free(Coord{Col: e.piece.Col, Row: e.piece.Row + 1}) {
		e.piece.Row++
	}
	e.lock()
}

// CommitRemoval empties the pending cells, lets the columns fall and looks
// for the next link of the chain.
func (e *Engine) CommitRemoval() {
	if len(e.pending) == 0 {
		return
	}
	removed := e.pending
	e.grid = Gravity(Remove(e.grid, removed))
	e.pending = nil
	e.chain++
	e.cleared = true
	e.emit(Event{Kind: EV_CLEAR, Cells: removed, Chain: e.chain})
	e.check()
}

// Settle commits until the board has nothing left to clear.
func (e *Engine) Settle() {
	for len(e.pending) > 0 {
		e.CommitRemoval()
	}
}

func (e *Engine) Apply(c Command) {
	switch c {
	case CMD_LEFT:
		e.MoveLeft()
	case CMD_RIGHT:
		e.MoveRight()
	case CMD_DROP:
		e.HardDrop()
	case CMD_TICK:
		e.Tick()
	case CMD_COMMIT:
		e.CommitRemoval()
	case CMD_RESET:
		e.Reset()
	}
}

func (e *Engine) active() bool {
	return e.status == ST_PLAYING && e.hasPiece
}

func (e *Engine) spawn() {
	p := Piece{
		Col:   e.grid.Cols / 2,
		Row:   0,
		Color: e.palette[e.rnd.Intn(len(e.palette))],
	}
	if !e.grid.Free(Coord{Col: p.Col, Row: p.Row}) {
		e.status = ST_GAME_OVER
		e.emit(Event{Kind: EV_GAME_OVER})
		return
	}
	e.piece = p
	e.hasPiece = true
	e.emit(Event{Kind: EV_SPAWN, Piece: p})
}

func (e *Engine) lock() {
	e.grid = e.grid.Clone()
	e.grid.Cells[e.piece.Row][e.piece.Col] = e.piece.Color
	e.hasPiece = false
	e.chain = 0
	e.cleared = false
	e.emit(Event{Kind: EV_LOCK, Piece: e.piece})
	e.check()
}

func (e *Engine) check() {
	clear, groups := FindGroups(e.grid)
	e.groups = groups
	if len(clear) > 0 {
		e.pending = clear
		e.emit(Event{Kind: EV_PENDING, Cells: clear, Chain: e.chain + 1})
	}
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

// Events returns and forgets everything emitted since the last call.
func (e *Engine) Events() []Event {
	evs := e.events
	e.events = nil
	return evs
}

func (e *Engine) Grid() Grid {
	return e.grid.Clone()
}

func (e *Engine) Piece() (Piece, bool) {
	return e.piece, e.hasPiece
}

func (e *Engine) Status() Status {
	return e.status
}

func (e *Engine) Groups() []Group {
	return append([]Group(nil), e.groups...)
}

func (e *Engine) Pending() Group {
	return append(Group(nil), e.pending...)
}

// Chain is the number of clears since the last lock.
func (e *Engine) Chain() int {
	return e.chain
}

// Cleared reports whether anything was removed since the last lock.
func (e *Engine) Cleared() bool {
	return e.cleared
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Grid:     e.Grid(),
		Piece:    e.piece,
		HasPiece: e.hasPiece,
		Status:   e.status,
		Groups:   e.Groups(),
		Pending:  e.Pending(),
		Chain:    e.chain,
	}
}
