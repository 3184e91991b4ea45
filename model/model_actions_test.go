package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, g Grid, palette ...Color) *Engine {
	t.Helper()
	if len(palette) == 0 {
		palette = []Color{COLOR_RED}
	}
	return NewEngine(g.Cols, g.Rows,
		WithGrid(g),
		WithPalette(palette),
		WithRand(rand.New(rand.NewSource(1))))
}

func kinds(evs []Event) []EventKind {
	out := []EventKind{}
	for _, ev := range evs {
		out = append(out, ev.Kind)
	}
	return out
}

func TestNewEngineIsEmpty(t *testing.T) {
	e := NewEngine(DefaultCols, DefaultRows)
	g := e.Grid()
	assert.Equal(t, DefaultCols, g.Cols)
	assert.Equal(t, DefaultRows, g.Rows)
	assert.Equal(t, 0, g.Occupied())
	assert.Equal(t, ST_PLAYING, e.Status())
	_, ok := e.Piece()
	assert.False(t, ok)
}

func TestTickSpawnsThenFalls(t *testing.T) {
	e := newTestEngine(t, NewGrid(DefaultCols, DefaultRows))
	e.Events()

	e.Tick()
	p, ok := e.Piece()
	require.True(t, ok)
	assert.Equal(t, Piece{Col: 3, Row: 0, Color: COLOR_RED}, p)

	e.Tick()
	p, _ = e.Piece()
	assert.Equal(t, 1, p.Row)
	assert.Equal(t, []EventKind{EV_SPAWN, EV_MOVE}, kinds(e.Events()))
}

func TestSpawnColorFromPalette(t *testing.T) {
	palette := []Color{COLOR_BLUE, COLOR_YELLOW}
	for i := 0; i < 20; i++ {
		e := NewEngine(DefaultCols, DefaultRows, WithPalette(palette), WithRand(rand.New(rand.NewSource(int64(i)))))
		e.Tick()
		p, ok := e.Piece()
		require.True(t, ok)
		assert.Contains(t, palette, p.Color)
	}
}

func TestEmptyPaletteKeepsDefault(t *testing.T) {
	e := NewEngine(DefaultCols, DefaultRows, WithPalette(nil), WithRand(rand.New(rand.NewSource(1))))
	require.NotPanics(t, e.Tick)
	p, ok := e.Piece()
	require.True(t, ok)
	assert.Contains(t, Palette, p.Color)
}

func TestPaletteDropsNone(t *testing.T) {
	e := NewEngine(DefaultCols, DefaultRows,
		WithPalette([]Color{COLOR_NONE}),
		WithRand(rand.New(rand.NewSource(1))))
	e.Tick()
	p, ok := e.Piece()
	require.True(t, ok)
	assert.NotEqual(t, COLOR_NONE, p.Color)
	e.HardDrop()
	assert.Equal(t, 1, e.Grid().Occupied())

	e = NewEngine(DefaultCols, DefaultRows,
		WithPalette([]Color{COLOR_NONE, COLOR_BLUE, Color(9)}),
		WithRand(rand.New(rand.NewSource(1))))
	for i := 0; i < 10; i++ {
		e.Reset()
		e.Tick()
		p, _ := e.Piece()
		assert.Equal(t, COLOR_BLUE, p.Color)
	}
}

func TestTickLocksOnFloor(t *testing.T) {
	e := newTestEngine(t, NewGrid(DefaultCols, DefaultRows))
	e.Tick()
	for i := 0; i < DefaultRows-1; i++ {
		e.Tick()
	}
	p, ok := e.Piece()
	require.True(t, ok)
	assert.Equal(t, DefaultRows-1, p.Row)

	e.Tick()
	_, ok = e.Piece()
	assert.False(t, ok)
	assert.Equal(t, COLOR_RED, e.Grid().Cells[DefaultRows-1][3])
}

func TestTickLocksOnStack(t *testing.T) {
	e := newTestEngine(t, board(t, "...B.."), COLOR_RED)
	e.Tick()
	for i := 0; i < DefaultRows-2; i++ {
		e.Tick()
	}
	e.Tick()
	_, ok := e.Piece()
	assert.False(t, ok)
	assert.Equal(t, COLOR_RED, e.Grid().Cells[DefaultRows-2][3])
}

func TestMoveBounds(t *testing.T) {
	e := newTestEngine(t, NewGrid(DefaultCols, DefaultRows))
	e.Tick()
	for i := 0; i < 10; i++ {
		e.MoveLeft()
	}
	p, _ := e.Piece()
	assert.Equal(t, 0, p.Col)
	for i := 0; i < 10; i++ {
		e.MoveRight()
	}
	p, _ = e.Piece()
	assert.Equal(t, DefaultCols-1, p.Col)
}

func TestMoveBlockedBySettledCell(t *testing.T) {
	g := NewGrid(DefaultCols, DefaultRows)
	g.Cells[0][2] = COLOR_BLUE
	g.Cells[0][4] = COLOR_BLUE
	e := newTestEngine(t, g)
	e.Tick()
	e.Events()

	e.MoveLeft()
	e.MoveRight()
	p, _ := e.Piece()
	assert.Equal(t, 3, p.Col)
	assert.Empty(t, e.Events())
}

func TestMovesWithoutPieceAreNoops(t *testing.T) {
	e := newTestEngine(t, NewGrid(DefaultCols, DefaultRows))
	e.Events()
	e.MoveLeft()
	e.MoveRight()
	e.HardDrop()
	assert.Empty(t, e.Events())
	assert.Equal(t, 0, e.Grid().Occupied())
}

func TestHardDropEmptyColumn(t *testing.T) {
	e := newTestEngine(t, NewGrid(DefaultCols, DefaultRows))
	e.Tick()
	e.Events()

	e.HardDrop()
	evs := e.Events()
	assert.Equal(t, []EventKind{EV_LOCK}, kinds(evs))
	assert.Equal(t, DefaultRows-1, evs[0].Piece.Row)
	g := e.Grid()
	assert.Equal(t, 1, g.Occupied())
	assert.Equal(t, COLOR_RED, g.Cells[DefaultRows-1][3])
}

func TestSquareLockClears(t *testing.T) {
	e := newTestEngine(t, board(t,
		"..R...",
		"..RR..",
	))
	e.Tick()
	e.HardDrop()

	pending := e.Pending()
	assert.Len(t, pending, 4)
	assert.Equal(t, 4, e.Grid().Occupied())
	assert.False(t, e.Cleared())

	e.CommitRemoval()
	assert.Empty(t, e.Pending())
	assert.Equal(t, 0, e.Grid().Occupied())
	assert.True(t, e.Cleared())
	assert.Equal(t, 1, e.Chain())
	assert.Equal(t, []EventKind{EV_RESET, EV_SPAWN, EV_LOCK, EV_PENDING, EV_CLEAR}, kinds(e.Events()))
}

func TestThreeConnectedOnlyHighlight(t *testing.T) {
	e := newTestEngine(t, board(t, "...RR."))
	e.Tick()
	e.HardDrop()

	assert.Empty(t, e.Pending())
	groups := e.Groups()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
	assert.Equal(t, 3, e.Grid().Occupied())
	assert.False(t, e.Cleared())
}

func TestPendingBlocksPlay(t *testing.T) {
	e := newTestEngine(t, board(t, "RRR..."))
	e.Tick()
	e.HardDrop()
	require.NotEmpty(t, e.Pending())
	e.Events()

	e.Tick()
	e.MoveLeft()
	_, ok := e.Piece()
	assert.False(t, ok)
	assert.Empty(t, e.Events())

	e.CommitRemoval()
	e.Tick()
	_, ok = e.Piece()
	assert.True(t, ok)
}

func TestCascadeThroughCommits(t *testing.T) {
	e := newTestEngine(t, board(t,
		"BB....",
		"B.B...",
		"RRR...",
	))
	e.Tick()
	e.HardDrop()
	require.Len(t, e.Pending(), 4)

	e.CommitRemoval()
	// the blue cell two rows above the clear fell onto the floor
	g := e.Grid()
	assert.Equal(t, COLOR_BLUE, g.Cells[11][1])
	assert.Len(t, e.Pending(), 4)
	assert.Equal(t, 1, e.Chain())

	e.CommitRemoval()
	assert.Empty(t, e.Pending())
	assert.Equal(t, 2, e.Chain())
	assert.Equal(t, 0, e.Grid().Occupied())
}

func TestSettle(t *testing.T) {
	e := newTestEngine(t, board(t,
		"BB....",
		"B.B...",
		"RRR...",
	))
	e.Apply(CMD_TICK)
	e.Apply(CMD_DROP)
	e.Settle()
	assert.Empty(t, e.Pending())
	assert.Equal(t, 2, e.Chain())
	assert.True(t, e.Cleared())
}

func TestChainResetsOnNextLock(t *testing.T) {
	e := newTestEngine(t, board(t, "RRR..."), COLOR_RED)
	e.Tick()
	e.HardDrop()
	e.Settle()
	assert.Equal(t, 1, e.Chain())

	e.Tick()
	e.HardDrop()
	assert.Equal(t, 0, e.Chain())
	assert.False(t, e.Cleared())
}

func TestGameOverWhenSpawnBlocked(t *testing.T) {
	g := NewGrid(DefaultCols, DefaultRows)
	for r := 0; r < DefaultRows; r++ {
		if r%2 == 0 {
			g.Cells[r][3] = COLOR_BLUE
		} else {
			g.Cells[r][3] = COLOR_YELLOW
		}
	}
	e := newTestEngine(t, g)
	e.Events()

	e.Tick()
	assert.Equal(t, ST_GAME_OVER, e.Status())
	_, ok := e.Piece()
	assert.False(t, ok)
	assert.Equal(t, []EventKind{EV_GAME_OVER}, kinds(e.Events()))

	e.Tick()
	e.MoveLeft()
	e.MoveRight()
	e.HardDrop()
	assert.Empty(t, e.Events())
	assert.True(t, e.Grid().Equal(g))

	e.Reset()
	assert.Equal(t, ST_PLAYING, e.Status())
}

func TestGameOverByStacking(t *testing.T) {
	e := NewEngine(DefaultCols, DefaultRows,
		WithPalette([]Color{COLOR_RED, COLOR_BLUE}),
		WithRand(rand.New(rand.NewSource(5))))
	for i := 0; i < 1000 && e.Status() == ST_PLAYING; i++ {
		e.Tick()
		e.HardDrop()
		e.Settle()
	}
	assert.Equal(t, ST_GAME_OVER, e.Status())
	assert.NotEqual(t, COLOR_NONE, e.Grid().Cells[0][3])
}

func TestResetClearsEverything(t *testing.T) {
	e := newTestEngine(t, NewGrid(DefaultCols, DefaultRows))
	e.Tick()
	e.HardDrop()
	e.Tick()
	e.Reset()

	s := e.Snapshot()
	assert.Equal(t, 0, s.Grid.Occupied())
	assert.False(t, s.HasPiece)
	assert.Equal(t, ST_PLAYING, s.Status)
	assert.Empty(t, s.Groups)
	assert.Empty(t, s.Pending)
	assert.Equal(t, 0, s.Chain)
}

func TestGridIsACopy(t *testing.T) {
	e := newTestEngine(t, NewGrid(DefaultCols, DefaultRows))
	g := e.Grid()
	g.Cells[5][5] = COLOR_RED
	assert.Equal(t, COLOR_NONE, e.Grid().Cells[5][5])
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	e := NewEngine(DefaultCols, DefaultRows, WithRand(rand.New(rand.NewSource(42))))
	rnd := rand.New(rand.NewSource(43))
	commands := []Command{CMD_LEFT, CMD_RIGHT, CMD_DROP, CMD_TICK, CMD_TICK, CMD_COMMIT}
	for i := 0; i < 5000; i++ {
		e.Apply(commands[rnd.Intn(len(commands))])
		s := e.Snapshot()
		require.Len(t, s.Grid.Cells, DefaultRows)
		for _, row := range s.Grid.Cells {
			require.Len(t, row, DefaultCols)
		}
		if s.HasPiece {
			require.True(t, s.Grid.Free(Coord{Col: s.Piece.Col, Row: s.Piece.Row}))
		}
		if s.Status == ST_GAME_OVER {
			e.Reset()
		}
	}
}
