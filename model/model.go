package model

import "fmt"

const (
	DefaultCols = 6
	DefaultRows = 12

	// groups of at least HighlightMin are reported, ClearMin are removed
	HighlightMin = 2
	ClearMin     = 4
)

type Color int8

const (
	COLOR_NONE Color = iota
	COLOR_RED
	COLOR_TEAL
	COLOR_BLUE
	COLOR_YELLOW
	COLOR_PURPLE
)

var Palette = []Color{
	COLOR_RED,
	COLOR_TEAL,
	COLOR_BLUE,
	COLOR_YELLOW,
	COLOR_PURPLE,
}

func (c Color) Name() string {
	switch c {
	case COLOR_NONE:
		return "NONE"
	case COLOR_RED:
		return "RED"
	case COLOR_TEAL:
		return "TEAL"
	case COLOR_BLUE:
		return "BLUE"
	case COLOR_YELLOW:
		return "YELLOW"
	case COLOR_PURPLE:
		return "PURPLE"
	default:
		return fmt.Sprintf("n/a:%d", c)
	}
}

type Status int

const (
	ST_PLAYING Status = iota + 1
	ST_GAME_OVER
)

func (s Status) Name() string {
	switch s {
	case ST_PLAYING:
		return "PLAYING"
	case ST_GAME_OVER:
		return "GAME_OVER"
	default:
		return fmt.Sprintf("n/a:%d", s)
	}
}

type Coord struct {
	Col, Row int
}

// Piece is the single falling unit. Row may be any row of the grid, the
// cell under it is always empty.
type Piece struct {
	Col, Row int
	Color    Color
}

// Grid holds the settled cells, indexed Cells[row][col], row 0 on top.
type Grid struct {
	Cols, Rows int
	Cells      [][]Color
}

func NewGrid(cols, rows int) Grid {
	cells := make([][]Color, 0, rows)
	for r := 0; r < rows; r++ {
		cells = append(cells, make([]Color, cols))
	}
	return Grid{Cols: cols, Rows: rows, Cells: cells}
}

func (g Grid) Clone() Grid {
	cells := make([][]Color, len(g.Cells))
	for r, row := range g.Cells {
		cells[r] = append([]Color(nil), row...)
	}
	return Grid{Cols: g.Cols, Rows: g.Rows, Cells: cells}
}

func (g Grid) In(c Coord) bool {
	return c.Col >= 0 && c.Col < g.Cols && c.Row >= 0 && c.Row < g.Rows
}

// At returns COLOR_NONE outside of the grid.
func (g Grid) At(c Coord) Color {
	if !g.In(c) {
		return COLOR_NONE
	}
	return g.Cells[c.Row][c.Col]
}

func (g Grid) Free(c Coord) bool {
	return g.In(c) && g.Cells[c.Row][c.Col] == COLOR_NONE
}

func (g Grid) Occupied() int {
	n := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if cell != COLOR_NONE {
				n++
			}
		}
	}
	return n
}

func (g Grid) Equal(o Grid) bool {
	if g.Cols != o.Cols || g.Rows != o.Rows {
		return false
	}
	for r := range g.Cells {
		for c := range g.Cells[r] {
			if g.Cells[r][c] != o.Cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Group is a 4-connected set of same colored cells in scan order.
type Group []Coord

func (gr Group) Contains(c Coord) bool {
	for _, g := range gr {
		if g == c {
			return true
		}
	}
	return false
}

// Snapshot is everything a presentation layer needs to draw one frame.
type Snapshot struct {
	Grid     Grid
	Piece    Piece
	HasPiece bool
	Status   Status
	Groups   []Group
	Pending  Group
	Chain    int
}

func (s Snapshot) Highlighted(c Coord) bool {
	for _, g := range s.Groups {
		if g.Contains(c) {
			return true
		}
	}
	return false
}

func (s Snapshot) Removing(c Coord) bool {
	return s.Pending.Contains(c)
}
