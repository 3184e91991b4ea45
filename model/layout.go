package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrLayout = errors.New("bad layout")

var layoutRunes = map[rune]Color{
	'.': COLOR_NONE,
	'R': COLOR_RED,
	'G': COLOR_TEAL,
	'B': COLOR_BLUE,
	'Y': COLOR_YELLOW,
	'P': COLOR_PURPLE,
}

// ReadGrid reads a board drawn one row per line, top row first. Blank
// lines and lines starting with '#' are skipped.
func ReadGrid(reader io.Reader) (Grid, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	cells := make([][]Color, 0)
	line := 0

	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		row := make([]Color, 0, len(s))
		for _, char := range s {
			color, found := layoutRunes[char]
			if !found {
				return Grid{}, fmt.Errorf("line %d: unknown cell %q: %w", line, char, ErrLayout)
			}
			row = append(row, color)
		}
		if len(cells) > 0 && len(row) != len(cells[0]) {
			return Grid{}, fmt.Errorf("line %d: %d columns, expected %d: %w", line, len(row), len(cells[0]), ErrLayout)
		}
		cells = append(cells, row)
	}
	if err := scanner.Err(); err != nil {
		return Grid{}, err
	}
	if len(cells) == 0 {
		return Grid{}, fmt.Errorf("no rows: %w", ErrLayout)
	}
	return Grid{Cols: len(cells[0]), Rows: len(cells), Cells: cells}, nil
}

func (g Grid) String() string {
	var sb strings.Builder
	for _, row := range g.Cells {
		for _, cell := range row {
			sb.WriteRune(cellRune(cell))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

var colorRunes = [...]rune{
	COLOR_NONE:   '.',
	COLOR_RED:    'R',
	COLOR_TEAL:   'G',
	COLOR_BLUE:   'B',
	COLOR_YELLOW: 'Y',
	COLOR_PURPLE: 'P',
}

func cellRune(c Color) rune {
	if c < 0 || int(c) >= len(colorRunes) {
		return '?'
	}
	return colorRunes[c]
}
