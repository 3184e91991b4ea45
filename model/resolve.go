package model

var neighbours = [4]Coord{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// FindGroups scans the grid in row-major order and flood fills every
// unvisited occupied cell. Groups of HighlightMin or more cells are returned
// in groups, members of groups of ClearMin or more end up in clear as well.
func FindGroups(g Grid) (clear Group, groups []Group) {
	visited := make([][]bool, g.Rows)
	for r := range visited {
		visited[r] = make([]bool, g.Cols)
	}
	stack := make([]Coord, 0, g.Cols*g.Rows)

	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			color := g.Cells[r][c]
			if color == COLOR_NONE || visited[r][c] {
				continue
			}
			group := Group{}
			visited[r][c] = true
			stack = append(stack[:0], Coord{Col: c, Row: r})
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				group = append(group, cur)
				for _, d := range neighbours {
					next := Coord{Col: cur.Col + d.Col, Row: cur.Row + d.Row}
					if !g.In(next) || visited[next.Row][next.Col] || g.Cells[next.Row][next.Col] != color {
						continue
					}
					visited[next.Row][next.Col] = true
					stack = append(stack, next)
				}
			}
			if len(group) >= ClearMin {
				clear = append(clear, group...)
			}
			if len(group) >= HighlightMin {
				groups = append(groups, group)
			}
		}
	}
	return
}

// Remove returns a copy of g with every listed cell emptied.
func Remove(g Grid, cells Group) Grid {
	out := g.Clone()
	for _, c := range cells {
		if out.In(c) {
			out.Cells[c.Row][c.Col] = COLOR_NONE
		}
	}
	return out
}

// Gravity compacts every column downwards keeping the top to bottom order of
// its cells.
func Gravity(g Grid) Grid {
	out := g.Clone()
	for c := 0; c < out.Cols; c++ {
		write := out.Rows - 1
		for r := out.Rows - 1; r >= 0; r-- {
			if out.Cells[r][c] == COLOR_NONE {
				continue
			}
			if write != r {
				out.Cells[write][c] = out.Cells[r][c]
				out.Cells[r][c] = COLOR_NONE
			}
			write--
		}
	}
	return out
}

// ResolvePass runs clear + gravity until a pass finds nothing to clear.
// Gravity is only applied after a clear. cleared reports whether any pass
// removed cells.
func ResolvePass(g Grid) (Grid, bool) {
	out, chain := Cascade(g)
	return out, chain > 0
}

// Cascade is ResolvePass that also reports how many clears the chain had.
// Every clear empties at least ClearMin cells, so it stops after at most
// Cols*Rows/ClearMin passes.
func Cascade(g Grid) (Grid, int) {
	chain := 0
	for {
		clear, _ := FindGroups(g)
		if len(clear) == 0 {
			return g, chain
		}
		g = Gravity(Remove(g, clear))
		chain++
	}
}
