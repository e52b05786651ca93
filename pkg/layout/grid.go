package layout

import "github.com/matzehuels/photobooth/pkg/frame"

type cell struct{ col, row int }

// grid describes a geometry as columns of equal rows plus the cell
// occupied by each slot index.
type grid struct {
	cols   int
	rowsIn []int
	cells  []cell
}

func gridOf(def frame.Definition) grid {
	n := def.Slots
	switch def.Kind {
	case frame.Cols:
		g := grid{cols: n, rowsIn: make([]int, n), cells: make([]cell, n)}
		for i := range n {
			g.rowsIn[i] = 1
			g.cells[i] = cell{col: i}
		}
		return g
	case frame.Grid2x2:
		return grid{
			cols:   2,
			rowsIn: []int{2, 2},
			cells:  []cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		}
	case frame.Split21:
		return grid{
			cols:   2,
			rowsIn: []int{2, 1},
			cells:  []cell{{0, 0}, {0, 1}, {1, 0}},
		}
	case frame.Split12:
		return grid{
			cols:   2,
			rowsIn: []int{1, 2},
			cells:  []cell{{0, 0}, {1, 0}, {1, 1}},
		}
	default:
		g := grid{cols: 1, rowsIn: []int{n}, cells: make([]cell, n)}
		for i := range n {
			g.cells[i] = cell{row: i}
		}
		return g
	}
}

// span returns the half-open pixel range of part i of n along total.
func span(total, i, n int) (int, int) {
	return total * i / n, total * (i + 1) / n
}

// index inverts span: it returns the part of n containing pixel p of total.
// It is the largest i with total*i/n <= p.
func index(p, total, n int) int {
	i := (n*(p+1) - 1) / total
	if i >= n {
		i = n - 1
	}
	return i
}
