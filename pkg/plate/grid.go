package plate

import (
	"fmt"
	"iter"
)

// Well is the centre of one well in plate-local millimetres.
type Well struct {
	Row    int     `json:"row" yaml:"row"`
	Column int     `json:"column" yaml:"column"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
}

// Label returns the conventional plate label, e.g. "A1" or "H12".
func (w Well) Label() string {
	return rowLabel(w.Row) + fmt.Sprint(w.Column+1)
}

// rowLabel maps 0 -> A, 25 -> Z, 26 -> AA.
func rowLabel(r int) string {
	label := ""
	for r >= 0 {
		label = string(rune('A'+r%26)) + label
		r = r/26 - 1
	}
	return label
}

// Grid is the row-major set of well centres of a plate. It is computed
// once and only read afterwards; copies share the same backing array.
type Grid struct {
	rows, columns int
	wells         []Well
}

// Compute derives the well centres of s. Well (r, c) sits at
// (WellXOffset + c × pitch, WellYOffset + r × pitch).
func Compute(s Spec) (Grid, error) {
	if s.Rows <= 0 {
		return Grid{}, fmt.Errorf("%w: rows is %d, must be positive", ErrInvalidSpec, s.Rows)
	}
	if s.Columns <= 0 {
		return Grid{}, fmt.Errorf("%w: columns is %d, must be positive", ErrInvalidSpec, s.Columns)
	}
	if !(s.WellToWellDistance > 0) {
		return Grid{}, fmt.Errorf("%w: well-to-well distance is %v, must be positive", ErrInvalidSpec, s.WellToWellDistance)
	}

	wells := make([]Well, 0, s.Rows*s.Columns)
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Columns; c++ {
			wells = append(wells, Well{
				Row:    r,
				Column: c,
				X:      s.WellXOffset + float64(c)*s.WellToWellDistance,
				Y:      s.WellYOffset + float64(r)*s.WellToWellDistance,
			})
		}
	}
	return Grid{rows: s.Rows, columns: s.Columns, wells: wells}, nil
}

// Rows returns the row count.
func (g Grid) Rows() int { return g.rows }

// Columns returns the column count.
func (g Grid) Columns() int { return g.columns }

// Len returns the number of wells.
func (g Grid) Len() int { return len(g.wells) }

// Index returns the i-th well in row-major order.
func (g Grid) Index(i int) Well { return g.wells[i] }

// At returns the well at (row, column). It panics when out of range.
func (g Grid) At(row, column int) Well {
	if row < 0 || row >= g.rows || column < 0 || column >= g.columns {
		panic(fmt.Sprintf("plate: well (%d, %d) outside %dx%d grid", row, column, g.rows, g.columns))
	}
	return g.wells[row*g.columns+column]
}

// Wells returns a copy of every well in row-major order.
func (g Grid) Wells() []Well {
	out := make([]Well, len(g.wells))
	copy(out, g.wells)
	return out
}

// All iterates the wells in row-major order.
func (g Grid) All() iter.Seq2[int, Well] {
	return func(yield func(int, Well) bool) {
		for i, w := range g.wells {
			if !yield(i, w) {
				return
			}
		}
	}
}

// Bounds returns the extreme well centres. Both are zero for an empty grid.
func (g Grid) Bounds() (min, max Well) {
	if len(g.wells) == 0 {
		return Well{}, Well{}
	}
	return g.wells[0], g.wells[len(g.wells)-1]
}
