package timesheet

import (
	"strings"
)

// Cell is one timesheet cell as read from the workbook: the stored value and,
// for formula cells, the formula text.
type Cell struct {
	Value   string
	Formula string
}

func (c Cell) IsBlank() bool {
	return strings.TrimSpace(c.Value) == ""
}

// FormulaText renders the formula the way it is typed into a cell, with the
// leading "=".
func (c Cell) FormulaText() string {
	if c.Formula == "" {
		return ""
	}
	if strings.HasPrefix(c.Formula, "=") {
		return c.Formula
	}
	return "=" + c.Formula
}

// Label is the text a reader sees for a PO cell: the value, or the formula
// when no value is cached.
func (c Cell) Label() string {
	if !c.IsBlank() {
		return c.Value
	}
	return c.FormulaText()
}

// Sheet is read access to one month page.
type Sheet interface {
	Name() string
	Cell(row, col int) (Cell, error)
	// MaxRow is the last populated row; nothing past it can hold a sentinel.
	MaxRow() int
}

// GridSheet is an in-memory Sheet.
type GridSheet struct {
	name  string
	cells [][]Cell
}

// NewGridSheet builds a sheet from row-major values; rows[0][0] is A1.
func NewGridSheet(name string, rows [][]string) *GridSheet {
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]Cell, len(row))
		for j, value := range row {
			cells[i][j] = Cell{Value: value}
		}
	}
	return &GridSheet{name: name, cells: cells}
}

func (g *GridSheet) Name() string {
	return g.name
}

func (g *GridSheet) MaxRow() int {
	return len(g.cells)
}

func (g *GridSheet) Cell(row, col int) (Cell, error) {
	if row < 1 || col < 1 || row > len(g.cells) || col > len(g.cells[row-1]) {
		return Cell{}, nil
	}
	return g.cells[row-1][col-1], nil
}

// SetCell stores a cell, growing the grid as needed.
func (g *GridSheet) SetCell(row, col int, cell Cell) {
	for len(g.cells) < row {
		g.cells = append(g.cells, nil)
	}
	for len(g.cells[row-1]) < col {
		g.cells[row-1] = append(g.cells[row-1], Cell{})
	}
	g.cells[row-1][col-1] = cell
}
