package board

import (
	"fmt"
	"slices"
	"strings"

	errs "goban/internal/errors"
)

const DefaultSize = 19

type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	}
	return fmt.Sprintf("Cell(%d)", uint8(c))
}

// Letter returns the SGF property name for a stone color: "B" or "W".
func (c Cell) Letter() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	}
	return ""
}

// Opponent swaps Black and White. Empty has no opponent and stays Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Cell) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("marshal %s: %w", c, errs.ErrInvalidColor)
	}
	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "empty", "":
		*c = Empty
	case "black", "B", "b":
		*c = Black
	case "white", "W", "w":
		*c = White
	default:
		return fmt.Errorf("unmarshal %q: %w", text, errs.ErrInvalidColor)
	}
	return nil
}

func (c Cell) IsStone() bool {
	return c == Black || c == White
}

func (c Cell) valid() bool {
	return c <= White
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Board is an immutable square grid. Operations that change cells return a
// new Board and leave the receiver untouched.
type Board struct {
	size  int
	cells []Cell // row-major, index y*size+x
}

func New(size int) (Board, error) {
	if size < 1 {
		return Board{}, fmt.Errorf("board size %d: %w", size, errs.ErrInvalidBoardSize)
	}
	return Board{size: size, cells: make([]Cell, size*size)}, nil
}

func (b Board) Size() int {
	return b.size
}

func (b Board) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.size && p.Y >= 0 && p.Y < b.size
}

func (b Board) index(p Point) int {
	return p.Y*b.size + p.X
}

func (b Board) Get(p Point) (Cell, error) {
	if !b.Contains(p) {
		return Empty, fmt.Errorf("get %s on %dx%d board: %w", p, b.size, b.size, errs.ErrOutOfBounds)
	}
	return b.cells[b.index(p)], nil
}

// at skips the bounds check; callers must have validated p.
func (b Board) at(p Point) Cell {
	return b.cells[b.index(p)]
}

// WithStone returns a copy of b with cell p set to c. Occupancy is not
// checked.
func (b Board) WithStone(p Point, c Cell) (Board, error) {
	if !b.Contains(p) {
		return Board{}, fmt.Errorf("place %s on %dx%d board: %w", p, b.size, b.size, errs.ErrOutOfBounds)
	}
	if !c.valid() {
		return Board{}, fmt.Errorf("place %s: %w", c, errs.ErrInvalidColor)
	}
	next := b.clone()
	next.cells[next.index(p)] = c
	return next, nil
}

// WithoutStones returns a copy of b with every listed point emptied.
func (b Board) WithoutStones(points []Point) (Board, error) {
	next := b.clone()
	for _, p := range points {
		if !b.Contains(p) {
			return Board{}, fmt.Errorf("remove %s on %dx%d board: %w", p, b.size, b.size, errs.ErrOutOfBounds)
		}
		next.cells[next.index(p)] = Empty
	}
	return next, nil
}

func (b Board) clone() Board {
	return Board{size: b.size, cells: slices.Clone(b.cells)}
}

func (b Board) Equal(o Board) bool {
	return b.size == o.size && slices.Equal(b.cells, o.cells)
}

// Neighbors lists the orthogonal neighbors of p that lie on the board, in
// the order up, right, down, left.
func (b Board) Neighbors(p Point) []Point {
	out := make([]Point, 0, 4)
	for _, d := range directions {
		n := Point{X: p.X + d.X, Y: p.Y + d.Y}
		if b.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

var directions = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

func (b Board) Count(c Cell) int {
	n := 0
	for _, v := range b.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Rows returns a copy of the grid indexed [y][x].
func (b Board) Rows() [][]Cell {
	rows := make([][]Cell, b.size)
	for y := range rows {
		rows[y] = slices.Clone(b.cells[y*b.size : (y+1)*b.size])
	}
	return rows
}

// String renders the board one row per line: '.' empty, 'X' black, 'O' white.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(b.size * (b.size + 1))
	for y := 0; y < b.size; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < b.size; x++ {
			sb.WriteByte(diagramChars[b.at(Point{X: x, Y: y})])
		}
	}
	return sb.String()
}

var diagramChars = [...]byte{Empty: '.', Black: 'X', White: 'O'}

// ParseDiagram builds a board from rows in the String format. Spaces inside
// a row are ignored so diagrams can be written "X . O".
func ParseDiagram(rows ...string) (Board, error) {
	b, err := New(len(rows))
	if err != nil {
		return Board{}, err
	}
	for y, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		if len(row) != b.size {
			return Board{}, fmt.Errorf("row %d has %d cells, want %d: %w", y, len(row), b.size, errs.ErrInvalidBoardSize)
		}
		for x := 0; x < len(row); x++ {
			var c Cell
			switch row[x] {
			case '.', '+':
				c = Empty
			case 'X', 'x', 'B':
				c = Black
			case 'O', 'o', 'W':
				c = White
			default:
				return Board{}, fmt.Errorf("row %d col %d: unknown cell %q", y, x, row[x])
			}
			b.cells[b.index(Point{X: x, Y: y})] = c
		}
	}
	return b, nil
}
