package universe

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

var (
	//ErrOutOfBounds is returned by the direct (non-wrapping) indexing operations
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	//ErrInvalidDimension is returned when a width or height is less than 1
	ErrInvalidDimension = errors.New("invalid grid dimension")
)

//glyphs used by Render
const (
	AliveGlyph = '◻'
	DeadGlyph  = '◼'
)

//Transition is the cause of a cell state change during a step
type Transition int

const (
	//TransitionUnderpopulation - a live cell with less than 2 live neighbours dies
	TransitionUnderpopulation Transition = iota + 1
	//TransitionOvercrowding - a live cell with more than 3 live neighbours dies
	TransitionOvercrowding
	//TransitionBirth - a dead cell with exactly 3 live neighbours becomes alive
	TransitionBirth
)

func (t Transition) String() string {
	switch t {
	case TransitionUnderpopulation:
		return "underpopulation"
	case TransitionOvercrowding:
		return "overcrowding"
	case TransitionBirth:
		return "birth"
	}
	return "none"
}

//Grid is a toroidal Life field packed one bit per cell in row-major order.
//A Grid is not safe for concurrent use, it's owned by exactly one driver.
type Grid struct {
	width  int
	height int
	cells  *bitset.BitSet
	spare  *bitset.BitSet //next generation buffer, reused between steps

	debug    bool
	logger   *slog.Logger
	recorder Recorder
}

//Coord is a (row, column) pair
type Coord struct {
	Row int
	Col int
}

//NewGrid creates the grid with all cells dead
func NewGrid(width int, height int) (*Grid, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  bitset.New(uint(width * height)),
	}, nil
}

func checkDimensions(width int, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	return nil
}

//Width returns the number of columns
func (g *Grid) Width() int {
	return g.width
}

//Height returns the number of rows
func (g *Grid) Height() int {
	return g.height
}

//Cells returns the read-only view over the packed cell buffer,
//the view always reads the current generation of the grid
func (g *Grid) Cells() CellView {
	return CellView{g: g}
}

//SetDebug turns on the transition logging inside Step
func (g *Grid) SetDebug(debug bool) {
	g.debug = debug
}

//SetLogger sets the sink for debug transition events, nil disables them
func (g *Grid) SetLogger(l *slog.Logger) {
	g.logger = l
}

//SetRecorder sets the sink for step timings, nil disables them
func (g *Grid) SetRecorder(r Recorder) {
	g.recorder = r
}

//Index returns the flat position of the cell.
//Unlike the neighbour and stamp operations Index doesn't wrap:
//row must be in [0, height) and col in [0, width), otherwise ErrOutOfBounds is returned.
func (g *Grid) Index(row int, col int) (int, error) {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return 0, fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBounds, row, col, g.width, g.height)
	}
	return g.index(row, col), nil
}

//index is the unchecked version of Index
func (g *Grid) index(row int, col int) int {
	return row*g.width + col
}

//wrap maps any row, col pair onto the torus
func (g *Grid) wrap(row int, col int) (int, int) {
	row %= g.height
	if row < 0 {
		row += g.height
	}
	col %= g.width
	if col < 0 {
		col += g.width
	}
	return row, col
}

//Alive reports the state of the cell
func (g *Grid) Alive(row int, col int) (bool, error) {
	i, err := g.Index(row, col)
	if err != nil {
		return false, err
	}
	return g.cells.Test(uint(i)), nil
}

//LiveCells returns the count of live cells
func (g *Grid) LiveCells() int {
	return int(g.cells.Count())
}

//LiveNeighborCount counts live cells among the eight neighbours of the cell.
//The edges wrap, row and col are taken modulo the grid dimensions.
func (g *Grid) LiveNeighborCount(row int, col int) int {
	row, col = g.wrap(row, col)
	return g.liveNeighborCount(g.cells, row, col)
}

//liveNeighborCount expects row and col already in range
func (g *Grid) liveNeighborCount(cells *bitset.BitSet, row int, col int) int {
	up, down := row-1, row+1
	if up < 0 {
		up = g.height - 1
	}
	if down == g.height {
		down = 0
	}
	left, right := col-1, col+1
	if left < 0 {
		left = g.width - 1
	}
	if right == g.width {
		right = 0
	}

	//on a 1 or 2 cells wide torus neighbours alias each other (or the cell itself),
	//only the centre offset is skipped
	count := 0
	for dr, r := range [3]int{up, row, down} {
		base := r * g.width
		for dc, c := range [3]int{left, col, right} {
			if dr == 1 && dc == 1 {
				continue
			}
			if cells.Test(uint(base + c)) {
				count++
			}
		}
	}
	return count
}

//Step advances the grid by one generation.
//The next generation is computed into the spare buffer from the current one only
//and then the buffers are swapped. Returns true if any cell has changed.
func (g *Grid) Step() (changed bool) {
	defer g.measure(PhaseStep)()

	next := g.nextBuffer()

	stop := g.measure(PhaseCompute)
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			i := uint(g.index(row, col))
			alive := g.cells.Test(i)
			nextState, cause := nextCellState(alive, g.liveNeighborCount(g.cells, row, col))
			if cause != 0 {
				changed = true
				if g.debug {
					g.logTransition(row, col, cause)
				}
			}
			next.SetTo(i, nextState)
		}
	}
	stop()

	g.cells, g.spare = next, g.cells
	return
}

//nextBuffer returns the buffer for the next generation
func (g *Grid) nextBuffer() *bitset.BitSet {
	defer g.measure(PhaseAlloc)()
	size := uint(g.width * g.height)
	if g.spare == nil || g.spare.Len() != size {
		g.spare = bitset.New(size)
	}
	return g.spare
}

//nextCellState applies the Life rule, cause is zero if the state is kept
func nextCellState(alive bool, neighbors int) (bool, Transition) {
	switch {
	case alive && neighbors < 2:
		return false, TransitionUnderpopulation
	case alive && neighbors > 3:
		return false, TransitionOvercrowding
	case !alive && neighbors == 3:
		return true, TransitionBirth
	}
	return alive, 0
}

func (g *Grid) logTransition(row int, col int, cause Transition) {
	if g.logger == nil {
		return
	}
	g.logger.Info("cell transition", "row", row, "col", col, "cause", cause.String())
}

//Toggle flips the state of the cell
func (g *Grid) Toggle(row int, col int) error {
	i, err := g.Index(row, col)
	if err != nil {
		return err
	}
	g.cells.Flip(uint(i))
	return nil
}

//SetCells sets all listed cells alive, other cells are kept as is.
//All coordinates are checked first, the grid isn't modified if any of them is out of bounds.
func (g *Grid) SetCells(cells []Coord) error {
	for _, c := range cells {
		if _, err := g.Index(c.Row, c.Col); err != nil {
			return err
		}
	}
	for _, c := range cells {
		g.cells.Set(uint(g.index(c.Row, c.Col)))
	}
	return nil
}

//Stamp sets alive the cells of the pattern anchored at row, col.
//Each cell wraps across the edges independently.
func (g *Grid) Stamp(pattern []Coord, row int, col int) {
	for _, p := range pattern {
		r, c := g.wrap(row+p.Row, col+p.Col)
		g.cells.Set(uint(g.index(r, c)))
	}
}

//Clear kills all cells
func (g *Grid) Clear() {
	g.cells.ClearAll()
}

//ResizeWidth changes the width. The cells are reallocated and all of them are dead after the call,
//the previous content isn't preserved.
func (g *Grid) ResizeWidth(width int) error {
	return g.resize(width, g.height)
}

//ResizeHeight changes the height. The cells are reallocated and all of them are dead after the call,
//the previous content isn't preserved.
func (g *Grid) ResizeHeight(height int) error {
	return g.resize(g.width, height)
}

func (g *Grid) resize(width int, height int) error {
	if err := checkDimensions(width, height); err != nil {
		return err
	}
	g.width = width
	g.height = height
	g.cells = bitset.New(uint(width * height))
	g.spare = nil
	return nil
}

//Clone returns the copy of the grid cells, the debug and instrumentation sinks aren't copied
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:  g.width,
		height: g.height,
		cells:  g.cells.Clone(),
	}
}

//Equal reports whether both grids have the same dimensions and the same live cells
func (g *Grid) Equal(o *Grid) bool {
	return g.width == o.width && g.height == o.height && g.cells.Equal(o.cells)
}

//Render returns the grid as text, one glyph per cell and one line per row
func (g *Grid) Render() string {
	var b strings.Builder
	b.Grow(g.width*g.height*3 + g.height)
	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			if g.cells.Test(uint(g.index(row, col))) {
				b.WriteRune(AliveGlyph)
			} else {
				b.WriteRune(DeadGlyph)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Grid) String() string {
	return g.Render()
}

//CellView is the read-only view over the grid cells, i is the flat row-major position
type CellView struct {
	g *Grid
}

//Len returns the number of cells, width x height
func (v CellView) Len() int {
	return int(v.g.cells.Len())
}

//Alive reports the state of the cell at flat position i, false outside the grid
func (v CellView) Alive(i int) bool {
	return i >= 0 && v.g.cells.Test(uint(i))
}

//Count returns the count of live cells
func (v CellView) Count() int {
	return int(v.g.cells.Count())
}
