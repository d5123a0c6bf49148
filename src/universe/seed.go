package universe

//default grid dimensions
const (
	DefWidth  = 64
	DefHeight = 64
)

//RandomSource is the source of uniform floats in [0, 1), *rand.Rand fits
type RandomSource interface {
	Float64() float64
}

//Seeder creates the new seeded grid, src is used by random seeding only
type Seeder func(width int, height int, src RandomSource) (*Grid, error)

//Seeders is the registry of the seeding strategies by name
var Seeders = map[string]Seeder{
	"empty": func(width int, height int, _ RandomSource) (*Grid, error) {
		return NewGrid(width, height)
	},
	"pattern": func(width int, height int, _ RandomSource) (*Grid, error) {
		return NewPatternGrid(width, height)
	},
	"random":    NewRandomGrid,
	"spaceship": func(width int, height int, _ RandomSource) (*Grid, error) {
		return NewSpaceshipGrid(width, height)
	},
}

//NewPatternGrid creates the grid with the fixed non-random fill:
//the cell at flat position i is alive if i is even or a multiple of 7
func NewPatternGrid(width int, height int) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	for i := 0; i < width*height; i++ {
		g.cells.SetTo(uint(i), i%2 == 0 || i%7 == 0)
	}
	return g, nil
}

//NewRandomGrid creates the grid where each cell is alive with probability 0.5
func NewRandomGrid(width int, height int, src RandomSource) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	g.Reseed(src)
	return g, nil
}

//NewSpaceshipGrid creates the empty grid with the single glider at the top left corner
func NewSpaceshipGrid(width int, height int) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	g.Stamp(GliderTemplate.Coordinates, 0, 0)
	return g, nil
}

//Reseed refills the grid with random cells, each alive with probability 0.5
func (g *Grid) Reseed(src RandomSource) {
	for i := 0; i < g.width*g.height; i++ {
		g.cells.SetTo(uint(i), src.Float64() < 0.5)
	}
}
