package universe

//Template represent the seeding template which can be stamped to the grid
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates []Coord //cells relative to the anchor
}

var (
	//GliderTemplate
	// . . 1
	// 1 . 1
	// . 1 1
	GliderTemplate = Template{
		Name:        "glider",
		Descr:       "the smallest spaceship, moves by (+1,+1) every 4 generations",
		Coordinates: []Coord{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}},
	}

	//PulsarTemplate is the period 3 oscillator in the 13x13 box
	PulsarTemplate = Template{
		Name:        "pulsar",
		Descr:       "period 3 oscillator",
		Coordinates: pulsar(),
	}

	BlinkerTemplate = Template{
		Name:        "blinker",
		Descr:       "period 2 oscillator",
		Coordinates: []Coord{{0, 0}, {0, 1}, {0, 2}},
	}

	BlockTemplate = Template{
		Name:        "block",
		Descr:       "still life",
		Coordinates: []Coord{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	}

	//BuiltinTemplates is the list of templates every universe knows about
	BuiltinTemplates = []Template{GliderTemplate, PulsarTemplate, BlinkerTemplate, BlockTemplate}
)

//pulsar builds the pulsar cells: four bars of three cells on each of the rows (and columns) 0, 5, 7, 12
func pulsar() []Coord {
	lines := [4]int{0, 5, 7, 12}
	bars := [6]int{2, 3, 4, 8, 9, 10}
	cells := make([]Coord, 0, 48)
	for _, l := range lines {
		for _, b := range bars {
			cells = append(cells, Coord{l, b})
		}
	}
	for _, l := range lines {
		for _, b := range bars {
			cells = append(cells, Coord{b, l})
		}
	}
	return cells
}
