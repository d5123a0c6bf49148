package universe

type Universe interface {
	Status() Status
	Options() Options
	Snapshot() *Grid
	Render() string
	StateCh() chan Status
	AddTemplate(tmpl Template)
	SettleTemplate(name string, row int, col int) error
	SettleWithRandomData() error
	Settle(cells []Coord) error
	InverseCell(row int, col int) error
	Resize(width int, height int) error
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}
