package universe

import "time"

//step phases reported to the Recorder
const (
	PhaseStep    = "step"
	PhaseAlloc   = "step.alloc"
	PhaseCompute = "step.compute"
)

//Recorder receives the duration of the measured phases
type Recorder interface {
	Record(phase string, d time.Duration)
}

//RecorderFunc is an adapter to use an ordinary function as a Recorder
type RecorderFunc func(phase string, d time.Duration)

func (f RecorderFunc) Record(phase string, d time.Duration) {
	f(phase, d)
}

func noop() {}

//measure starts the timer for the phase and returns the func completing the measurement,
//intended use is `defer g.measure(phase)()`
func (g *Grid) measure(phase string) func() {
	r := g.recorder
	if r == nil {
		return noop
	}
	start := time.Now()
	return func() {
		r.Record(phase, time.Since(start))
	}
}
