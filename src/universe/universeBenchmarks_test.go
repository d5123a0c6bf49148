package universe

import (
	"math/rand"
	"sort"
	"testing"
)

const (
	width  = 200
	height = 200
)

func universeStep(u Universe, b *testing.B) {
	stateCh := u.StateCh()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		u.Clear()
		<-stateCh //wait for finish
		_ = u.SettleTemplate(PulsarTemplate.Name, 10, 10)
		b.StartTimer()
		u.Step()
		for {
			st := <-stateCh
			if st.RunningMode == RunningStateManual || st.RunningMode == RunningStateFinished {
				break
			}
		}
	}
	u.Close()
}

func newStateCh() chan Status {
	return make(chan Status, 10)
}

func newUniverseOptions() *Options {
	o := DefaultUniverseOptions
	o.Interval = 0
	o.Width = width
	o.Height = height
	return &o
}

func seederNames() (names []string) {
	names = make([]string, 0, len(Seeders))
	for k := range Seeders {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}

func Benchmark_GridStep(b *testing.B) {
	for _, s := range seederNames() {
		b.Run(s, func(b *testing.B) {
			g, err := Seeders[s](width, height, rand.New(rand.NewSource(1)))
			if err != nil {
				b.Fatal(err)
			}
			g.Stamp(GliderTemplate.Coordinates, 0, 0)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				g.Step()
			}
		})
	}
}

func Benchmark_LiveNeighborCount(b *testing.B) {
	g, err := NewPatternGrid(width, height)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.LiveNeighborCount(i%height, i%width)
	}
}

func Benchmark_Step(b *testing.B) {
	u, err := NewBaseUniverse(newUniverseOptions(), newStateCh(), nil)
	if err != nil {
		b.Fatal(err)
	}
	universeStep(u, b)
}

func Benchmark_Render(b *testing.B) {
	g, err := NewPatternGrid(width, height)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = g.Render()
	}
}
