package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"torolife/src/universe"
	"torolife/src/view"
)

type EnvOptions struct {
	interactive bool
	template    string
	anchorRow   int
	anchorCol   int
	renderEvery int
	noColors    bool
}

func main() {
	eo, uo := initOptions()

	var stateCh chan universe.Status

	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	var logger *slog.Logger
	if uo.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	u, err := universe.NewBaseUniverse(uo, stateCh, logger)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	if eo.template != "" {
		if err := u.SettleTemplate(eo.template, eo.anchorRow, eo.anchorCol); err != nil {
			log.Fatalln(err)
		}
	}

	if eo.interactive {
		v := view.NewViewTerminal()
		u.RegisterViewer(v)
		v.Start()
		u.Close()
		return
	}

	v := view.NewConsoleOut(eo.renderEvery, !eo.noColors)
	u.RegisterViewer(v)
	v.Start()

	startTime := time.Now()
	u.Run()
	for {
		st := <-stateCh
		if st.RunningMode == universe.RunningStateFinished {
			totalTime := time.Since(startTime).Round(time.Millisecond)
			fmt.Printf("Finished, iteration is: %v, total running time: %v\n", st.IterationNum, totalTime)
			break
		}
	}
	u.Close()
}

func initOptions() (eo *EnvOptions, uo *universe.Options) {

	o := universe.DefaultUniverseOptions
	uo = &o
	seedNames := make([]string, 0, len(universe.Seeders))
	for k := range universe.Seeders {
		seedNames = append(seedNames, k)
	}
	sort.Strings(seedNames)
	templateNames := make([]string, 0, len(universe.BuiltinTemplates))
	for _, t := range universe.BuiltinTemplates {
		templateNames = append(templateNames, t.Name)
	}

	eo = &EnvOptions{}
	flaggy.SetName("torolife")
	flaggy.SetDescription("\"The Life\" game simulation on a toroidal field")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Width, "x", "width", "Width of a simulation field")
	flaggy.Int(&uo.Height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.String(&uo.Seed, "e", "seed", "Seeding mode ["+strings.Join(seedNames, "|")+"]")
	flaggy.Int64(&uo.RandSeed, "", "randSeed", "Random seeding source seed, 0 - time based")
	flaggy.Bool(&uo.Debug, "d", "debug", "Log every cell transition to stderr")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.String(&eo.template, "t", "template", "Stamp the template ["+strings.Join(templateNames, "|")+"]")
	flaggy.Int(&eo.anchorRow, "", "row", "Template anchor row")
	flaggy.Int(&eo.anchorCol, "", "col", "Template anchor column")
	flaggy.Int(&eo.renderEvery, "p", "print", "Print the field every N iterations")
	flaggy.Bool(&eo.noColors, "", "noColors", "Disable the colored output")

	flaggy.Parse()

	if _, ok := universe.Seeders[uo.Seed]; !ok {
		flaggy.ShowHelpAndExit("unknown seeding mode")
	}

	return
}
