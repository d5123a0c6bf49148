package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"
	"torolife/src/universe"
)

//ConsoleOut is the non-interactive viewer printing the progress and the field to the writer
type ConsoleOut struct {
	u           universe.Universe
	w           io.Writer
	au          aurora.Aurora
	startTime   time.Time
	renderEvery int //print the field every renderEvery iterations, 0 - only the final one
}

func NewConsoleOut(renderEvery int, colors bool) *ConsoleOut {
	return &ConsoleOut{w: os.Stdout, au: aurora.NewAurora(colors), renderEvery: renderEvery}
}

//SetOutput redirects the output, os.Stdout is used by default
func (c *ConsoleOut) SetOutput(w io.Writer) {
	c.w = w
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	if st.RunningMode == universe.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
		}
		fmt.Fprintln(c.w, c.au.Red("\nFinished:"))
		c.printHashData(resultData)
		fmt.Fprint(c.w, c.u.Render())
	} else if st.RunningMode == universe.RunningStateRun {
		if st.IterationNum%10 == 0 {
			fmt.Fprintf(c.w, "  Iterations done: %v\n", c.au.Cyan(st.IterationNum))
		}
		if c.renderEvery > 0 && st.IterationNum%c.renderEvery == 0 {
			fmt.Fprint(c.w, c.u.Render())
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	fmt.Fprintln(c.w, "Running configuration:")
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max iterations: %v steps\n", o.MaxSteps)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, c.au.Green("\nSimulation started..."))
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
