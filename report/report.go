// Package report renders the event stream of a simplex.Tableau as the plain
// text solve report.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Opticity/simplex-calc/simplex"
)

const lineWidth = 75

// String renders events into a string. Rendering is pure, so calling it again
// on the same events returns the same text. It panics on an event Render does
// not know, which only a nil event can be.
func String(events []simplex.Event) string {
	var sb strings.Builder
	if err := Render(&sb, events); err != nil {
		panic(err)
	}
	return sb.String()
}

// Render writes the text report of events to w.
func Render(w io.Writer, events []simplex.Event) error {
	bw := bufio.NewWriter(w)
	for _, e := range events {
		switch e := e.(type) {
		case simplex.StandardForm:
			standardForm(bw, e)
		case simplex.Snapshot:
			table(bw, e)
		case simplex.PivotSelected:
			fmt.Fprintf(bw, "\nEntering variable : x%d", e.Entering)
			fmt.Fprintf(bw, "\nLeaving variable  : x%d\n", e.Leaving)
		case simplex.OptimumFound:
			result(bw, e.Solution)
		case simplex.MultipleOptima:
			fmt.Fprintln(bw, "Multiple solutions available!")
			if e.Reachable {
				fmt.Fprintln(bw, "Tableau will be revised. (Intercept ratio recalculated)")
			} else {
				fmt.Fprintf(bw, "x%d can enter without changing the optimum, but no constraint limits it.\n", e.Column+1)
			}
		case simplex.Unbounded:
			fmt.Fprintln(bw)
			fmt.Fprintln(bw, "Unbounded solution! This problem cannot be solved.")
			fmt.Fprintln(bw, "This occurs when the intercept ratio column is all negative.")
			fmt.Fprintln(bw, "There may be a missing constraint. Please reenter your problem.")
		default:
			return fmt.Errorf("report: unknown event %T", e)
		}
	}
	return bw.Flush()
}

// standardForm prints every row as a signed equation.
func standardForm(w io.Writer, e simplex.StandardForm) {
	rows, cols := e.Matrix.Dims()
	for i := range rows {
		var sb strings.Builder
		if i == 0 {
			sb.WriteString("z")
		} else {
			sb.WriteString("   ")
		}
		for j := range cols {
			v := e.Matrix.At(i, j)
			switch {
			case v < 0:
				sb.WriteString(" - ")
			case i != 0 && j == 0:
				sb.WriteString(" ")
			default:
				sb.WriteString(" + ")
			}
			fmt.Fprintf(&sb, "%s x%d", strconv.FormatFloat(math.Abs(v), 'f', 3, 64), j+1)
		}
		fmt.Fprintf(&sb, " = %s", strconv.FormatFloat(e.RHS[i], 'f', 3, 64))
		fmt.Fprintln(w, sb.String())
	}
}

func table(w io.Writer, s simplex.Snapshot) {
	switch s.Kind {
	case simplex.SnapshotInitial:
		fmt.Fprintf(w, "\nTableau at initialization\n")
	case simplex.SnapshotIteration:
		fmt.Fprintf(w, "\nTableau after %d iteration(s)\n", s.Iteration)
	case simplex.SnapshotRevised:
		fmt.Fprintf(w, "\nTableau revised\n")
	case simplex.SnapshotAlternate:
		fmt.Fprintf(w, "\nTableau after one more iteration\n")
	}

	rows, cols := s.Matrix.Dims()
	fmt.Fprint(w, drawLine(lineWidth))
	fmt.Fprint(w, "col:")
	for j := 1; j <= cols; j++ {
		fmt.Fprintf(w, "\t x%d", j)
	}
	fmt.Fprintln(w, "\t Sol.\t IR")

	for i := range rows {
		if i == 0 {
			fmt.Fprint(w, "z:")
		} else {
			fmt.Fprintf(w, "x%d:", s.Basic[i])
		}
		for j := range cols {
			fmt.Fprintf(w, "\t %s", cell(s.Matrix.At(i, j), s.Tol))
		}
		fmt.Fprintf(w, "\t %s", cell(s.RHS[i], s.Tol))
		switch {
		case i == 0:
			fmt.Fprintf(w, "\t %s\n", cell(0, s.Tol))
		case s.HasRatio:
			fmt.Fprintf(w, "\t %s\n", cell(s.Ratio[i], s.Tol))
		default:
			fmt.Fprintln(w, "\t -")
		}
	}
	fmt.Fprint(w, drawLine(lineWidth))
}

func result(w io.Writer, s simplex.Solution) {
	fmt.Fprintf(w, "\nOptimal solution = %.6f\n", s.Objective)
	fmt.Fprintln(w, "Variable values: ")
	for j, v := range s.Values {
		if !slices.Contains(s.Basic, j+1) {
			fmt.Fprintf(w, "x%d = 0\n", j+1)
			continue
		}
		fmt.Fprintf(w, "x%d = %.6f\n", j+1, v)
	}
	fmt.Fprintln(w)
}

// cell formats a grid value with two decimals; values within tol print as
// zero.
func cell(v, tol float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	case math.Abs(v) < tol || v == 0:
		return "0.00"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func drawLine(length int) string {
	return strings.Repeat("-", length) + "\n"
}
