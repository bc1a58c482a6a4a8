package cli

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Opticity/simplex-calc/crosscheck"
	"github.com/Opticity/simplex-calc/instance"
	"github.com/Opticity/simplex-calc/model"
	"github.com/Opticity/simplex-calc/report"
	"github.com/Opticity/simplex-calc/simplex"
)

var ErrSource = errors.New("exactly one of --file or --example is required")

var (
	solveLong = heredoc.Doc(`
		Solve a problem and print the tableau report.

		The problem is read from a file (.yaml, .yml, .json, .mps or .lp) or
		taken from the built-in examples listed by "simplex-calc examples".`)

	solveExample = heredoc.Doc(`
		# Solve the built-in textbook problem
		simplex-calc solve --example textbook

		# Solve an MPS file and check the optimum against GLPK
		simplex-calc solve --file problem.mps --verify

		# Trace every pivot decision
		SIMPLEX_LOG_LEVEL=debug simplex-calc solve --example driver`)
)

// SolveOptions holds the resolved flags of the solve command.
type SolveOptions struct {
	File          string
	Example       string
	Epsilon       float64
	MaxIterations int
	MaxDimension  int
	Verify        bool
	ShowModel     bool

	v   *viper.Viper
	out io.Writer
}

func NewSolveCommand(v *viper.Viper, out io.Writer) *cobra.Command {
	o := &SolveOptions{v: v, out: out}

	cmd := &cobra.Command{
		Use:     "solve (--file FILE | --example NAME)",
		Short:   "Solve a linear program",
		Long:    solveLong,
		Example: solveExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Complete()
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run()
		},
	}

	flags := cmd.Flags()
	flags.StringP("file", "f", "", "Problem file (.yaml, .yml, .json, .mps, .lp)")
	flags.StringP("example", "e", "", "Built-in example name")
	flags.Float64("epsilon", simplex.DefaultTolerance, "Tolerance below which values count as zero")
	flags.Int("max-iterations", simplex.DefaultMaxIterations, "Pivot limit")
	flags.Int("max-dimension", simplex.DefaultMaxDimension, "Largest accepted number of constraints or variables")
	flags.Bool("verify", false, "Solve again with GLPK and compare the optimum")
	flags.Bool("show-model", false, "Print the model before the report")

	return cmd
}

// Complete reads the flag values through viper so that environment
// variables and the config file apply.
func (o *SolveOptions) Complete() {
	o.File = o.v.GetString("file")
	o.Example = o.v.GetString("example")
	o.Epsilon = o.v.GetFloat64("epsilon")
	o.MaxIterations = o.v.GetInt("max-iterations")
	o.MaxDimension = o.v.GetInt("max-dimension")
	o.Verify = o.v.GetBool("verify")
	o.ShowModel = o.v.GetBool("show-model")
}

func (o *SolveOptions) Validate() error {
	if (o.File == "") == (o.Example == "") {
		return ErrSource
	}
	if o.Epsilon < 0 {
		return fmt.Errorf("--epsilon must not be negative, got %v", o.Epsilon)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("--max-iterations must be positive, got %d", o.MaxIterations)
	}
	if o.MaxDimension < 1 {
		return fmt.Errorf("--max-dimension must be positive, got %d", o.MaxDimension)
	}
	return nil
}

func (o *SolveOptions) Run() error {
	m, err := o.model()
	if err != nil {
		return err
	}
	if o.ShowModel {
		m.Format(o.out)
		fmt.Fprintln(o.out)
	}

	tab, err := simplex.NewFromModel(m,
		simplex.WithTolerance(o.Epsilon),
		simplex.WithMaxIterations(o.MaxIterations),
		simplex.WithMaxDimension(o.MaxDimension),
	)
	if err != nil {
		return err
	}
	res, solveErr := tab.Solve()
	// the partial trace is still useful when the solve fails
	if err := report.Render(o.out, tab.Events()); err != nil {
		return errors.Wrap(err, "render report")
	}
	if solveErr != nil {
		return solveErr
	}
	log.Infof("%v after %d iterations", res.State, res.Iterations)

	if o.Verify {
		return o.verify(m, res)
	}
	return nil
}

func (o *SolveOptions) model() (*model.Model, error) {
	if o.File != "" {
		return instance.NewReader(o.File).Read()
	}
	b, err := instance.Lookup(o.Example)
	if err != nil {
		return nil, err
	}
	return b.Model()
}

func (o *SolveOptions) verify(m *model.Model, res *simplex.Result) error {
	ref, err := crosscheck.Solve(m)
	if err != nil {
		return err
	}
	if err := crosscheck.Compare(res, ref, verifyTolerance); err != nil {
		return err
	}
	if ref.Unbounded {
		fmt.Fprintln(o.out, "GLPK agrees: the problem is unbounded")
		return nil
	}
	fmt.Fprintf(o.out, "GLPK agrees: optimal objective = %.6f\n", ref.Objective)

	cert, err := simplex.Certify(m, res.Optimum.Basic, verifyTolerance)
	if err != nil {
		return err
	}
	fmt.Fprintln(o.out, "Shadow prices: ")
	for i, y := range cert.Duals {
		fmt.Fprintf(o.out, "y%d = %.6f\n", i+1, y)
	}
	return nil
}

const verifyTolerance = 1e-6
