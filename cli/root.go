// Package cli wires the tableau engine, problem readers and report renderer
// into a cobra command tree.
package cli

import (
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var log = logging.Logger("cli")

const envPrefix = "SIMPLEX"

var rootLong = heredoc.Doc(`
	Solve small linear programs with the tableau simplex method.

	Every problem is read in the form max (or min) c.x subject to A.x <= b,
	x >= 0 and b >= 0. The report lists the standard form, the tableau after
	each pivot and the optimum, or explains why the problem is unbounded.

	Flags may also be set through SIMPLEX_<FLAG> environment variables
	(dashes become underscores) or a YAML config file given with --config.`)

// NewRootCommand returns the simplex-calc command tree writing the report
// to out and diagnostics to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	v := viper.New()
	var configFile, logLevel string

	cmd := &cobra.Command{
		Use:           "simplex-calc",
		Short:         "Tableau simplex calculator",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, configFile, cmd.Flags()); err != nil {
				return err
			}
			level := v.GetString("log-level")
			if err := logging.SetLogLevel("*", level); err != nil {
				return errors.Wrapf(err, "log level %q", level)
			}
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file with flag defaults")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	cmd.AddCommand(NewSolveCommand(v, out))
	cmd.AddCommand(NewExamplesCommand(out))
	return cmd
}

// loadConfig binds flags to viper with precedence flag > env > config file >
// default.
func loadConfig(v *viper.Viper, configFile string, flags *pflag.FlagSet) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	if configFile == "" {
		return nil
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", configFile)
	}
	log.Debugf("using config file %s", v.ConfigFileUsed())
	return nil
}
