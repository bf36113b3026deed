// Package cmd wires the ilia command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ilia/pkg/logger"
	"github.com/oakwood-commons/ilia/pkg/settings"
)

var (
	configFile string
	debug      bool
	logFile    string
	noColor    bool

	run     = settings.NewCliParams()
	rootCtx = context.Background()
	// logSink is the open --log-file, closed by Execute.
	logSink io.Closer
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Keyboard-driven launcher for applications and windows",
	Long: `ilia opens a small filterable popup in the terminal.

Type to filter, move with the arrow keys (or ctrl+p / ctrl+n), press enter
to launch the highlighted item and esc to close. The popup also closes when
its terminal loses focus.`,
	Example:       "\n  ilia drun\n  ilia windows\n  ilia config --output toml\n",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupRun(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// setupRun resolves per-run settings and installs the logger. Logs go to a
// file because the popup owns the terminal.
func setupRun(cmd *cobra.Command) error {
	run.ConfigPath = configFile
	run.Mode = cmd.Name()
	run.NoColor = noColor || os.Getenv("NO_COLOR") != ""
	run.LogFile = strings.TrimSpace(logFile)
	run.MinLogLevel = 0
	if debug {
		run.MinLogLevel = -1
	}

	var sink io.Writer
	if run.LogFile != "" {
		f, err := logger.OpenFile(run.LogFile)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
		} else {
			sink = f
			logSink = f
		}
	}

	lgr := logger.New(run.MinLogLevel, sink)
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	rootCtx = settings.IntoContext(logger.WithLogger(parent, lgr), run)
	cmd.SetContext(rootCtx)
	return nil
}

// cliVersionString builds a human-readable version string for CLI output and Cobra's --version flag.
func cliVersionString() string {
	v := settings.Current()
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, settings.GoVersion())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print ilia version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return err
	},
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a YAML or TOML config file (default "+settings.DefaultConfigFile()+")")
	pf.BoolVar(&debug, "debug", false, "log at debug level")
	pf.StringVar(&logFile, "log-file", run.LogFile, "file receiving JSON logs; empty disables logging")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd, drunCmd, windowsCmd, configCmd)
}

// Execute runs the root command.
func Execute() error {
	defer closeLogSink()
	return rootCmd.Execute()
}

func closeLogSink() {
	if logSink == nil {
		return
	}
	logger.Sync()
	_ = logSink.Close()
	logSink = nil
}
