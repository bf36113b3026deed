package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/ilia/internal/config"
	"github.com/oakwood-commons/ilia/internal/launcher"
	"github.com/oakwood-commons/ilia/internal/sources/desktop"
	"github.com/oakwood-commons/ilia/internal/sources/sway"
	"github.com/oakwood-commons/ilia/pkg/logger"
	"github.com/oakwood-commons/ilia/pkg/selector"
	"github.com/oakwood-commons/ilia/pkg/tui"
)

var errNoTerminal = errors.New("ilia needs an interactive terminal")

var (
	isTerminalFn     = tui.IsTerminal
	openTerminalIOFn = openTerminalIO
)

var drunCmd = &cobra.Command{
	Use:   "drun",
	Short: "Launch a desktop application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		filter, err := compileFilter("drun.filter", cfg.Drun.Filter)
		if err != nil {
			return err
		}
		src := desktop.NewSource(cfg.ExpandedDirs(), cfg.Drun.Terminal, filter, launcher.Exec{})
		return runSelector[desktop.Entry](cmd.Context(), src, popupConfig(cfg, "ilia drun", cfg.Drun.Placeholder))
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Focus an open sway window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		filter, err := compileFilter("windows.filter", cfg.Windows.Filter)
		if err != nil {
			return err
		}
		src := sway.NewSource(cfg.Windows.Swaymsg, cfg.Windows.TitleWidth, filter, launcher.Exec{})
		return runSelector[sway.Window](cmd.Context(), src, popupConfig(cfg, "ilia windows", cfg.Windows.Placeholder))
	},
}

func popupConfig(cfg config.Config, title, placeholder string) tui.Config {
	pc := tui.FromConfig(cfg, placeholder)
	pc.AppName = title
	pc.NoColor = run.NoColor
	return pc
}

// runSelector shows the popup over src. Cancelling is not an error.
func runSelector[T selector.Item](ctx context.Context, src selector.Source[T], cfg tui.Config) error {
	opts, cleanup, err := getProgramOptions(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	lgr := logger.FromContext(ctx)
	out, err := tui.Run(ctx, src, cfg, opts...)
	if err != nil {
		lgr.Error(err, "popup failed")
		return fmt.Errorf("run popup: %w", err)
	}
	lgr.V(1).Info("session ended", "phase", out.Phase.String(), "invoked", out.Invoked)
	return nil
}

// getProgramOptions reopens the controlling terminal when stdio is
// redirected, so the popup still receives keys when started from a
// compositor binding with piped output.
func getProgramOptions(ctx context.Context) ([]tea.ProgramOption, func(), error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if isTerminalFn() {
		return opts, func() {}, nil
	}

	ttyIn, ttyOut, err := openTerminalIOFn()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errNoTerminal, err)
	}
	cleanup := func() {
		_ = ttyIn.Close()
		if ttyOut != nil && ttyOut != ttyIn {
			_ = ttyOut.Close()
		}
	}
	opts = append(opts, tea.WithInput(ttyIn))
	if ttyOut != nil {
		opts = append(opts, tea.WithOutput(ttyOut))
	}
	return opts, cleanup, nil
}

func openTerminalIO() (*os.File, *os.File, error) {
	in, out := terminalDeviceNames(runtime.GOOS)

	input, err := os.OpenFile(in, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}

	if out == "" || out == in {
		return input, input, nil
	}

	output, err := os.OpenFile(out, os.O_RDWR, 0)
	if err != nil {
		_ = input.Close()
		return nil, nil, err
	}

	return input, output, nil
}

func terminalDeviceNames(goos string) (input string, output string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}

	return "/dev/tty", "/dev/tty"
}
