package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/ilia/internal/config"
)

// formatFlag is a pflag.Value accepting the config encodings.
type formatFlag config.Format

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(*f) }

func (f *formatFlag) Set(s string) error {
	format, err := parseFormat(s)
	if err != nil {
		return err
	}
	*f = formatFlag(format)
	return nil
}

func (f *formatFlag) Type() string { return "format" }

var configOutput = formatFlag(config.FormatYAML)

// configCmd prints the configuration the launcher would run with.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

var configDefaultCmd = &cobra.Command{
	Use:   "default",
	Short: "Print the built-in default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config and log file locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cfgLoader.resolveConfigPath(configFile)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config: %s\n", path)
		fmt.Fprintf(out, "log:    %s\n", run.LogFile)
		return nil
	},
}

func parseFormat(s string) (config.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return config.FormatYAML, nil
	case "toml":
		return config.FormatTOML, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected yaml or toml)", s)
	}
}

func runConfigView(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := cfg.Marshal(config.Format(configOutput))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func init() { //nolint:gochecknoinits
	configCmd.Flags().VarP(&configOutput, "output", "o", "output format: yaml|toml")
	configCmd.AddCommand(configDefaultCmd, configPathCmd)
}
