package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/logfwd/config"
	"github.com/kilianp07/logfwd/core/factory"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "logfwd",
	Short:         "Forward log lines and exceptions to telemetry sinks",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration file. The default file may be absent,
// in which case defaults and the environment apply. Without any sink the
// events are printed on the console.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := cfgPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if len(cfg.Sinks) == 0 {
		cfg.Sinks = []factory.ModuleConfig{{Type: "console"}}
	}
	return cfg, nil
}
