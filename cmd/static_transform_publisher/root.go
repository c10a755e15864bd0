package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/open-teleop/tfpublisher/pkg/config"
	"github.com/spf13/cobra"
)

// RootOptions holds the command line flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string // overrides logging.level from the config file
	LogDir     string // overrides logging.log_path from the config file
}

// runFunc starts the publisher and blocks until ctx is done.
type runFunc func(ctx context.Context, opts *RootOptions, params *config.StartupParams) error

// NewRootCommand creates the static_transform_publisher command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(run)
}

func newRootCommand(runner runFunc) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "static_transform_publisher [flags] x y z (yaw pitch roll | qx qy qz qw) frame_id child_frame_id period_in_ms",
		Short:        "Periodically republish a fixed, live-editable transform",
		Long:         config.Usage,
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.ParseStartupArgs(args)
			if err != nil {
				if errors.Is(err, config.ErrArgCount) {
					fmt.Fprintln(cmd.ErrOrStderr(), config.Usage)
				}
				return err
			}
			return runner(cmd.Context(), opts, params)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "bootstrap YAML file (transports and logging)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.LogDir, "log-dir", "", "directory for the log file")

	return cmd
}

// flagsWithValue are the flags whose value is the following token.
var flagsWithValue = map[string]bool{
	"-c":          true,
	"--config":    true,
	"--log-level": true,
	"--log-dir":   true,
}

// positionalArgs inserts "--" before the first positional argument so that
// negative coordinates such as -1.5 are not parsed as flags. Flags must
// therefore come before the transform.
func positionalArgs(args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return args
		}
		if flagsWithValue[a] {
			i++
			continue
		}
		if _, err := strconv.ParseFloat(a, 64); err == nil || !strings.HasPrefix(a, "-") {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
	}
	return args
}
