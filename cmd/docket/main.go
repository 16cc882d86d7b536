// Package main implements the docket CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docket/internal/config"
	"docket/internal/trace"
	"docket/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "docket",
	Short:         "Documentation model builder",
	Long:          `docket merges documentation units into one model of classes, modules and their members`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		session, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		if session != nil {
			cleanups = append(cleanups, func() {
				if err := session.Stop(); err != nil {
					fmt.Fprintf(os.Stderr, "profile: %v\n", err)
				}
			})
		}
		traceCleanup, err := setupTracing(cmd)
		if err != nil {
			runCleanups()
			return err
		}
		cleanups = append(cleanups, traceCleanup)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanups()
	},
}

// cleanups run in reverse order once the command finishes.
var cleanups []func()

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// main applies DOCKETOPT and drops retired flags, registers subcommands and
// persistent flags, and executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	rootCmd.Version = version.Plain()

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(markupCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per unit (0=unlimited)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|stage|unit|entity)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", trace.DefaultRingSize, "events kept in ring mode")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	args, retired := config.StripDeprecated(config.PrependEnv(os.Args[1:], os.Getenv(config.EnvVar)))
	for _, d := range retired {
		fmt.Fprintf(os.Stderr, "option %s is deprecated: %s\n", d.Flag, d.Reason)
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		dumpTraceRing()
		runCleanups()
		if err != errQuietFailure {
			fmt.Fprintf(os.Stderr, "docket: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against stdout.
func useColor(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
