// Command stressforge exercises a host's CPU, memory, and network subsystems
// under synthetic load for a bounded duration.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stressforge/internal/output"
	"stressforge/internal/runner"
)

// errNoCommand signals that usage was already printed; exit 1 without noise.
var errNoCommand = errors.New("no subcommand")

var (
	cfgFile string
	jsonOut bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "stressforge",
	Short: "Stress test CPU, RAM, and network",
	Long: `stressforge generates synthetic load against a host's CPU, memory,
or network subsystem for a bounded duration and reports throughput.

Examples:
  stressforge cpu --duration 60s
  stressforge cpu --cores 4 --duration 30s
  stressforge ram --size 2048 --duration 60s
  stressforge network --mode server --port 9999 --duration 120s
  stressforge network --mode client --host 127.0.0.1 --port 9999 --clients 8 --duration 120s`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = cmd.Usage()
		return errNoCommand
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Emit the final report as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored status output")

	rootCmd.AddCommand(cpuCmd, ramCmd, networkCmd)
}

// newRunner wires the status printer and report writer for one invocation.
func newRunner() *runner.Runner {
	printer := output.NewPrinter(os.Stdout, !noColor)
	return runner.New(printer, printer, os.Stdout, jsonOut)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errNoCommand) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
