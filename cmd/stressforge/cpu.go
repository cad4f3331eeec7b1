package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"stressforge/internal/config"
)

var cpuCmd = &cobra.Command{
	Use:   "cpu",
	Short: "CPU stress test (parallel prime search)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultCPU()
		settings, err := config.LoadSettings(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.ApplySettings(settings); err != nil {
			return err
		}
		if err := applyCPUFlags(&cfg, cmd.Flags()); err != nil {
			return err
		}
		return newRunner().RunCPU(cmd.Context(), cfg)
	},
}

func init() {
	cpuCmd.Flags().Int("cores", 0, "Number of CPU cores to use (0 = all)")
	cpuCmd.Flags().DurationP("duration", "d", 60*time.Second, "How long to run the test (e.g. 30s, 1m)")
}

func applyCPUFlags(cfg *config.CPUConfig, fs *pflag.FlagSet) error {
	if fs.Changed("cores") {
		val, err := fs.GetInt("cores")
		if err != nil {
			return err
		}
		cfg.Cores = val
	}
	if fs.Changed("duration") {
		val, err := fs.GetDuration("duration")
		if err != nil {
			return err
		}
		cfg.Duration = val
	}
	return nil
}
