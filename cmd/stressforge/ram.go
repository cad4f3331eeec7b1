package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"stressforge/internal/config"
)

var ramCmd = &cobra.Command{
	Use:   "ram",
	Short: "RAM stress test (allocate and hold memory)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultRAM()
		settings, err := config.LoadSettings(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.ApplySettings(settings); err != nil {
			return err
		}
		if err := applyRAMFlags(&cfg, cmd.Flags()); err != nil {
			return err
		}
		return newRunner().RunRAM(cmd.Context(), cfg)
	},
}

func init() {
	ramCmd.Flags().Int("size", config.DefaultSizeMB, "Total memory to allocate in MB")
	ramCmd.Flags().DurationP("duration", "d", 60*time.Second, "How long to run the test (e.g. 30s, 1m)")
	ramCmd.Flags().Int("threads", config.DefaultThreads, "Number of worker threads to split the allocation across")
}

func applyRAMFlags(cfg *config.RAMConfig, fs *pflag.FlagSet) error {
	if fs.Changed("size") {
		val, err := fs.GetInt("size")
		if err != nil {
			return err
		}
		cfg.SizeMB = val
	}
	if fs.Changed("duration") {
		val, err := fs.GetDuration("duration")
		if err != nil {
			return err
		}
		cfg.Duration = val
	}
	if fs.Changed("threads") {
		val, err := fs.GetInt("threads")
		if err != nil {
			return err
		}
		cfg.Threads = val
	}
	return nil
}
