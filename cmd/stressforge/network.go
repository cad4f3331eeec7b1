package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"stressforge/internal/config"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Network stress test (TCP echo server or client swarm)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultNetwork()
		settings, err := config.LoadSettings(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.ApplySettings(settings); err != nil {
			return err
		}
		if err := applyNetworkFlags(&cfg, cmd.Flags()); err != nil {
			return err
		}
		return newRunner().RunNetwork(cmd.Context(), cfg)
	},
}

func init() {
	networkCmd.Flags().String("mode", "", "Run as 'server' or 'client' (required)")
	networkCmd.Flags().String("host", config.DefaultHost, "Host address to bind or connect to")
	networkCmd.Flags().IntP("port", "p", config.DefaultPort, "Port number")
	networkCmd.Flags().DurationP("duration", "d", 60*time.Second, "How long to run the test (e.g. 30s, 1m)")
	networkCmd.Flags().Int("clients", config.DefaultClients, "Number of client workers (client mode only)")
}

func applyNetworkFlags(cfg *config.NetworkConfig, fs *pflag.FlagSet) error {
	if fs.Changed("mode") {
		val, err := fs.GetString("mode")
		if err != nil {
			return err
		}
		cfg.Mode = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("host") {
		val, err := fs.GetString("host")
		if err != nil {
			return err
		}
		cfg.Host = strings.TrimSpace(val)
	}
	if fs.Changed("port") {
		val, err := fs.GetInt("port")
		if err != nil {
			return err
		}
		cfg.Port = val
	}
	if fs.Changed("duration") {
		val, err := fs.GetDuration("duration")
		if err != nil {
			return err
		}
		cfg.Duration = val
	}
	if fs.Changed("clients") {
		val, err := fs.GetInt("clients")
		if err != nil {
			return err
		}
		cfg.Clients = val
	}
	return nil
}
