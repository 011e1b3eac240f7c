package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"adsbtrack/internal/app"
)

func main() {
	var config app.Config
	var inactiveCutoffSeconds int

	rootCmd := &cobra.Command{
		Use:   "adsbtrack",
		Short: "Mode-S/ADS-B decoder and aircraft tracker",
		Long: `Decodes Mode-S/ADS-B downlink frames from a Beast-framed input stream
and maintains a bounded, most-recently-seen table of active aircraft.

Example usage:
  adsbtrack --beast-addr localhost:30005 --capacity 512 --station-lat 52.3 --station-lon 4.76`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion()
				return nil
			}

			config.InactiveCutoff = time.Duration(inactiveCutoffSeconds) * time.Second
			config.HasStation = cmd.Flags().Changed("station-lat") && cmd.Flags().Changed("station-lon")

			application := app.NewApplication(config)
			return application.Start()
		},
	}

	rootCmd.Flags().StringVar(&config.BeastAddr, "beast-addr", app.DefaultBeastAddr, "TCP host:port of a Beast-framed feed")
	rootCmd.Flags().StringVar(&config.BeastInput, "input", "", "read a Beast-framed stream from this file instead of dialing beast-addr")
	rootCmd.Flags().IntVarP(&config.Capacity, "capacity", "c", app.DefaultCapacity, "tracker slab capacity (N)")
	rootCmd.Flags().Float64Var(&config.StationLat, "station-lat", 0, "receiver station latitude (CPR surface reference)")
	rootCmd.Flags().Float64Var(&config.StationLon, "station-lon", 0, "receiver station longitude (CPR surface reference)")
	rootCmd.Flags().IntVar(&inactiveCutoffSeconds, "inactive-cutoff", int(app.DefaultInactiveCutoff/time.Second), "snapshot staleness cutoff, in seconds")
	rootCmd.Flags().StringVarP(&config.LogDir, "log-dir", "l", "", "log directory (disabled if empty)")
	rootCmd.Flags().BoolVarP(&config.LogRotateUTC, "utc", "u", true, "use UTC for log rotation")
	rootCmd.Flags().BoolVar(&config.BaseStationOut, "basestation-out", false, "write BaseStation (SBS-1) lines to the rotating log in log-dir")
	rootCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
