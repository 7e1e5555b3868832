package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// dialectPath is shared by every subcommand via the root persistent flag.
var dialectPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mavforge",
		Short: "Schema-driven MAVLink v2 traffic generator",
		Long: `Mavforge builds MAVLink v2 wire frames from dialect XML message
definitions and pushes them at ground stations, telemetry radios, and
autopilots.

  gen     encode frames and print a byte-level dump
  send    transmit frames over a serial port or UDP at a fixed rate
  serve   stream generated frames to WebSocket clients
  mcp     expose the generator as MCP tools over stdio

Field values are synthesized from name heuristics (timestamps, sensor
readings, GPS coordinates) unless given explicitly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dialectPath, "dialect", "dialects/common.xml", "Dialect XML with message definitions")

	rootCmd.AddCommand(
		genCmd(),
		sendCmd(),
		serveCmd(),
		mcpCmd(),
		versionCmd(),
	)

	return rootCmd
}
