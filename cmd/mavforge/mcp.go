package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eytandecker/mavforge/internal/config"
	"github.com/eytandecker/mavforge/internal/dialect"
	"github.com/eytandecker/mavforge/internal/mavlink"
	internalmcp "github.com/eytandecker/mavforge/internal/mcp"
	"github.com/eytandecker/mavforge/internal/state"
	"github.com/eytandecker/mavforge/internal/synth"
	"github.com/eytandecker/mavforge/internal/transmit"
)

func mcpCmd() *cobra.Command {
	var idle bool

	cmd := &cobra.Command{
		Use:   "mcp [dialect.xml]",
		Short: "Expose the generator as MCP tools over stdio",
		Long: `Serve the Model Context Protocol over stdio. Tools:

  list_messages    dialect contents
  encode_frame     encode explicit field values
  generate_frame   synthesize values and encode
  traffic_status   current send session

Unless --idle is set, a background send loop pushes frames at the
configured UDP address so traffic_status has a live session to report.
Stdout carries the protocol; diagnostics go to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				dialectPath = args[0]
			}
			return runMCP(idle)
		},
	}

	cmd.Flags().BoolVar(&idle, "idle", false, "Serve tools only, without the background send loop")

	return cmd
}

func runMCP(idle bool) error {
	cfg := config.Load()

	d, err := dialect.Load(dialectPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	tracker := state.NewTracker(cfg.Traffic.StaleThreshold)
	enc := mavlink.NewEncoder(mavlink.Config{
		SystemID:    cfg.Identity.SystemID,
		ComponentID: cfg.Identity.ComponentID,
	})
	mcpServer := internalmcp.NewServer(d, enc, synth.New(nil), tracker)

	if !idle {
		go runSendLoop(ctx, cfg, d, enc, tracker)
	}

	if err := mcpServer.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runSendLoop pushes frames at the configured UDP address for the process
// lifetime. The encoder is shared with the MCP tools, so tool-built frames
// and loop frames come out of one sequence stream.
func runSendLoop(ctx context.Context, cfg config.Config, d *dialect.Dialect, enc *mavlink.Encoder, tracker *state.Tracker) {
	mode, err := mavlink.ParseCRCMode(cfg.Traffic.CRCMode)
	if err != nil {
		log.Printf("send loop: %v", err)
		return
	}

	var sink transmit.Sink
	udp, err := transmit.OpenUDP(cfg.UDP.Addr)
	if err != nil {
		log.Printf("send loop: %v (frames will be discarded)", err)
		sink = transmit.Discard
	} else {
		sink = udp
	}
	defer sink.Close()

	sender := transmit.NewSender(enc, synth.New(nil), sink, tracker)
	_, err = sender.Run(ctx, transmit.RunConfig{
		Message: d.First(),
		Mode:    mode,
		Rate:    cfg.Traffic.RateHz,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("send loop: %v", err)
	}
}
