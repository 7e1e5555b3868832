package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eytandecker/mavforge/internal/config"
	"github.com/eytandecker/mavforge/internal/dialect"
	"github.com/eytandecker/mavforge/internal/mavlink"
	"github.com/eytandecker/mavforge/internal/state"
	"github.com/eytandecker/mavforge/internal/stream"
	"github.com/eytandecker/mavforge/internal/transmit"
)

type serveOptions struct {
	addr        string
	msgID       int64
	msgName     string
	rate        float64
	mode        string
	seed        int64
	systemID    uint8
	componentID uint8
}

func serveCmd() *cobra.Command {
	cfg := config.Load()
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve [dialect.xml]",
		Short: "Stream generated frames to WebSocket clients",
		Long: `Run the streaming server without a radio attached. Frames are
generated continuously and fanned out to WebSocket subscribers on /ws.
/api/messages and /api/status expose the dialect and the session, and
/metrics serves Prometheus metrics.

Examples:
  mavforge serve
  mavforge serve --addr :9090 --id 50000 --rate 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				dialectPath = args[0]
			}
			return runServe(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", cfg.HTTP.Addr, "Listen address")
	cmd.Flags().Int64Var(&opts.msgID, "id", -1, "Message ID to stream (default: first in the dialect)")
	cmd.Flags().StringVar(&opts.msgName, "name", "", "Message name to stream")
	cmd.Flags().Float64Var(&opts.rate, "rate", cfg.Traffic.RateHz, "Frame rate in Hz")
	cmd.Flags().StringVar(&opts.mode, "mode", cfg.Traffic.CRCMode, "CRC mode (seeded, plain)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed for value synthesis (0 = time-based)")
	cmd.Flags().Uint8Var(&opts.systemID, "system", cfg.Identity.SystemID, "System ID")
	cmd.Flags().Uint8Var(&opts.componentID, "component", cfg.Identity.ComponentID, "Component ID")

	return cmd
}

func runServe(w io.Writer, opts serveOptions) error {
	cfg := config.Load()

	d, err := dialect.Load(dialectPath)
	if err != nil {
		return err
	}
	def, err := resolveMessage(d, opts.msgID, opts.msgName)
	if err != nil {
		return err
	}
	mode, err := mavlink.ParseCRCMode(opts.mode)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracker := state.NewTracker(cfg.Traffic.StaleThreshold)
	enc := mavlink.NewEncoder(mavlink.Config{SystemID: opts.systemID, ComponentID: opts.componentID})
	hub := stream.NewHub()

	sender := transmit.NewSender(enc, newGenerator(opts.seed), transmit.Discard, tracker)
	sender.SetPublisher(hub)

	go func() {
		_, err := sender.Run(ctx, transmit.RunConfig{
			Message: def,
			Mode:    mode,
			Rate:    opts.rate,
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("send loop: %v", err)
		}
	}()

	fmt.Fprintf(w, "Streaming %s (ID %d) at %.1f Hz on %s\n", def.Name, def.ID, opts.rate, opts.addr)

	srv := stream.NewServer(hub, d, tracker)
	if err := srv.ListenAndServe(ctx, opts.addr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
