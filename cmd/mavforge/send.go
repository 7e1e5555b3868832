package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eytandecker/mavforge/internal/config"
	"github.com/eytandecker/mavforge/internal/dialect"
	"github.com/eytandecker/mavforge/internal/mavlink"
	"github.com/eytandecker/mavforge/internal/state"
	"github.com/eytandecker/mavforge/internal/stream"
	"github.com/eytandecker/mavforge/internal/transmit"
)

type sendOptions struct {
	msgID       int64
	msgName     string
	rate        float64
	duration    time.Duration
	maxFrames   int
	mode        string
	port        string
	baud        int
	udpAddr     string
	listenAddr  string
	seed        int64
	systemID    uint8
	componentID uint8
}

func sendCmd() *cobra.Command {
	cfg := config.Load()
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send [dialect.xml]",
		Short: "Transmit frames over serial or UDP at a fixed rate",
		Long: `Send encoded frames to a telemetry radio or a ground station.

A serial port takes precedence when --port is set; otherwise frames go
out as UDP datagrams, one frame per datagram. The run stops after
--duration (0 = until interrupted), after --frames frames, or on Ctrl-C.

Common telemetry radio baud rates: 57600, 115200, 921600.

Examples:
  mavforge send --port /dev/ttyUSB0 --baud 57600 --id 50000 --rate 5
  mavforge send --udp 127.0.0.1:14550 --rate 2 --duration 30s
  mavforge send --udp 10.0.0.9:14550 --listen :8070`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				dialectPath = args[0]
			}
			return runSend(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Int64Var(&opts.msgID, "id", -1, "Message ID to send (default: first in the dialect)")
	cmd.Flags().StringVar(&opts.msgName, "name", "", "Message name to send")
	cmd.Flags().Float64Var(&opts.rate, "rate", cfg.Traffic.RateHz, "Send rate in Hz")
	cmd.Flags().DurationVar(&opts.duration, "duration", cfg.Traffic.Duration, "How long to send (0 = until interrupted)")
	cmd.Flags().IntVar(&opts.maxFrames, "frames", 0, "Stop after this many frames (0 = no bound)")
	cmd.Flags().StringVar(&opts.mode, "mode", cfg.Traffic.CRCMode, "CRC mode (seeded, plain)")
	cmd.Flags().StringVar(&opts.port, "port", cfg.Serial.Port, "Serial port (e.g. /dev/ttyUSB0, COM3)")
	cmd.Flags().IntVar(&opts.baud, "baud", cfg.Serial.Baud, "Serial baud rate")
	cmd.Flags().StringVar(&opts.udpAddr, "udp", cfg.UDP.Addr, "UDP target address")
	cmd.Flags().StringVar(&opts.listenAddr, "listen", "", "Also serve /ws, /api and /metrics on this address")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed for value synthesis (0 = time-based)")
	cmd.Flags().Uint8Var(&opts.systemID, "system", cfg.Identity.SystemID, "System ID")
	cmd.Flags().Uint8Var(&opts.componentID, "component", cfg.Identity.ComponentID, "Component ID")

	return cmd
}

func runSend(w io.Writer, opts sendOptions) error {
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

	var sink transmit.Sink
	if opts.port != "" {
		serialCfg := transmit.DefaultSerialConfig(opts.port)
		serialCfg.Baud = opts.baud
		s, err := transmit.OpenSerial(serialCfg)
		if err != nil {
			return err
		}
		sink = s
		fmt.Fprintf(w, "Connected to %s at %d baud\n", opts.port, opts.baud)
	} else {
		u, err := transmit.OpenUDP(opts.udpAddr)
		if err != nil {
			return err
		}
		sink = u
		fmt.Fprintf(w, "Sending to udp %s\n", opts.udpAddr)
	}
	defer sink.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracker := state.NewTracker(cfg.Traffic.StaleThreshold)
	enc := mavlink.NewEncoder(mavlink.Config{SystemID: opts.systemID, ComponentID: opts.componentID})
	sender := transmit.NewSender(enc, newGenerator(opts.seed), sink, tracker)

	if opts.listenAddr != "" {
		hub := stream.NewHub()
		sender.SetPublisher(hub)
		srv := stream.NewServer(hub, d, tracker)
		go func() {
			if err := srv.ListenAndServe(ctx, opts.listenAddr); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("stream server: %v", err)
			}
		}()
		fmt.Fprintf(w, "Streaming on %s\n", opts.listenAddr)
	}

	fmt.Fprintf(w, "Sending %s (ID %d) at %.1f Hz\n", def.Name, def.ID, opts.rate)

	sum, err := sender.Run(ctx, transmit.RunConfig{
		Message:   def,
		Mode:      mode,
		Rate:      opts.rate,
		Duration:  opts.duration,
		MaxFrames: opts.maxFrames,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	writeSummary(w, sum)
	return nil
}

func writeSummary(w io.Writer, sum transmit.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Frames sent:  %d\n", sum.Frames)
	fmt.Fprintf(w, "  Send errors:  %d\n", sum.Errors)
	fmt.Fprintf(w, "  Bytes sent:   %d\n", sum.Bytes)
	fmt.Fprintf(w, "  Total time:   %.1fs\n", sum.Elapsed.Seconds())
	fmt.Fprintf(w, "  Average rate: %.1f Hz\n", sum.Rate)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}
