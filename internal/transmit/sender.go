package transmit

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/eytandecker/mavforge/internal/mavlink"
	"github.com/eytandecker/mavforge/internal/state"
	"github.com/eytandecker/mavforge/internal/synth"
	"github.com/eytandecker/mavforge/pkg/types"
)

// FramePublisher receives a copy of every transmitted frame. Implemented by
// the stream hub; defined here (consuming side) to avoid import cycles.
type FramePublisher interface {
	Publish(frame []byte)
}

// RunConfig controls one transmit run.
type RunConfig struct {
	Message *mavlink.Message
	Mode    mavlink.CRCMode

	// Rate is the target frame rate in Hz. Values at or below zero fall
	// back to 1 Hz.
	Rate float64

	// Duration bounds the run in wall time. Zero means no time bound.
	Duration time.Duration

	// MaxFrames bounds the run in send attempts. Zero means no bound.
	MaxFrames int

	// ProgressEvery logs a progress line every N sent frames. Zero gets
	// the default of 10; negative disables.
	ProgressEvery int
}

// Summary reports what a run accomplished.
type Summary struct {
	Frames  int
	Errors  int
	Bytes   int
	Elapsed time.Duration
	Rate    float64
}

// Sender generates, encodes, and transmits frames. It owns the encoder for
// the duration of a run, so all sequence numbers come out of a single
// loop.
type Sender struct {
	enc     *mavlink.Encoder
	gen     *synth.Generator
	sink    Sink
	tracker *state.Tracker
	pub     FramePublisher
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewSender wires a Sender to its encoder, value source, sink, and session
// tracker.
func NewSender(enc *mavlink.Encoder, gen *synth.Generator, sink Sink, tracker *state.Tracker) *Sender {
	return &Sender{
		enc:     enc,
		gen:     gen,
		sink:    sink,
		tracker: tracker,
		logger:  slog.Default().With("component", "sender"),
		tracer:  otel.Tracer("mavforge/transmit"),
	}
}

// SetPublisher attaches a frame fan-out target. Nil disables publishing.
func (s *Sender) SetPublisher(pub FramePublisher) {
	s.pub = pub
}

// Run transmits frames on a drift-free schedule until the duration
// elapses, the frame bound is reached, or ctx is cancelled. Failed sends
// are counted and the run continues; cancellation returns ctx.Err()
// alongside the summary so far.
func (s *Sender) Run(ctx context.Context, cfg RunConfig) (Summary, error) {
	rate := cfg.Rate
	if rate <= 0 {
		rate = 1
	}
	interval := time.Duration(float64(time.Second) / rate)
	progressEvery := cfg.ProgressEvery
	if progressEvery == 0 {
		progressEvery = 10
	}

	start := time.Now()
	var deadline time.Time
	if cfg.Duration > 0 {
		deadline = start.Add(cfg.Duration)
	}

	s.logger.Info("run started",
		"message", cfg.Message.Name,
		"id", cfg.Message.ID,
		"mode", cfg.Mode.String(),
		"rate_hz", rate)

	var sum Summary
	timer := time.NewTimer(0)
	defer timer.Stop()

	for n := 0; ; n++ {
		if cfg.MaxFrames > 0 && n >= cfg.MaxFrames {
			break
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}

		// Drift-free: the nth frame goes out at start + n*interval, so one
		// slow send does not push every later frame back.
		timer.Reset(time.Until(start.Add(time.Duration(n) * interval)))
		select {
		case <-ctx.Done():
			s.finish(&sum, start)
			return sum, ctx.Err()
		case <-timer.C:
		}

		s.sendOne(ctx, cfg, &sum)

		if progressEvery > 0 && sum.Frames > 0 && sum.Frames%progressEvery == 0 {
			s.logger.Info("progress",
				"frames", sum.Frames,
				"errors", sum.Errors,
				"elapsed", time.Since(start).Round(time.Millisecond))
		}
	}

	s.finish(&sum, start)
	s.logger.Info("run finished",
		"frames", sum.Frames,
		"errors", sum.Errors,
		"bytes", sum.Bytes,
		"rate_hz", sum.Rate)
	return sum, nil
}

func (s *Sender) finish(sum *Summary, start time.Time) {
	sum.Elapsed = time.Since(start)
	if secs := sum.Elapsed.Seconds(); secs > 0 {
		sum.Rate = float64(sum.Frames) / secs
	}
}

// sendOne synthesizes values, encodes one frame, and hands it to the sink.
// Failures are recorded; the caller decides whether to keep going.
func (s *Sender) sendOne(ctx context.Context, cfg RunConfig, sum *Summary) {
	_, span := s.tracer.Start(ctx, "transmit.send", trace.WithAttributes(
		attribute.Int64("mavforge.message_id", int64(cfg.Message.ID)),
		attribute.String("mavforge.message", cfg.Message.Name),
	))
	defer span.End()

	values := s.gen.Values(cfg.Message)

	encStart := time.Now()
	frame, err := s.enc.Encode(cfg.Message, values, cfg.Mode)
	if err != nil {
		s.fail(span, sum, "encode", err)
		return
	}
	encodeDuration.Observe(time.Since(encStart).Seconds())

	raw := frame.Bytes()
	if err := s.sink.Send(raw); err != nil {
		s.fail(span, sum, "transport", err)
		return
	}

	sum.Frames++
	sum.Bytes += len(raw)
	framesSent.WithLabelValues(cfg.Message.Name, cfg.Mode.String()).Inc()
	bytesSent.Add(float64(len(raw)))
	s.tracker.RecordFrame(types.FrameRecord{
		MessageID:   frame.MessageID,
		MessageName: cfg.Message.Name,
		Sequence:    frame.Sequence,
		Length:      len(raw),
		Checksum:    frame.Checksum,
		Hex:         frame.Hex(),
		SentAt:      time.Now(),
	})
	if s.pub != nil {
		s.pub.Publish(raw)
	}

	span.SetAttributes(
		attribute.Int("mavforge.bytes", len(raw)),
		attribute.Int("mavforge.sequence", int(frame.Sequence)),
	)
	span.SetStatus(codes.Ok, "")
}

func (s *Sender) fail(span trace.Span, sum *Summary, stage string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error("send failed", "stage", stage, "error", err)
	sum.Errors++
	sendErrors.WithLabelValues(stage).Inc()
	s.tracker.RecordError()
}
