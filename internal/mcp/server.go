package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/eytandecker/mavforge/internal/dialect"
	"github.com/eytandecker/mavforge/internal/mavlink"
	"github.com/eytandecker/mavforge/internal/state"
	"github.com/eytandecker/mavforge/internal/synth"
	"github.com/eytandecker/mavforge/pkg/types"
)

// StatsProvider is the subset of state.Tracker used by the MCP server.
type StatsProvider interface {
	Stats() (types.SessionStats, error)
}

// errMissingSelector flags a tool call that named no message at all.
var errMissingSelector = errors.New("mcp: message_id or message_name required")

// Server wraps the MCP SDK server and exposes the frame generator as
// tools.
type Server struct {
	sdk     *mcpsdk.Server
	dialect *dialect.Dialect
	enc     *mavlink.Encoder
	gen     *synth.Generator
	stats   StatsProvider
}

// NewServer creates a Server and registers the generator tools.
func NewServer(d *dialect.Dialect, enc *mavlink.Encoder, gen *synth.Generator, stats StatsProvider) *Server {
	s := &Server{
		sdk: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    "mavforge",
			Version: "1.0.0",
		}, nil),
		dialect: d,
		enc:     enc,
		gen:     gen,
		stats:   stats,
	}

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "list_messages",
		Description: "Lists the message definitions loaded from the dialect XML: ids, names, and payload field layouts.",
	}, s.handleListMessages)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "encode_frame",
		Description: "Encodes one MAVLink v2 frame from explicit field values and returns the wire bytes as hex.",
	}, s.handleEncodeFrame)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "generate_frame",
		Description: "Synthesizes plausible field values for a message and returns the encoded frame together with the values used.",
	}, s.handleGenerateFrame)

	mcpsdk.AddTool(s.sdk, &mcpsdk.Tool{
		Name:        "traffic_status",
		Description: "Reports the current transmit session: frames sent, errors, bytes, and the most recent frame.",
	}, s.handleTrafficStatus)

	return s
}

// Run starts the MCP server over stdio and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.sdk.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect connects the server to an existing transport (used in tests).
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.sdk.Connect(ctx, t, nil)
}

// listMessagesInput has no arguments.
type listMessagesInput struct{}

// encodeFrameInput selects a message and supplies its field values.
type encodeFrameInput struct {
	MessageID   *uint32        `json:"message_id,omitempty"`
	MessageName string         `json:"message_name,omitempty"`
	Values      map[string]any `json:"values,omitempty"`
	Mode        string         `json:"mode,omitempty"`
}

// generateFrameInput selects a message to synthesize values for.
type generateFrameInput struct {
	MessageID   *uint32 `json:"message_id,omitempty"`
	MessageName string  `json:"message_name,omitempty"`
	Mode        string  `json:"mode,omitempty"`
}

// trafficStatusInput has no arguments.
type trafficStatusInput struct{}

// FieldInfo describes one payload field in list_messages output.
type FieldInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Width int    `json:"width"`
}

// MessageInfo describes one message definition in list_messages output.
type MessageInfo struct {
	ID          uint32      `json:"id"`
	Name        string      `json:"name"`
	PayloadSize int         `json:"payload_size"`
	Fields      []FieldInfo `json:"fields"`
}

// MessageListResponse is the JSON payload returned by list_messages.
type MessageListResponse struct {
	Source   string        `json:"source,omitempty"`
	Count    int           `json:"count"`
	Messages []MessageInfo `json:"messages"`
}

// FrameResponse is the JSON payload returned by encode_frame and
// generate_frame.
type FrameResponse struct {
	MessageID   uint32         `json:"message_id"`
	MessageName string         `json:"message_name"`
	Sequence    uint8          `json:"sequence"`
	Length      int            `json:"length_bytes"`
	Checksum    uint16         `json:"checksum"`
	CRCMode     string         `json:"crc_mode"`
	FrameHex    string         `json:"frame_hex"`
	Values      map[string]any `json:"values,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

// TrafficStatusResponse is the JSON payload returned by traffic_status.
type TrafficStatusResponse struct {
	RunID       string            `json:"run_id"`
	FramesSent  uint64            `json:"frames_sent"`
	SendErrors  uint64            `json:"send_errors"`
	BytesSent   uint64            `json:"bytes_sent"`
	AverageRate float64           `json:"average_rate_hz"`
	LastFrame   types.FrameRecord `json:"last_frame"`
	Timestamp   string            `json:"timestamp"`
}

// EncodeFailureResponse is returned when a tool cannot produce a result.
type EncodeFailureResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code"`
	Recoverable bool   `json:"recoverable"`
	Suggestion  string `json:"suggestion"`
	Timestamp   string `json:"timestamp"`
}

func (s *Server) handleListMessages(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input listMessagesInput,
) (*mcpsdk.CallToolResult, any, error) {
	msgs := s.dialect.Messages()
	resp := MessageListResponse{
		Source:   s.dialect.Source(),
		Count:    len(msgs),
		Messages: make([]MessageInfo, 0, len(msgs)),
	}
	for _, m := range msgs {
		info := MessageInfo{
			ID:          m.ID,
			Name:        m.Name,
			PayloadSize: m.PayloadSize(),
			Fields:      make([]FieldInfo, 0, len(m.Fields)),
		}
		for _, f := range m.Fields {
			info.Fields = append(info.Fields, FieldInfo{
				Name:  f.Name,
				Type:  f.Type.String(),
				Width: f.Type.Width(),
			})
		}
		resp.Messages = append(resp.Messages, info)
	}
	return s.jsonResult(resp)
}

func (s *Server) handleEncodeFrame(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input encodeFrameInput,
) (*mcpsdk.CallToolResult, any, error) {
	def, err := s.resolveMessage(input.MessageID, input.MessageName)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	mode, err := mavlink.ParseCRCMode(input.Mode)
	if err != nil {
		return s.errorResult(err), nil, nil
	}

	frame, err := s.enc.Encode(def, input.Values, mode)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	return s.frameResult(def, frame, mode, input.Values)
}

func (s *Server) handleGenerateFrame(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input generateFrameInput,
) (*mcpsdk.CallToolResult, any, error) {
	def, err := s.resolveMessage(input.MessageID, input.MessageName)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	mode, err := mavlink.ParseCRCMode(input.Mode)
	if err != nil {
		return s.errorResult(err), nil, nil
	}

	values := s.gen.Values(def)
	frame, err := s.enc.Encode(def, values, mode)
	if err != nil {
		return s.errorResult(err), nil, nil
	}
	return s.frameResult(def, frame, mode, values)
}

func (s *Server) handleTrafficStatus(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	input trafficStatusInput,
) (*mcpsdk.CallToolResult, any, error) {
	stats, err := s.stats.Stats()
	if err != nil {
		return s.errorResult(err), nil, nil
	}

	return s.jsonResult(TrafficStatusResponse{
		RunID:       stats.RunID,
		FramesSent:  stats.FramesSent,
		SendErrors:  stats.SendErrors,
		BytesSent:   stats.BytesSent,
		AverageRate: stats.AverageRate,
		LastFrame:   stats.LastFrame,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

// resolveMessage picks the requested definition by id when given, by name
// otherwise.
func (s *Server) resolveMessage(id *uint32, name string) (*mavlink.Message, error) {
	switch {
	case id != nil:
		return s.dialect.MessageByID(*id)
	case name != "":
		return s.dialect.MessageByName(name)
	default:
		return nil, errMissingSelector
	}
}

func (s *Server) frameResult(def *mavlink.Message, frame *mavlink.Frame, mode mavlink.CRCMode, values map[string]any) (*mcpsdk.CallToolResult, any, error) {
	return s.jsonResult(FrameResponse{
		MessageID:   frame.MessageID,
		MessageName: def.Name,
		Sequence:    frame.Sequence,
		Length:      frame.Len(),
		Checksum:    frame.Checksum,
		CRCMode:     mode.String(),
		FrameHex:    frame.Hex(),
		Values:      values,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) jsonResult(v any) (*mcpsdk.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil, nil
}

func (s *Server) errorResult(err error) *mcpsdk.CallToolResult {
	resp := EncodeFailureResponse{
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	switch {
	case errors.Is(err, mavlink.ErrUnknownMessage):
		resp.Code = "UNKNOWN_MESSAGE"
		resp.Recoverable = true
		resp.Suggestion = "Call list_messages to see the loaded dialect."
	case errors.Is(err, errMissingSelector):
		resp.Code = "MISSING_MESSAGE_SELECTOR"
		resp.Recoverable = true
		resp.Suggestion = "Pass message_id or message_name."
	case errors.Is(err, mavlink.ErrMissingFieldValue):
		resp.Code = "MISSING_FIELD_VALUE"
		resp.Recoverable = true
		resp.Suggestion = "Provide a value for every declared field."
	case errors.Is(err, mavlink.ErrValueOutOfRange):
		resp.Code = "VALUE_OUT_OF_RANGE"
		resp.Recoverable = true
		resp.Suggestion = "Fit the value to the field's declared width."
	case errors.Is(err, mavlink.ErrUnknownCRCMode):
		resp.Code = "INVALID_CRC_MODE"
		resp.Recoverable = true
		resp.Suggestion = "Use \"seeded\" or \"plain\"."
	case errors.Is(err, mavlink.ErrUnsupportedFieldType):
		resp.Code = "UNSUPPORTED_FIELD_TYPE"
		resp.Recoverable = false
		resp.Suggestion = "Fix the field type in the dialect XML."
	case errors.Is(err, mavlink.ErrPayloadTooLarge):
		resp.Code = "PAYLOAD_TOO_LARGE"
		resp.Recoverable = false
		resp.Suggestion = "Trim the message definition below 256 payload bytes."
	case errors.Is(err, state.ErrNoTraffic):
		resp.Code = "NO_TRAFFIC"
		resp.Recoverable = true
		resp.Suggestion = "Start a transmit run first."
	default:
		resp.Code = "UNKNOWN_ERROR"
		resp.Recoverable = false
		resp.Suggestion = "Check application logs for details."
	}

	data, _ := json.Marshal(resp)
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
		IsError: true,
	}
}
