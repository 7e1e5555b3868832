package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eytandecker/mavforge/internal/dialect"
	"github.com/eytandecker/mavforge/internal/state"
)

const (
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server exposes the live frame stream and the operational endpoints.
type Server struct {
	hub      *Hub
	dialect  *dialect.Dialect
	tracker  *state.Tracker
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer wires the handler to its hub, dialect, and session tracker.
func NewServer(hub *Hub, d *dialect.Dialect, tracker *state.Tracker) *Server {
	return &Server{
		hub:     hub,
		dialect: d,
		tracker: tracker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The tool serves localhost dashboards; any origin may attach.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: slog.Default().With("component", "stream"),
	}
}

// Handler returns the chi router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/ws", s.handleWS)
	r.Get("/api/messages", s.handleMessages)
	r.Get("/api/status", s.handleStatus)
	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok\n"))
}

// messageInfo is the /api/messages JSON shape for one definition.
type messageInfo struct {
	ID          uint32      `json:"id"`
	Name        string      `json:"name"`
	PayloadSize int         `json:"payload_size"`
	Fields      []fieldInfo `json:"fields"`
}

type fieldInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Width int    `json:"width"`
}

func (s *Server) handleMessages(w http.ResponseWriter, _ *http.Request) {
	msgs := s.dialect.Messages()
	out := make([]messageInfo, 0, len(msgs))
	for _, m := range msgs {
		info := messageInfo{
			ID:          m.ID,
			Name:        m.Name,
			PayloadSize: m.PayloadSize(),
			Fields:      make([]fieldInfo, 0, len(m.Fields)),
		}
		for _, f := range m.Fields {
			info.Fields = append(info.Fields, fieldInfo{
				Name:  f.Name,
				Type:  f.Type.String(),
				Width: f.Type.Width(),
			})
		}
		out = append(out, info)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.tracker.Stats()
	if err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// handleWS upgrades the connection and streams raw frames until the client
// goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	id, frames := s.hub.Subscribe()
	defer s.hub.Unsubscribe(id)
	s.logger.Info("stream client connected", "id", id, "remote", r.RemoteAddr)

	// Reader goroutine notices the client closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				s.logger.Info("stream client write failed", "id", id, "error", err)
				return
			}
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}
