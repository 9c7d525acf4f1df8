// Package socketio serves game sessions over socket.io. Every connection is
// one session: the client sends player_input events and receives narration
// events until the session ends.
package socketio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/game"
	"github.com/specialistvlad/talegrid/internal/input"
	"github.com/specialistvlad/talegrid/internal/sessionstore"
	"github.com/zishang520/socket.io/v2/socket"
)

// Event names exchanged with clients.
const (
	EventPlayerInput = "player_input"
	EventNarration   = "narration"
	EventSession     = "session"
	EventSessionEnd  = "session_end"
)

// Path is where the socket.io handler is mounted.
const Path = "/socket.io/"

const inputBuffer = 16

// Server bridges socket.io connections to game sessions.
type Server struct {
	ctx    context.Context
	cancel context.CancelFunc
	game   *game.Game
	io     *socket.Server
	wg     sync.WaitGroup
}

// NewServer creates a server whose sessions live under ctx.
func NewServer(ctx context.Context, g *game.Game) *Server {
	ctx, cancel := context.WithCancel(ctx)
	s := &Server{
		ctx:    ctx,
		cancel: cancel,
		game:   g,
		io:     socket.NewServer(nil, nil),
	}
	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		s.accept(client)
	})
	return s
}

// Handler returns the HTTP handler to mount at Path.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close stops all sessions and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.io.Close(nil)
	s.wg.Wait()
}

func (s *Server) accept(client *socket.Socket) {
	id := sessionstore.NewID()
	ctx, cancel := context.WithCancel(ctxlog.With(s.ctx, "transport", "socketio"))
	logger := ctxlog.FromContext(ctx).With("session", id)
	logger.Info("🔌 Player connected.")

	q := input.NewQueue(inputBuffer)
	sink := game.SinkFunc(func(_ context.Context, text string) error {
		return client.Emit(EventNarration, text)
	})

	client.On(EventPlayerInput, func(args ...any) {
		line, err := utterance(args)
		if err != nil {
			logger.Warn("Ignoring malformed player input.", "error", err)
			return
		}
		if err := q.Push(ctx, line); err != nil {
			logger.Debug("Player input after session end.", "error", err)
		}
	})
	client.On("disconnect", func(...any) {
		logger.Info("🔌 Player disconnected.")
		q.Close()
		cancel()
	})

	if err := client.Emit(EventSession, map[string]any{"id": id}); err != nil {
		logger.Warn("Failed to announce session.", "error", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		st, err := s.game.Session(id, q, sink).Run(ctx)
		end := map[string]any{"id": id}
		switch {
		case err == nil:
			end["character"] = st.Character.Name
			end["phase"] = string(st.Phase)
		case errors.Is(err, input.ErrSessionTerminated), errors.Is(err, context.Canceled):
			return
		default:
			logger.Error("Session failed.", "error", err)
			end["error"] = err.Error()
		}
		if err := client.Emit(EventSessionEnd, end); err != nil {
			logger.Warn("Failed to announce session end.", "error", err)
		}
		client.Disconnect(true)
	}()
}

// utterance extracts the player's text from an event payload: either a
// plain string or an object with a "text" field.
func utterance(args []any) (string, error) {
	if len(args) == 0 {
		return "", errors.New("empty payload")
	}
	var text string
	switch v := args[0].(type) {
	case string:
		text = v
	case map[string]any:
		s, ok := v["text"].(string)
		if !ok {
			return "", errors.New("object payload without a text field")
		}
		text = s
	default:
		return "", fmt.Errorf("unsupported payload type %T", v)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("blank input")
	}
	return text, nil
}
