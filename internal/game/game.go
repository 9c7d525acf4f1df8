// Package game plays whole sessions: it runs a sequence of acts (graph
// definitions) on one session state, streams narration to the player and
// keeps the state in a session repository.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/talegrid/internal/ctxlog"
	"github.com/specialistvlad/talegrid/internal/engine"
	"github.com/specialistvlad/talegrid/internal/graph"
	"github.com/specialistvlad/talegrid/internal/input"
	"github.com/specialistvlad/talegrid/internal/sessionstore"
	"github.com/specialistvlad/talegrid/internal/state"
)

// Sink receives the narration of a session as it is produced.
type Sink interface {
	Narrate(ctx context.Context, text string) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, text string) error

func (f SinkFunc) Narrate(ctx context.Context, text string) error { return f(ctx, text) }

// Game holds what every session shares. It is safe for concurrent use.
type Game struct {
	engine *engine.Engine
	repo   sessionstore.Repository
	acts   []*graph.Definition
}

// New returns a game that plays acts, in order, on every session.
func New(eng *engine.Engine, repo sessionstore.Repository, acts ...*graph.Definition) (*Game, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	if repo == nil {
		return nil, errors.New("session repository is required")
	}
	if len(acts) == 0 {
		return nil, errors.New("at least one act is required")
	}
	for i, a := range acts {
		if a == nil {
			return nil, fmt.Errorf("act %d is nil", i)
		}
	}
	return &Game{engine: eng, repo: repo, acts: acts}, nil
}

// Acts returns the names of the acts in play order.
func (g *Game) Acts() []string {
	out := make([]string, len(g.acts))
	for i, a := range g.acts {
		out[i] = a.Name()
	}
	return out
}

// Session binds one player's input and output to a session id.
type Session struct {
	ID   string
	game *Game
	src  input.Source
	sink Sink
}

// Session creates a session. An empty id gets a fresh one.
func (g *Game) Session(id string, src input.Source, sink Sink) *Session {
	if strings.TrimSpace(id) == "" {
		id = sessionstore.NewID()
	}
	return &Session{ID: id, game: g, src: src, sink: sink}
}

// Run plays every act and returns the final state. The state is saved after
// each completed act and released from the repository when Run returns.
// A player who leaves early ends the run with input.ErrSessionTerminated.
func (s *Session) Run(ctx context.Context) (*state.SessionState, error) {
	ctx = ctxlog.With(ctx, "session", s.ID)
	logger := ctxlog.FromContext(ctx)

	st, created, err := s.game.repo.Acquire(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	logger.Info("🎲 Session started.", "resumed", !created)
	defer func() {
		if err := s.game.repo.Release(context.WithoutCancel(ctx), s.ID); err != nil {
			logger.Warn("Failed to release session.", "error", err)
		}
		logger.Info("👋 Session ended.")
	}()

	ctx = input.NewContext(ctx, s.src)
	obs := engine.ObserverFunc(s.stream)

	for _, act := range s.game.acts {
		st, err = s.game.engine.Run(ctx, act, st, engine.WithObserver(obs))
		if err != nil {
			if errors.Is(err, input.ErrSessionTerminated) {
				logger.Info("Player left the session.", "act", act.Name())
			}
			return st, err
		}
		if err := s.game.repo.Save(ctx, s.ID, st); err != nil {
			return st, fmt.Errorf("save session after act '%s': %w", act.Name(), err)
		}
		logger.Debug("Act complete.", "act", act.Name(), "phase", st.Phase)
	}
	return st, nil
}

// stream forwards the narration of one step to the sink. Delivery failures
// are logged and do not stop the session.
func (s *Session) stream(ctx context.Context, ev engine.StepEvent) {
	if s.sink == nil {
		return
	}
	for _, text := range ev.Update.SystemMessages {
		if err := s.sink.Narrate(ctx, text); err != nil {
			ctxlog.FromContext(ctx).Warn("Failed to deliver narration.", "node", ev.Node, "error", err)
		}
	}
}
