package socketio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/talegrid/grids"
	"github.com/specialistvlad/talegrid/internal/engine"
	"github.com/specialistvlad/talegrid/internal/game"
	"github.com/specialistvlad/talegrid/internal/intent"
	"github.com/specialistvlad/talegrid/internal/sessionstore"
	"github.com/specialistvlad/talegrid/internal/testutil"
	"github.com/specialistvlad/talegrid/modules/charcreation"
	"github.com/specialistvlad/talegrid/modules/common"
	"github.com/specialistvlad/talegrid/modules/intro"
	"github.com/specialistvlad/talegrid/modules/village"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// releaseLog records which sessions the game tore down.
type releaseLog struct {
	*sessionstore.Memory
	mu  sync.Mutex
	ids []string
}

func (r *releaseLog) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
	return r.Memory.Release(ctx, id)
}

func (r *releaseLog) released(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.ids {
		if got == id {
			return true
		}
	}
	return false
}

// player is the client side of one connection.
type player struct {
	mu        sync.Mutex
	session   string
	narration []string
	end       map[string]any
	ready     chan struct{}
	conn      *socket.Socket
}

func (p *player) sessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

func (p *player) ended() map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.end
}

func (p *player) heard() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.narration)
}

func startServer(t *testing.T, fakes *testutil.Fakes, repo sessionstore.Repository) (*Server, string) {
	t.Helper()
	svc := fakes.Services()
	defs := testutil.Compile(t, grids.FS,
		&common.Module{},
		&intro.Module{Services: svc},
		&charcreation.Module{Services: svc},
		&village.Module{Services: svc},
	)
	g, err := game.New(engine.New(), repo, defs[grids.CharacterCreation], defs[grids.Village])
	require.NoError(t, err)

	srv := NewServer(context.Background(), g)
	mux := http.NewServeMux()
	mux.Handle(Path, srv.Handler())
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts.URL
}

func connect(t *testing.T, url string) *player {
	t.Helper()
	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.Polling, transports.WebSocket))
	conn := socket.NewManager(url, opts).Socket("/", opts)
	t.Cleanup(func() { conn.Disconnect() })

	p := &player{ready: make(chan struct{}), conn: conn}
	conn.On(types.EventName(EventSession), func(args ...any) {
		p.mu.Lock()
		if len(args) > 0 {
			if m, ok := args[0].(map[string]any); ok {
				p.session, _ = m["id"].(string)
			}
		}
		p.mu.Unlock()
		close(p.ready)
	})
	conn.On(types.EventName(EventNarration), func(args ...any) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if len(args) > 0 {
			if text, ok := args[0].(string); ok {
				p.narration = append(p.narration, text)
			}
		}
	})
	conn.On(types.EventName(EventSessionEnd), func(args ...any) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if len(args) > 0 {
			p.end, _ = args[0].(map[string]any)
		}
	})

	conn.Connect()
	select {
	case <-p.ready:
	case <-time.After(5 * time.Second):
		t.Fatal("no session announced")
	}
	return p
}

func TestServer_PlaysSessionOverSocket(t *testing.T) {
	// Arrange
	fakes := testutil.NewFakes()
	fakes.Classifier = testutil.NewClassifier(intent.Negative, intent.Negative, intent.LookAround, intent.GoToDungeon)
	fakes.Choices = testutil.NewChoices(testutil.Chose("Elf"), testutil.Chose("Warrior"))
	fakes.Names = testutil.NewNames(testutil.ValidName("Aria"))
	repo := &releaseLog{Memory: sessionstore.NewMemory(0)}
	_, url := startServer(t, fakes, repo)

	// Act
	p := connect(t, url)
	for _, line := range []any{"no", "no", "elf", map[string]any{"text": "warrior"}, "Aria", "look around", "dungeon"} {
		require.NoError(t, p.conn.Emit(EventPlayerInput, line))
	}

	// Assert
	require.NotEmpty(t, p.sessionID())
	require.Eventually(t, func() bool { return p.ended() != nil }, 5*time.Second, 20*time.Millisecond)
	end := p.ended()
	assert.Equal(t, p.sessionID(), end["id"])
	assert.Equal(t, "Aria", end["character"])
	assert.Equal(t, "exploration", end["phase"])
	assert.NotContains(t, end, "error")
	assert.Positive(t, p.heard(), "narration is streamed while the session runs")
	assert.True(t, repo.released(p.sessionID()))
}

func TestServer_DisconnectEndsSession(t *testing.T) {
	fakes := testutil.NewFakes()
	repo := &releaseLog{Memory: sessionstore.NewMemory(0)}
	_, url := startServer(t, fakes, repo)

	p := connect(t, url)
	id := p.sessionID()
	require.NotEmpty(t, id)
	p.conn.Disconnect()

	require.Eventually(t, func() bool { return repo.released(id) }, 5*time.Second, 20*time.Millisecond,
		"closing the socket closes the input queue and tears the session down")
	assert.Nil(t, p.ended(), "an abandoned session sends no session_end")
}
