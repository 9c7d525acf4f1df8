// Command client plays a talegrid session served over socket.io from the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Event names, mirrored from the server.
const (
	eventPlayerInput = "player_input"
	eventNarration   = "narration"
	eventSession     = "session"
	eventSessionEnd  = "session_end"
)

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Address of the talegrid socket.io server.")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *serverURL, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serverURL string, in io.Reader, out io.Writer) error {
	u, err := url.Parse(serverURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	base := fmt.Sprintf("%s://%s", u.Scheme, u.Host)

	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))
	manager := socket.NewManager(base, opts)
	client := manager.Socket("/", opts)
	defer client.Disconnect()

	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	client.On(types.EventName("connect_error"), func(errs ...any) {
		if len(errs) > 0 {
			if err, ok := errs[0].(error); ok {
				finish(fmt.Errorf("connection failed: %w", err))
				return
			}
		}
		finish(errors.New("connection failed"))
	})
	client.On(types.EventName(eventSession), func(args ...any) {
		fmt.Fprintf(out, "Connected, session %s.\n", field(args, "id"))
	})
	client.On(types.EventName(eventNarration), func(args ...any) {
		if len(args) > 0 {
			fmt.Fprintf(out, "\n%v\n> ", args[0])
		}
	})
	client.On(types.EventName(eventSessionEnd), func(args ...any) {
		fmt.Fprintln(out, "\n"+describeEnd(args))
		finish(nil)
	})
	client.On(types.EventName("disconnect"), func(...any) {
		finish(nil)
	})

	client.Connect()

	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			if err := client.Emit(eventPlayerInput, line); err != nil {
				finish(fmt.Errorf("send input: %w", err))
				return
			}
		}
		finish(nil)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}

// field reads key from an object payload.
func field(args []any, key string) string {
	if len(args) == 0 {
		return ""
	}
	m, ok := args[0].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// describeEnd renders the session_end payload for the player.
func describeEnd(args []any) string {
	if msg := field(args, "error"); msg != "" {
		return "The session ended with an error: " + msg
	}
	if name := field(args, "character"); name != "" {
		return fmt.Sprintf("The tale of %s pauses here.", name)
	}
	return "The session has ended."
}
