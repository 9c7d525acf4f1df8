// Package input provides the player-input side of a session: the Source
// contract nodes read utterances from, and the implementations transports
// feed.
package input

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrSessionTerminated is returned by Source.Next once the stream is closed.
var ErrSessionTerminated = errors.New("session terminated")

// Source yields player utterances one at a time. Next blocks until a line
// arrives, the stream closes or ctx is done.
type Source interface {
	Next(ctx context.Context) (string, error)
}

type sourceKey struct{}

// NewContext returns a context carrying the session's input source.
func NewContext(ctx context.Context, src Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

// FromContext returns the input source stored in ctx.
func FromContext(ctx context.Context) (Source, bool) {
	src, ok := ctx.Value(sourceKey{}).(Source)
	return src, ok && src != nil
}

// Queue is a channel-backed Source fed by a push transport.
type Queue struct {
	lines chan string
	done  chan struct{}
	once  sync.Once
}

// NewQueue creates a queue buffering up to size pending lines.
func NewQueue(size int) *Queue {
	return &Queue{
		lines: make(chan string, size),
		done:  make(chan struct{}),
	}
}

// Lines returns a closed queue preloaded with lines. Reading past the last
// line yields ErrSessionTerminated.
func Lines(lines ...string) *Queue {
	q := NewQueue(len(lines))
	for _, l := range lines {
		q.lines <- l
	}
	q.Close()
	return q
}

// Push enqueues a line. It fails with ErrSessionTerminated after Close.
func (q *Queue) Push(ctx context.Context, line string) error {
	select {
	case <-q.done:
		return ErrSessionTerminated
	default:
	}
	select {
	case q.lines <- line:
		return nil
	case <-q.done:
		return ErrSessionTerminated
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the stream. Lines already queued are still delivered.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}

// Next implements Source.
func (q *Queue) Next(ctx context.Context) (string, error) {
	select {
	case line := <-q.lines:
		return line, nil
	default:
	}
	select {
	case line := <-q.lines:
		return line, nil
	case <-q.done:
		select {
		case line := <-q.lines:
			return line, nil
		default:
			return "", ErrSessionTerminated
		}
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// FromReader starts a goroutine that pushes every non-blank line of r into a
// queue, closing it at EOF. It backs the console transport.
func FromReader(r io.Reader) *Queue {
	q := NewQueue(16)
	go func() {
		defer q.Close()
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			if err := q.Push(context.Background(), line); err != nil {
				return
			}
		}
	}()
	return q
}
