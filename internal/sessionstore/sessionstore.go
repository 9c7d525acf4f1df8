// Package sessionstore keeps session state between acts and connections.
// A session is created on first reference and removed only by Release.
package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/talegrid/internal/state"
	"gopkg.in/yaml.v3"
)

// DefaultTTL bounds how long an idle session survives.
const DefaultTTL = 24 * time.Hour

// ErrInvalidID is returned for empty session ids.
var ErrInvalidID = errors.New("session id is required")

// Repository stores session state by id. Implementations must be safe for
// concurrent use; callers run at most one engine per session at a time.
type Repository interface {
	// Acquire returns the state stored under id, creating a fresh one if none
	// exists. created reports whether the state was just created.
	Acquire(ctx context.Context, id string) (st *state.SessionState, created bool, err error)
	// Save stores a copy of st under id.
	Save(ctx context.Context, id string, st *state.SessionState) error
	// Release tears the session down. Releasing an unknown id is not an error.
	Release(ctx context.Context, id string) error
}

// NewID returns a fresh, time-ordered session id.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}
	return nil
}

// Snapshot is the exported form of a session.
type Snapshot struct {
	ID      string              `yaml:"id"`
	SavedAt time.Time           `yaml:"saved_at"`
	State   *state.SessionState `yaml:"state"`
}

// WriteSnapshot writes st as a YAML document.
func WriteSnapshot(w io.Writer, id string, st *state.SessionState) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Snapshot{ID: id, SavedAt: time.Now().UTC(), State: st}); err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}
	return enc.Close()
}

// ReadSnapshot parses a document written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	return s, nil
}
