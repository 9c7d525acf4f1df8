// Package sqlite provides a SQLite-backed character catalog and lore library.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/talegrid/internal/catalog"
	"github.com/specialistvlad/talegrid/internal/catalog/sqlite/migrations"
	"github.com/specialistvlad/talegrid/internal/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store persists races, classes and lore in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ catalog.Catalog = (*Store)(nil)

// Open opens the catalog database at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Seed inserts the seed rows, updating rows whose name already exists.
func (s *Store) Seed(ctx context.Context, seed catalog.Seed) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	now := time.Now().UTC().UnixMilli()

	for _, r := range seed.Races {
		if strings.TrimSpace(r.Name) == "" {
			_ = tx.Rollback()
			return errors.New("race name is required")
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO race (name, description, strength, agility, mentality, luck, intelligence, base_hp, location_type, location, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    description = excluded.description,
    strength = excluded.strength,
    agility = excluded.agility,
    mentality = excluded.mentality,
    luck = excluded.luck,
    intelligence = excluded.intelligence,
    base_hp = excluded.base_hp,
    location_type = excluded.location_type,
    location = excluded.location`,
			r.Name, r.Description,
			r.Stats.Strength, r.Stats.Agility, r.Stats.Mentality, r.Stats.Luck, r.Stats.Intelligence, r.Stats.BaseHP,
			r.Location.Type, r.Location.Name, now,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed race %q: %w", r.Name, err)
		}
	}

	for _, c := range seed.Classes {
		if strings.TrimSpace(c.Name) == "" {
			_ = tx.Rollback()
			return errors.New("class name is required")
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO class (name, description, strength, agility, mentality, luck, intelligence, base_hp, attack_item, defense_item, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    description = excluded.description,
    strength = excluded.strength,
    agility = excluded.agility,
    mentality = excluded.mentality,
    luck = excluded.luck,
    intelligence = excluded.intelligence,
    base_hp = excluded.base_hp,
    attack_item = excluded.attack_item,
    defense_item = excluded.defense_item`,
			c.Name, c.Description,
			c.Stats.Strength, c.Stats.Agility, c.Stats.Mentality, c.Stats.Luck, c.Stats.Intelligence, c.Stats.BaseHP,
			c.Items.Attack, c.Items.Defense, now,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed class %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (s *Store) ListRaces(ctx context.Context) ([]catalog.Entry, error) {
	return s.list(ctx, "race")
}

func (s *Store) ListClasses(ctx context.Context) ([]catalog.Entry, error) {
	return s.list(ctx, "class")
}

func (s *Store) RaceStats(ctx context.Context, race string) (catalog.Stats, error) {
	return s.stats(ctx, "race", race)
}

func (s *Store) ClassStats(ctx context.Context, class string) (catalog.Stats, error) {
	return s.stats(ctx, "class", class)
}

func (s *Store) TotalStats(ctx context.Context, race, class string) (catalog.Stats, error) {
	return catalog.Total(ctx, s, race, class)
}

func (s *Store) StartingLocation(ctx context.Context, race string) (catalog.Location, error) {
	var loc catalog.Location
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT location_type, location FROM race WHERE name = ?", race,
	).Scan(&loc.Type, &loc.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Location{}, fmt.Errorf("race %q: %w", race, catalog.ErrNotFound)
	}
	if err != nil {
		return catalog.Location{}, fmt.Errorf("query starting location: %w", err)
	}
	return loc, nil
}

func (s *Store) StartingItems(ctx context.Context, class string) (catalog.Items, error) {
	var items catalog.Items
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT attack_item, defense_item FROM class WHERE name = ?", class,
	).Scan(&items.Attack, &items.Defense)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Items{}, fmt.Errorf("class %q: %w", class, catalog.ErrNotFound)
	}
	if err != nil {
		return catalog.Items{}, fmt.Errorf("query starting items: %w", err)
	}
	return items, nil
}

// list and stats interpolate table, which is always one of the two constants
// above, never user input.
func (s *Store) list(ctx context.Context, table string) ([]catalog.Entry, error) {
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT name, description FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.Name, &e.Description); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

func (s *Store) stats(ctx context.Context, table, name string) (catalog.Stats, error) {
	var st catalog.Stats
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT strength, agility, mentality, luck, intelligence, base_hp FROM "+table+" WHERE name = ?", name,
	).Scan(&st.Strength, &st.Agility, &st.Mentality, &st.Luck, &st.Intelligence, &st.BaseHP)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Stats{}, fmt.Errorf("%s %q: %w", table, name, catalog.ErrNotFound)
	}
	if err != nil {
		return catalog.Stats{}, fmt.Errorf("query %s stats: %w", table, err)
	}
	return st, nil
}
