package kingdom

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexcrawl/internal/hexgrid"
)

// Store is the single writer for a realm document. Reads return the current
// committed snapshot; UpdateDocument serializes all mutations through one
// lock and commits each as a single SQLite transaction, so no toggle ever
// observes another's uncommitted state.
type Store struct {
	conn *sqlx.DB

	// txMu serializes whole update transactions (clone, mutate, persist,
	// swap); mu only guards the committed snapshot.
	txMu sync.Mutex

	mu      sync.RWMutex
	doc     *Document
	terrain map[hexgrid.OffsetCoord]Terrain
}

// Open opens or creates a realm database at the given path and loads the
// current document.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	doc, err := s.load()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("load document: %w", err)
	}
	s.swap(doc)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS hexes (
		row INTEGER NOT NULL,
		col INTEGER NOT NULL,
		terrain TEXT NOT NULL,
		PRIMARY KEY (row, col)
	);

	CREATE TABLE IF NOT EXISTS lakes (
		id TEXT PRIMARY KEY,
		hex_i INTEGER NOT NULL,
		hex_j INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS swamps (
		id TEXT PRIMARY KEY,
		hex_i INTEGER NOT NULL,
		hex_j INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bridges (
		id TEXT PRIMARY KEY,
		hex_i INTEGER NOT NULL,
		hex_j INTEGER NOT NULL,
		edge INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS fords (
		id TEXT PRIMARY KEY,
		hex_i INTEGER NOT NULL,
		hex_j INTEGER NOT NULL,
		edge INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS waterfalls (
		id TEXT PRIMARY KEY,
		hex_i INTEGER NOT NULL,
		hex_j INTEGER NOT NULL,
		edge INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS realm_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_lakes_hex ON lakes(hex_i, hex_j);
	CREATE INDEX IF NOT EXISTS idx_swamps_hex ON swamps(hex_i, hex_j);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *Store) load() (*Document, error) {
	doc := &Document{}

	if err := s.conn.Select(&doc.Hexes, "SELECT row, col, terrain FROM hexes ORDER BY row, col"); err != nil {
		return nil, fmt.Errorf("load hexes: %w", err)
	}
	if err := s.conn.Select(&doc.Water.Lakes, "SELECT id, hex_i, hex_j FROM lakes ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load lakes: %w", err)
	}
	if err := s.conn.Select(&doc.Water.Swamps, "SELECT id, hex_i, hex_j FROM swamps ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load swamps: %w", err)
	}
	if err := s.conn.Select(&doc.Water.Bridges, "SELECT id, hex_i, hex_j, edge FROM bridges ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load bridges: %w", err)
	}
	if err := s.conn.Select(&doc.Water.Fords, "SELECT id, hex_i, hex_j, edge FROM fords ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load fords: %w", err)
	}
	if err := s.conn.Select(&doc.Water.Waterfalls, "SELECT id, hex_i, hex_j, edge FROM waterfalls ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load waterfalls: %w", err)
	}
	if err := s.conn.Get(&doc.Name, "SELECT value FROM realm_meta WHERE key = 'name'"); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	return doc, nil
}

// swap installs a new committed document and rebuilds the terrain index.
func (s *Store) swap(doc *Document) {
	terrain := make(map[hexgrid.OffsetCoord]Terrain, len(doc.Hexes))
	for _, h := range doc.Hexes {
		terrain[h.Coord()] = h.Terrain
	}
	s.mu.Lock()
	s.doc = doc
	s.terrain = terrain
	s.mu.Unlock()
}

// Document returns the current committed snapshot. Callers must treat it as
// read-only; it is replaced wholesale on every committed update.
func (s *Store) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// TerrainAt returns the terrain attribute at the coordinate, or false for a
// hex the document does not cover.
func (s *Store) TerrainAt(c hexgrid.OffsetCoord) (Terrain, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terrain[c]
	return t, ok
}

// UpdateDocument applies fn to a clone of the current document and commits
// the result. fn reports whether it changed anything; an unchanged document
// skips the write entirely. The in-memory document is replaced only after
// the transaction commits, so a persistence failure leaves state untouched.
func (s *Store) UpdateDocument(fn func(d *Document) (changed bool, err error)) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	next := s.Document().Clone()
	changed, err := fn(next)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.persist(next); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	s.swap(next)
	return nil
}

// persist writes the full document in one transaction (full replace, the
// tables are small).
func (s *Store) persist(doc *Document) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"hexes", "lakes", "swamps", "bridges", "fords", "waterfalls"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	hexStmt, err := tx.Preparex("INSERT INTO hexes (row, col, terrain) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer hexStmt.Close()
	for _, h := range doc.Hexes {
		if _, err := hexStmt.Exec(h.Row, h.Col, string(h.Terrain)); err != nil {
			return fmt.Errorf("insert hex %d.%d: %w", h.Row, h.Col, err)
		}
	}

	insertHexFeatures := func(table string, feats []HexFeature) error {
		for _, f := range feats {
			if _, err := tx.Exec(
				"INSERT INTO "+table+" (id, hex_i, hex_j) VALUES (?, ?, ?)",
				f.ID, f.HexI, f.HexJ,
			); err != nil {
				return fmt.Errorf("insert %s %s: %w", table, f.ID, err)
			}
		}
		return nil
	}
	insertEdgeFeatures := func(table string, feats []EdgeFeature) error {
		for _, f := range feats {
			if _, err := tx.Exec(
				"INSERT INTO "+table+" (id, hex_i, hex_j, edge) VALUES (?, ?, ?, ?)",
				f.ID, f.HexI, f.HexJ, f.Edge,
			); err != nil {
				return fmt.Errorf("insert %s %s: %w", table, f.ID, err)
			}
		}
		return nil
	}

	if err := insertHexFeatures("lakes", doc.Water.Lakes); err != nil {
		return err
	}
	if err := insertHexFeatures("swamps", doc.Water.Swamps); err != nil {
		return err
	}
	if err := insertEdgeFeatures("bridges", doc.Water.Bridges); err != nil {
		return err
	}
	if err := insertEdgeFeatures("fords", doc.Water.Fords); err != nil {
		return err
	}
	if err := insertEdgeFeatures("waterfalls", doc.Water.Waterfalls); err != nil {
		return err
	}

	if doc.Name != "" {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO realm_meta (key, value) VALUES ('name', ?)", doc.Name,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("realm document persisted",
		"hexes", len(doc.Hexes),
		"lakes", len(doc.Water.Lakes),
		"swamps", len(doc.Water.Swamps),
	)
	return nil
}
