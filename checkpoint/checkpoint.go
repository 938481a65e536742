// Package checkpoint keeps snapshots of documents in a SQLite database.
//
// A checkpoint is the complete project stream of a layer stack at one
// moment, stored as a blob next to a little metadata. Restoring goes
// through the regular project reader, so it is atomic: a damaged blob
// leaves the target stack untouched.
package checkpoint

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gogpu/canvas"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no checkpoint matches.
var ErrNotFound = errors.New("checkpoint: not found")

// Checkpoint describes one stored snapshot.
type Checkpoint struct {
	ID        uuid.UUID
	DocID     uuid.UUID
	Label     string
	Layers    int
	Width     int
	Height    int
	CreatedAt time.Time
}

// Store is a checkpoint database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: mkdir db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init applies the schema. It is idempotent.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("checkpoint: apply schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the current state of st under docID.
func (s *Store) Save(ctx context.Context, docID uuid.UUID, label string, st *canvas.Stack) (Checkpoint, error) {
	if st.Len() == 0 {
		return Checkpoint{}, canvas.ErrEmptyStack
	}
	var buf bytes.Buffer
	if err := canvas.WriteProject(&buf, st); err != nil {
		return Checkpoint{}, err
	}

	size := st.Size()
	cp := Checkpoint{
		ID:        uuid.New(),
		DocID:     docID,
		Label:     label,
		Layers:    st.Len(),
		Width:     size.X,
		Height:    size.Y,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO checkpoints (id, doc_id, label, layers, width, height, created_at, data)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, cp.ID, cp.DocID, cp.Label, cp.Layers, cp.Width, cp.Height, cp.CreatedAt.UnixNano(), buf.Bytes())
	if err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint: insert: %w", err)
	}

	canvas.Logger().Info("checkpoint: saved", "doc", docID, "id", cp.ID, "layers", cp.Layers, "bytes", buf.Len())
	return cp, nil
}

// List returns the checkpoints of docID, newest first.
func (s *Store) List(ctx context.Context, docID uuid.UUID) ([]Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, doc_id, label, layers, width, height, created_at
        FROM checkpoints
        WHERE doc_id = ?
        ORDER BY created_at DESC, rowid DESC
    `, docID)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: list: %w", err)
	}
	defer rows.Close()

	var out []Checkpoint
	for rows.Next() {
		cp, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checkpoint: list: %w", err)
	}
	return out, nil
}

// Latest returns the newest checkpoint of docID.
func (s *Store) Latest(ctx context.Context, docID uuid.UUID) (Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, doc_id, label, layers, width, height, created_at
        FROM checkpoints
        WHERE doc_id = ?
        ORDER BY created_at DESC, rowid DESC
        LIMIT 1
    `, docID)
	cp, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Checkpoint{}, ErrNotFound
	}
	return cp, err
}

// Restore replaces the contents of st with checkpoint id. On any error st
// is left as it was.
func (s *Store) Restore(ctx context.Context, id uuid.UUID, st *canvas.Stack) error {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM checkpoints WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checkpoint: read: %w", err)
	}
	if err := canvas.ReadProject(bytes.NewReader(data), st); err != nil {
		return fmt.Errorf("checkpoint: restore %s: %w", id, err)
	}
	canvas.Logger().Info("checkpoint: restored", "id", id, "layers", st.Len())
	return nil
}

// Prune deletes all but the newest keep checkpoints of docID and returns
// how many were removed.
func (s *Store) Prune(ctx context.Context, docID uuid.UUID, keep int) (int64, error) {
	keep = max(keep, 0)
	res, err := s.db.ExecContext(ctx, `
        DELETE FROM checkpoints
        WHERE doc_id = ? AND id NOT IN (
            SELECT id FROM checkpoints
            WHERE doc_id = ?
            ORDER BY created_at DESC, rowid DESC
            LIMIT ?
        )
    `, docID, docID, keep)
	if err != nil {
		return 0, fmt.Errorf("checkpoint: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checkpoint: prune: %w", err)
	}
	if n > 0 {
		canvas.Logger().Debug("checkpoint: pruned", "doc", docID, "removed", n)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Checkpoint, error) {
	var (
		cp      Checkpoint
		created int64
	)
	err := row.Scan(&cp.ID, &cp.DocID, &cp.Label, &cp.Layers, &cp.Width, &cp.Height, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Checkpoint{}, err
		}
		return Checkpoint{}, fmt.Errorf("checkpoint: scan: %w", err)
	}
	cp.CreatedAt = time.Unix(0, created).UTC()
	return cp, nil
}
