package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ElectroHub/internal/project"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// InitDB opens a Postgres pool. sslmode=require is appended when the
// connection string does not choose a mode.
func InitDB(connStr string) (*sql.DB, error) {
	if connStr == "" {
		connStr = "user=postgres dbname=postgres password=password sslmode=disable"
	}
	if !strings.Contains(connStr, "sslmode=") {
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			sep := "?"
			if strings.Contains(connStr, "?") {
				sep = "&"
			}
			connStr = connStr + sep + "sslmode=require"
		} else {
			connStr = connStr + " sslmode=require"
		}
	}
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("db config: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	payload JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS snapshots_created_at_idx ON snapshots (created_at DESC)`

type PostgresSnapshotRepository struct {
	db *sql.DB
}

func NewPostgresSnapshotDB(db *sql.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

func (r *PostgresSnapshotRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate snapshots: %w", err)
	}
	return nil
}

func (r *PostgresSnapshotRepository) Save(ctx context.Context, name string, p project.Project) (Snapshot, error) {
	s := NewSnapshot(name, p, time.Now())
	payload, err := json.Marshal(p)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}
	query := "INSERT INTO snapshots (id, name, created_at, payload) VALUES ($1, $2, $3, $4)"
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.CreatedAt, payload); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (r *PostgresSnapshotRepository) List(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, created_at FROM snapshots ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SnapshotInfo{}
	for rows.Next() {
		var s SnapshotInfo
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSnapshot(row *sql.Row) (Snapshot, error) {
	var s Snapshot
	var payload []byte
	err := row.Scan(&s.ID, &s.Name, &s.CreatedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	if err := json.Unmarshal(payload, &s.Project); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", s.ID, err)
	}
	return s, nil
}

func (r *PostgresSnapshotRepository) Get(ctx context.Context, id string) (Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Snapshot{}, ErrNotFound
	}
	query := "SELECT id, name, created_at, payload FROM snapshots WHERE id=$1"
	return scanSnapshot(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresSnapshotRepository) Latest(ctx context.Context) (Snapshot, error) {
	query := "SELECT id, name, created_at, payload FROM snapshots ORDER BY created_at DESC LIMIT 1"
	return scanSnapshot(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresSnapshotRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id=$1", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
