// Package repo persists project snapshots.
package repo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ElectroHub/internal/project"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("snapshot not found")

type SnapshotInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Snapshot struct {
	SnapshotInfo
	Project project.Project `json:"project"`
}

type SnapshotRepository interface {
	Save(ctx context.Context, name string, p project.Project) (Snapshot, error)
	// List returns snapshots newest first, without their projects.
	List(ctx context.Context) ([]SnapshotInfo, error)
	Get(ctx context.Context, id string) (Snapshot, error)
	Latest(ctx context.Context) (Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// NewSnapshot stamps p with a fresh id. An empty name becomes
// snapshot_<unix-ms>.
func NewSnapshot(name string, p project.Project, now time.Time) Snapshot {
	if name == "" {
		name = fmt.Sprintf("snapshot_%d", now.UnixMilli())
	}
	return Snapshot{
		SnapshotInfo: SnapshotInfo{ID: uuid.NewString(), Name: name, CreatedAt: now.UTC()},
		Project:      p,
	}
}

func (s Snapshot) clone() Snapshot {
	s.Project = s.Project.Clone()
	return s
}

// MemoryRepository keeps snapshots for the lifetime of the process.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []Snapshot
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) Save(ctx context.Context, name string, p project.Project) (Snapshot, error) {
	s := NewSnapshot(name, p.Clone(), r.now())
	r.mu.Lock()
	r.items = append(r.items, s)
	r.mu.Unlock()
	return s.clone(), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]SnapshotInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SnapshotInfo, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i].SnapshotInfo)
	}
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.items {
		if s.ID == id {
			return s.clone(), nil
		}
	}
	return Snapshot{}, ErrNotFound
}

func (r *MemoryRepository) Latest(ctx context.Context) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.items) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return r.items[len(r.items)-1].clone(), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.items {
		if s.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
