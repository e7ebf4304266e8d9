package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ElectroHub/internal/project"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var (
	_ SnapshotRepository = (*MemoryRepository)(nil)
	_ SnapshotRepository = (*PostgresSnapshotRepository)(nil)
	_ SnapshotRepository = (*MongoSnapshotRepository)(nil)
)

func TestNewSnapshotDefaultName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	s := NewSnapshot("", project.Default(), now)
	assert.Equal(t, s.Name, "snapshot_1700000000123")
	assert.Equal(t, len(s.ID), 36)
	assert.Equal(t, s.CreatedAt, now.UTC())

	assert.Equal(t, NewSnapshot("Scenario C", project.Project{}, now).Name, "Scenario C")
	assert.Assert(t, NewSnapshot("", project.Project{}, now).ID != s.ID)
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	tick := time.Unix(1700000000, 0)
	r.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	_, err := r.Latest(ctx)
	assert.Assert(t, errors.Is(err, ErrNotFound))

	p := project.Default()
	first, err := r.Save(ctx, "base", p)
	assert.NilError(t, err)
	p.Scenario = "B"
	second, err := r.Save(ctx, "", p)
	assert.NilError(t, err)
	assert.Assert(t, strings.HasPrefix(second.Name, "snapshot_"))

	list, err := r.List(ctx)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(list, 2))
	assert.Equal(t, list[0].ID, second.ID)

	latest, err := r.Latest(ctx)
	assert.NilError(t, err)
	assert.Equal(t, latest.Project.Scenario, p.Scenario)

	got, err := r.Get(ctx, first.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, got.Project, project.Default())

	assert.NilError(t, r.Delete(ctx, second.ID))
	assert.Assert(t, errors.Is(r.Delete(ctx, second.ID), ErrNotFound))
	_, err = r.Get(ctx, second.ID)
	assert.Assert(t, errors.Is(err, ErrNotFound))

	latest, err = r.Latest(ctx)
	assert.NilError(t, err)
	assert.Equal(t, latest.ID, first.ID)
}

func TestMemoryRepositoryIsolatesProjects(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	p := project.Default()
	saved, err := r.Save(ctx, "base", p)
	assert.NilError(t, err)
	p.Loads[0].KW = 1
	saved.Project.Feeders[0].Name = "changed"

	got, err := r.Get(ctx, saved.ID)
	assert.NilError(t, err)
	assert.DeepEqual(t, got.Project, project.Default())

	got.Project.Soil[0].ResistanceOhm = 99
	latest, err := r.Latest(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, latest.Project, project.Default())
}
