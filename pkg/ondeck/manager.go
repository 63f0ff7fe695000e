package ondeck

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/store"
)

// Seed is written on first run when no task list exists yet.
var Seed = []Task{
	{Title: "Dump everything on your mind with `ondeck dump`", Plan: PlanToday},
	{Title: "Set up your daily routine with `ondeck routine edit`"},
}

// Manager loads and saves the on-deck list.
type Manager struct {
	Store  store.Store
	Log    *zap.Logger
	Seeded bool
}

// Load returns the persisted list, reindexed. Missing data yields the seed
// (when Seeded) and unreadable data yields an empty list; neither is an
// error.
func (m *Manager) Load(ctx context.Context) []Task {
	var tasks []Task
	err := store.ReadJSON(ctx, m.Store, store.KeyTasks, &tasks)
	switch {
	case err == nil:
		return Reindex(tasks)
	case errors.Is(err, store.ErrNotFound):
		if m.Seeded {
			return Reindex(Seed)
		}
		return []Task{}
	default:
		m.log().Warn("on-deck read failed, using empty list", zap.String("key", store.KeyTasks), zap.Error(err))
		return []Task{}
	}
}

// Save reindexes and writes tasks.
func (m *Manager) Save(ctx context.Context, tasks []Task) error {
	return store.WriteJSON(ctx, m.Store, store.KeyTasks, Reindex(tasks))
}

func (m *Manager) log() *zap.Logger {
	if m.Log == nil {
		return zap.NewNop()
	}
	return m.Log
}
