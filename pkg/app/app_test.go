package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/backlog"
	"tableflip.dev/ondeck/pkg/classify"
	"tableflip.dev/ondeck/pkg/datekey"
	"tableflip.dev/ondeck/pkg/ondeck"
	"tableflip.dev/ondeck/pkg/routine"
	"tableflip.dev/ondeck/pkg/store"
)

const (
	today     datekey.Key = "2024-06-15"
	yesterday datekey.Key = "2024-06-14"
	tomorrow  datekey.Key = "2024-06-16"
)

var errBoom = errors.New("disk on fire")

func fixedClock(day datekey.Key) datekey.Clock {
	noon := day.Time().Add(12 * time.Hour)
	return datekey.ClockFunc(func() time.Time { return noon })
}

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svc := &Service{
		Store:      mem,
		Clock:      fixedClock(today),
		UndoWindow: time.Minute,
	}
	t.Cleanup(svc.Close)
	return svc, mem
}

func put(t *testing.T, s store.Store, key string, v any) {
	t.Helper()
	require.NoError(t, store.WriteJSON(context.Background(), s, key, v))
}

func load[T any](t *testing.T, s store.Store, key string) T {
	t.Helper()
	var v T
	require.NoError(t, store.ReadJSON(context.Background(), s, key, &v))
	return v
}

func taskTitles(tasks []ondeck.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func itemTitles(items []backlog.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestSurfaceMovesDueItems(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "Buy milk"}})
	put(t, mem, store.KeyLater, []backlog.Item{
		{ID: "a", Title: "Pay rent", Due: today},
		{ID: "b", Title: "Call mom", Due: yesterday},
		{ID: "c", Title: "buy milk ", Due: yesterday},
		{ID: "d", Title: "Dentist", Due: tomorrow},
		{ID: "e", Title: "Someday trip"},
	})

	res, err := svc.Surface(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pay rent", "Call mom"}, taskTitles(res.Promoted))
	assert.Equal(t, []string{"buy milk "}, itemTitles(res.Dropped))

	tasks := load[[]ondeck.Task](t, mem, store.KeyTasks)
	assert.Equal(t, []string{"Pay rent", "Call mom", "Buy milk"}, taskTitles(tasks))
	assert.Equal(t, ondeck.PlanToday, tasks[0].Plan)
	assert.Equal(t, ondeck.PlanUpNext, tasks[1].Plan)
	for i, task := range tasks {
		assert.Equal(t, i+1, task.ID)
	}

	later := load[[]backlog.Item](t, mem, store.KeyLater)
	assert.Equal(t, []string{"Dentist", "Someday trip"}, itemTitles(later))

	again, err := svc.Surface(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Promoted)
	assert.Len(t, load[[]ondeck.Task](t, mem, store.KeyTasks), 3)
}

func TestSurfaceWritesNothingWhenNothingDue(t *testing.T) {
	svc, mem := newTestService(t)
	put(t, mem, store.KeyLater, []backlog.Item{{ID: "a", Title: "Dentist", Due: tomorrow}})
	mem.FailSet = func(key string) error {
		t.Fatalf("unexpected write to %s", key)
		return nil
	}

	res, err := svc.Surface(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Promoted)
}

func TestSurfaceKeepsBacklogWhenOnDeckWriteFails(t *testing.T) {
	svc, mem := newTestService(t)
	put(t, mem, store.KeyLater, []backlog.Item{{ID: "a", Title: "Pay rent", Due: today}})
	mem.FailSet = func(key string) error {
		if key == store.KeyTasks {
			return errBoom
		}
		return nil
	}

	_, err := svc.Surface(context.Background())
	require.ErrorIs(t, err, errBoom)

	later := load[[]backlog.Item](t, mem, store.KeyLater)
	assert.Equal(t, []string{"Pay rent"}, itemTitles(later))
	_, ok := mem.Raw(store.KeyTasks)
	assert.False(t, ok)
}

func TestCompleteUndoRoundTrip(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyTasks, []ondeck.Task{
		{ID: 1, Title: "Return library books", Category: classify.Errands, Due: tomorrow, Plan: ondeck.PlanToday},
		{ID: 2, Title: "Fix fence"},
	})

	before, err := svc.CompletedToday(ctx)
	require.NoError(t, err)

	entry, err := svc.Complete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Return library books", entry.Title)
	assert.Equal(t, today, entry.Completed)

	pending, ok := svc.PendingUndo()
	require.True(t, ok)
	assert.Equal(t, entry.ID, pending.ID)

	after, err := svc.CompletedToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
	assert.Equal(t, []string{"Fix fence"}, taskTitles(load[[]ondeck.Task](t, mem, store.KeyTasks)))

	restored, ok, err := svc.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Return library books", restored.Title)
	assert.Equal(t, classify.Errands, restored.Category)
	assert.Equal(t, tomorrow, restored.Due)
	assert.Equal(t, ondeck.PlanToday, restored.Plan)
	assert.Equal(t, 1, restored.ID)

	tasks := load[[]ondeck.Task](t, mem, store.KeyTasks)
	assert.Equal(t, []string{"Return library books", "Fix fence"}, taskTitles(tasks))
	assert.Empty(t, load[[]archive.Entry](t, mem, store.KeyArchive))

	final, err := svc.CompletedToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, final)

	_, ok = svc.PendingUndo()
	assert.False(t, ok)
}

func TestUndoIsSingleSlot(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}})

	_, err := svc.Complete(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Complete(ctx, 1)
	require.NoError(t, err)

	restored, ok, err := svc.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "B", restored.Title)

	entries := load[[]archive.Entry](t, mem, store.KeyArchive)
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].Title)

	_, ok, err = svc.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUndoAfterExpiryIsNoop(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	svc.UndoWindow = 10 * time.Millisecond
	expired := make(chan archive.Entry, 1)
	svc.OnUndoExpired = func(e archive.Entry) { expired <- e }
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "A"}})

	entry, err := svc.Complete(ctx, 1)
	require.NoError(t, err)

	select {
	case got := <-expired:
		assert.Equal(t, entry.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("undo window never closed")
	}

	_, ok, err := svc.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, load[[]archive.Entry](t, mem, store.KeyArchive), 1)
	assert.Empty(t, load[[]ondeck.Task](t, mem, store.KeyTasks))
}

func TestUndoDoesNotDuplicateTitle(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "A"}})

	_, err := svc.Complete(ctx, 1)
	require.NoError(t, err)
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "a"}})

	restored, ok, err := svc.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", restored.Title)
	assert.Len(t, load[[]ondeck.Task](t, mem, store.KeyTasks), 1)
	assert.Empty(t, load[[]archive.Entry](t, mem, store.KeyArchive))
}

func TestCompleteWritesArchiveFirst(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "A"}})
	mem.FailSet = func(key string) error {
		if key == store.KeyArchive {
			return errBoom
		}
		return nil
	}

	_, err := svc.Complete(ctx, 1)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"A"}, taskTitles(load[[]ondeck.Task](t, mem, store.KeyTasks)))
	_, ok := svc.PendingUndo()
	assert.False(t, ok)
}

func TestCompleteUnknownTask(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Complete(context.Background(), 7)
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "7", nf.ID)
}

func TestPromote(t *testing.T) {
	svc, mem := newTestService(t)
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}})

	got, err := svc.Promote(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	assert.True(t, got.IsToday())

	tasks := load[[]ondeck.Task](t, mem, store.KeyTasks)
	assert.True(t, tasks[1].IsToday())
	assert.False(t, tasks[0].IsToday())
}

func TestReconcileResetsRoutineOncePerDay(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyRoutine, []routine.Item{{ID: 1, Title: "Stretch", Done: true}})
	put(t, mem, store.KeyRoutineResetOn, yesterday)

	first, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, first.RoutineReset)
	assert.False(t, load[[]routine.Item](t, mem, store.KeyRoutine)[0].Done)
	assert.Equal(t, today, load[datekey.Key](t, mem, store.KeyRoutineResetOn))

	_, err = svc.ToggleRoutine(ctx, 1)
	require.NoError(t, err)

	second, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, second.RoutineReset)
	assert.True(t, load[[]routine.Item](t, mem, store.KeyRoutine)[0].Done)
}

func TestRoutineCelebrationFiresOncePerTransition(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	var fired atomic.Int32
	svc.OnRoutineComplete = func() { fired.Add(1) }

	_, err := svc.EditRoutine(ctx, []string{"Stretch", "Water"})
	require.NoError(t, err)

	_, err = svc.ToggleRoutine(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(0), fired.Load())

	items, err := svc.ToggleRoutine(ctx, 2)
	require.NoError(t, err)
	assert.True(t, routine.IsFullyComplete(items))
	assert.Equal(t, int32(1), fired.Load())

	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	_, err = svc.Routine(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), fired.Load())

	_, err = svc.ToggleRoutine(ctx, 2)
	require.NoError(t, err)
	_, err = svc.ToggleRoutine(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fired.Load())
}

func TestEditRoutineClearsDone(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyRoutine, []routine.Item{{ID: 3, Title: "Stretch", Done: true}})
	put(t, mem, store.KeyRoutineResetOn, today)

	items, err := svc.EditRoutine(ctx, []string{"Stretch more", " ", "Water"})
	require.NoError(t, err)
	assert.Equal(t, []routine.Item{{ID: 3, Title: "Stretch more"}, {ID: 4, Title: "Water"}}, items)
}

func TestHydrateTimesOut(t *testing.T) {
	svc, mem := newTestService(t)
	svc.HydrateTimeout = 20 * time.Millisecond
	release := make(chan struct{})
	mem.FailGet = func(string) error {
		<-release
		return nil
	}
	t.Cleanup(func() { close(release) })

	_, err := svc.Hydrate(context.Background())
	require.ErrorIs(t, err, ErrHydrationTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallsAfterHydrateTimeoutHonorContext(t *testing.T) {
	svc, mem := newTestService(t)
	svc.HydrateTimeout = 20 * time.Millisecond
	release := make(chan struct{})
	mem.FailGet = func(string) error {
		<-release
		return nil
	}
	t.Cleanup(func() { close(release) })

	_, err := svc.Hydrate(context.Background())
	require.ErrorIs(t, err, ErrHydrationTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := svc.Routine(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("Routine stayed blocked behind the hung hydration")
	}
}

func TestHydrateSeedsFirstRun(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Seed = true

	snap, err := svc.Hydrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, today, snap.Today)
	assert.NotEmpty(t, snap.TodayFocus)
	assert.Len(t, snap.Routine, len(routine.Defaults))
	assert.False(t, snap.RoutineComplete)
	assert.Zero(t, snap.CompletedToday)
	assert.Nil(t, snap.Pending)
}

func TestHydrateSurvivesUnreadableStore(t *testing.T) {
	svc, mem := newTestService(t)
	mem.FailGet = func(string) error { return errBoom }
	mem.FailSet = func(string) error { return errBoom }

	snap, err := svc.Hydrate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.TodayFocus)
	assert.Empty(t, snap.Later)
	assert.Empty(t, snap.Archive)
}

func TestIntake(t *testing.T) {
	svc, _ := newTestService(t)
	drafts := svc.Intake("- Call mom today\n\n* buy eggs\n")
	assert.Equal(t, []Draft{
		{Title: "Call mom today", Category: classify.Calls, Bucket: classify.Today},
		{Title: "buy eggs", Category: classify.Groceries, Bucket: classify.Later},
	}, drafts)
}

func TestConfirmReview(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "Buy milk"}})
	put(t, mem, store.KeyLater, []backlog.Item{{ID: "x", Title: "Fix fence"}})

	res, err := svc.ConfirmReview(ctx, []Draft{
		{Title: "Call dentist", Category: classify.Calls, Bucket: classify.Today},
		{Title: "fix fence", Bucket: classify.Later},
		{Title: "Plan trip", Bucket: classify.Later, Due: yesterday},
		{Title: "buy milk", Bucket: classify.Today},
		{Title: "   ", Bucket: classify.Today},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Call dentist"}, taskTitles(res.OnDeck))
	assert.Equal(t, []string{"Plan trip"}, itemTitles(res.Later))
	assert.Len(t, res.Dropped, 2)
	assert.Equal(t, []string{"Plan trip"}, taskTitles(res.Surfaced.Promoted))

	tasks := load[[]ondeck.Task](t, mem, store.KeyTasks)
	assert.Equal(t, []string{"Plan trip", "Call dentist", "Buy milk"}, taskTitles(tasks))
	assert.Equal(t, ondeck.PlanUpNext, tasks[0].Plan)
	assert.Equal(t, ondeck.PlanToday, tasks[1].Plan)
	assert.Equal(t, []string{"Fix fence"}, itemTitles(load[[]backlog.Item](t, mem, store.KeyLater)))
}

func TestAddLater(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "Buy milk"}})

	it, err := svc.AddLater(ctx, "  Renew passport ", "", tomorrow)
	require.NoError(t, err)
	assert.Equal(t, "Renew passport", it.Title)
	assert.Equal(t, classify.Admin, it.Category)
	assert.NotEmpty(t, it.ID)

	_, err = svc.AddLater(ctx, "BUY MILK", "", "")
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = svc.AddLater(ctx, " ", "", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	items, err := svc.Later(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Renew passport"}, itemTitles(items))
}

func TestUpdateAndRemoveLater(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyLater, []backlog.Item{{ID: "x", Title: "Fix fence"}})

	due := tomorrow
	it, err := svc.UpdateLater(ctx, "x", backlog.Patch{Due: &due})
	require.NoError(t, err)
	assert.Equal(t, tomorrow, it.Due)

	_, err = svc.UpdateLater(ctx, "nope", backlog.Patch{})
	var nf NotFoundError
	assert.ErrorAs(t, err, &nf)

	require.NoError(t, svc.RemoveLater(ctx, "x"))
	assert.Empty(t, load[[]backlog.Item](t, mem, store.KeyLater))
}

func TestPromoteLater(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyLater, []backlog.Item{
		{ID: "x", Title: "Fix fence", Category: classify.Home},
		{ID: "y", Title: "Plan trip"},
	})

	got, err := svc.PromoteLater(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "Fix fence", got.Title)
	assert.True(t, got.IsToday())
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, []string{"Plan trip"}, itemTitles(load[[]backlog.Item](t, mem, store.KeyLater)))

	_, err = svc.PromoteLater(ctx, "x")
	var nf NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestRecapAndHistory(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	put(t, mem, store.KeyArchive, []archive.Entry{
		{ID: "3", Title: "C", Completed: today},
		{ID: "2", Title: "B", Completed: yesterday},
		{ID: "1", Title: "A", Completed: "2024-05-01"},
	})
	put(t, mem, store.KeyRoutine, []routine.Item{{ID: 1, Title: "Stretch", Done: true}, {ID: 2, Title: "Water"}})
	put(t, mem, store.KeyRoutineResetOn, today)
	put(t, mem, store.KeyTasks, []ondeck.Task{{ID: 1, Title: "T", Plan: ondeck.PlanToday}, {ID: 2, Title: "U"}})
	put(t, mem, store.KeyLater, []backlog.Item{{ID: "x", Title: "L", Due: tomorrow}, {ID: "y", Title: "M"}})

	r, err := svc.Recap(ctx)
	require.NoError(t, err)
	assert.Equal(t, Recap{
		Today:          today,
		ArchivedToday:  1,
		RoutineDone:    1,
		RoutineTotal:   2,
		CompletedToday: 2,
		OpenToday:      1,
		OpenUpNext:     1,
		Backlog:        2,
		DueLater:       1,
	}, r)

	all, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, today, all[0].Day)

	week, err := svc.History(ctx, 7)
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, yesterday, week[1].Day)

	soon, err := svc.DueSoon(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"L"}, itemTitles(soon))
}

func TestServiceWithoutStore(t *testing.T) {
	svc := &Service{}
	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, errNoStore)
}
