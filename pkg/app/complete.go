package app

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/ondeck"
)

// Complete moves an on-deck task to the archive and opens the undo window,
// discarding any earlier pending undo. The archive is written before the
// on-deck list so an interrupted completion leaves the task visible rather
// than lost. Both write errors are returned.
func (s *Service) Complete(ctx context.Context, id int) (archive.Entry, error) {
	if err := s.init(); err != nil {
		return archive.Entry{}, err
	}
	if err := s.lock(ctx); err != nil {
		return archive.Entry{}, err
	}
	defer s.unlock()

	tasks := s.tasks.Load(ctx)
	rest, done, entry, ok := ondeck.Complete(tasks, id, s.Today(), archive.NewID(s.now()))
	if !ok {
		return archive.Entry{}, NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}
	if err := s.archive.Append(ctx, entry); err != nil {
		return archive.Entry{}, err
	}
	if err := s.tasks.Save(ctx, rest); err != nil {
		return entry, err
	}
	s.pending.Open(pendingUndo{Entry: entry, Task: done})
	s.Log.Debug("task completed", zap.String("title", done.Title), zap.String("entry", entry.ID))
	return entry, nil
}

// PendingUndo returns the completion that can still be undone.
func (s *Service) PendingUndo() (archive.Entry, bool) {
	if err := s.init(); err != nil {
		return archive.Entry{}, false
	}
	p, ok := s.pending.Peek()
	return p.Entry, ok
}

// Undo reverses the pending completion: the task goes back to the front of
// the on-deck list with its title, category, due day and plan, and the
// archive entry is deleted. It reports false when the window has elapsed or
// nothing is pending; that case changes nothing.
//
// Undo is best-effort. If the task's title is already on deck it is not
// inserted a second time.
func (s *Service) Undo(ctx context.Context) (ondeck.Task, bool, error) {
	if err := s.init(); err != nil {
		return ondeck.Task{}, false, err
	}
	if err := s.lock(ctx); err != nil {
		return ondeck.Task{}, false, err
	}
	defer s.unlock()

	p, ok := s.pending.Take()
	if !ok {
		return ondeck.Task{}, false, nil
	}

	tasks := s.tasks.Load(ctx)
	restored := p.Task
	if i := indexByTitle(tasks, restored.Title); i >= 0 {
		restored = tasks[i]
	} else {
		tasks = ondeck.Restore(tasks, restored)
		restored = tasks[0]
		if err := s.tasks.Save(ctx, tasks); err != nil {
			return ondeck.Task{}, false, err
		}
	}

	found, err := s.archive.RemoveByID(ctx, p.Entry.ID)
	if err != nil {
		return restored, true, err
	}
	if !found {
		s.Log.Warn("undo found no archive entry", zap.String("entry", p.Entry.ID))
	}
	s.Log.Debug("completion undone", zap.String("title", restored.Title))
	return restored, true, nil
}

// Promote moves an on-deck task into Today-Focus. A failed write is logged.
func (s *Service) Promote(ctx context.Context, id int) (ondeck.Task, error) {
	if err := s.init(); err != nil {
		return ondeck.Task{}, err
	}
	if err := s.lock(ctx); err != nil {
		return ondeck.Task{}, err
	}
	defer s.unlock()

	tasks, ok := ondeck.Promote(s.tasks.Load(ctx), id)
	if !ok {
		return ondeck.Task{}, NotFoundError{Kind: "task", ID: strconv.Itoa(id)}
	}
	s.swallow("promote task", s.tasks.Save(ctx, tasks))
	return tasks[ondeck.Find(tasks, id)], nil
}
