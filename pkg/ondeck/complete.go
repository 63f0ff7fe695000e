package ondeck

import (
	"tableflip.dev/ondeck/pkg/archive"
	"tableflip.dev/ondeck/pkg/datekey"
)

// Complete removes the task with id from tasks and returns the archive entry
// stamped with today. The returned list is reindexed. The caller appends the
// entry to the archive and persists both lists.
func Complete(tasks []Task, id int, today datekey.Key, entryID string) ([]Task, Task, archive.Entry, bool) {
	i := Find(tasks, id)
	if i < 0 {
		return tasks, Task{}, archive.Entry{}, false
	}
	done := tasks[i]
	rest := make([]Task, 0, len(tasks)-1)
	rest = append(rest, tasks[:i]...)
	rest = append(rest, tasks[i+1:]...)

	entry := archive.Entry{
		ID:        entryID,
		Title:     done.Title,
		Category:  done.Category,
		Completed: today,
	}
	return Reindex(rest), done, entry, true
}

// Restore puts t back at the front of tasks as an open task and reindexes.
func Restore(tasks []Task, t Task) []Task {
	t.Done = false
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, t)
	out = append(out, tasks...)
	return Reindex(out)
}
