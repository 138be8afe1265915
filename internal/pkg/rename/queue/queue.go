package queue

import (
	"sync"

	"file_rename_bot/internal/pkg/rename/domain"
)

// Queue is the pending rename list. Priority tasks insert at the head,
// standard tasks append at the tail; within a tier order is FIFO by
// construction. A single mutex guards every structural mutation so
// handler enqueues and the worker's dequeue never interleave.
type Queue struct {
	mu    sync.Mutex
	tasks []*domain.RenameTask
}

func New() *Queue {
	return &Queue{}
}

// Enqueue adds a task and returns the user-facing status line.
func (q *Queue) Enqueue(task *domain.RenameTask) (bool, string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if task.IsPriority {
		q.tasks = append([]*domain.RenameTask{task}, q.tasks...)
		return true, "✅ File added to premium queue! Processing will begin shortly."
	}
	q.tasks = append(q.tasks, task)
	return true, "✅ File added to queue! Please wait for your turn."
}

// Dequeue pops the head task, or returns false when the queue is empty.
func (q *Queue) Dequeue() (*domain.RenameTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return task, true
}

// PositionOf returns the 1-indexed position of the user's earliest
// queued task and the total queue size; position 0 means not queued.
func (q *Queue) PositionOf(userID int64) (position, total int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	total = len(q.tasks)
	for i, task := range q.tasks {
		if task.UserID == userID {
			return i + 1, total
		}
	}
	return 0, total
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
