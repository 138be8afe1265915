package queue

import (
	"testing"

	"file_rename_bot/internal/pkg/rename/domain"
)

func task(userID int64, priority bool) *domain.RenameTask {
	return &domain.RenameTask{UserID: userID, IsPriority: priority}
}

func drain(q *Queue) []int64 {
	var order []int64
	for {
		t, ok := q.Dequeue()
		if !ok {
			return order
		}
		order = append(order, t.UserID)
	}
}

func TestPriorityStableOrdering(t *testing.T) {
	q := New()
	q.Enqueue(task(1, false)) // S1
	q.Enqueue(task(2, false)) // S2
	q.Enqueue(task(3, true))  // P1

	if got := drain(q); len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("expected [P1 S1 S2], got %v", got)
	}
}

func TestSecondPremiumJumpsFirst(t *testing.T) {
	q := New()
	q.Enqueue(task(1, false)) // S1
	q.Enqueue(task(2, false)) // S2
	q.Enqueue(task(3, true))  // P1
	q.Enqueue(task(4, true))  // P2

	if got := drain(q); len(got) != 4 || got[0] != 4 || got[1] != 3 || got[2] != 1 || got[3] != 2 {
		t.Fatalf("expected [P2 P1 S1 S2], got %v", got)
	}
}

func TestStandardTierIsFIFO(t *testing.T) {
	q := New()
	for id := int64(1); id <= 5; id++ {
		q.Enqueue(task(id, false))
	}
	got := drain(q)
	for i, id := range got {
		if id != int64(i+1) {
			t.Fatalf("expected FIFO order, got %v", got)
		}
	}
}

func TestPositionOf(t *testing.T) {
	q := New()
	q.Enqueue(task(1, false))
	q.Enqueue(task(2, false))
	q.Enqueue(task(2, false))

	pos, total := q.PositionOf(2)
	if pos != 2 || total != 3 {
		t.Fatalf("expected earliest task position (2, 3), got (%d, %d)", pos, total)
	}

	pos, total = q.PositionOf(99)
	if pos != 0 || total != 3 {
		t.Fatalf("expected (0, 3) for absent user, got (%d, %d)", pos, total)
	}
}

func TestDequeueEmpty(t *testing.T) {
	q := New()
	if _, ok := q.Dequeue(); ok {
		t.Fatal("dequeue on empty queue should report false")
	}
	if q.Size() != 0 {
		t.Fatalf("expected size 0, got %d", q.Size())
	}
}
