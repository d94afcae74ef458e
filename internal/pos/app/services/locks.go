package services

import "sync"

// TableLocks serializes work per table id. Settlement steps and the
// add-triggers-occupancy side effect run inside the table's lock so two
// retries can never both pass the idempotency check, and two first-item adds
// can never both fire the occupancy transition.
type TableLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewTableLocks() *TableLocks {
	return &TableLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for tableID and returns its unlock function.
func (t *TableLocks) Lock(tableID int64) func() {
	t.mu.Lock()
	l, ok := t.locks[tableID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[tableID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
