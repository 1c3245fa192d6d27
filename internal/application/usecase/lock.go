package usecase

import (
	"sync"

	"github.com/google/uuid"
)

// loanLocker serializes schedule work per loan. A regeneration is a
// read-modify-write over the loan's rows; overlapping runs for the same
// loan could interleave delete and insert. Different loans proceed in
// parallel.
type loanLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newLoanLocker() *loanLocker {
	return &loanLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Acquire blocks until the loan's mutex is held and returns the release
// function.
func (l *loanLocker) Acquire(loanID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[loanID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[loanID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
