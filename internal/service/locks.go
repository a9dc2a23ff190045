package service

import (
	"sync"
	"time"

	"github.com/KevinMitsi/MotorX-backend-sub001/internal/schedule"
)

// slotLocks serializes the assign-and-write step per (date, slot) so
// concurrent bookings for the same window recompute candidates one at a
// time. Unrelated slots never contend.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *slotLocks) forSlot(date, start time.Time) *sync.Mutex {
	key := date.Format(schedule.DateFormat) + "|" + start.Format("15:04:05")

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
