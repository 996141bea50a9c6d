package cv

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Upload states as shown to the uploading user.
const (
	StateIdle       = "idle"
	StateUploading  = "uploading"
	StateProcessing = "processing"
	StateSuccess    = "success"
	StateError      = "error"
)

type Status struct {
	State       string     `json:"status"`
	Message     string     `json:"message"`
	ResumeID    *uuid.UUID `json:"resumeId,omitempty"`
	CandidateID *uuid.UUID `json:"candidateId,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type trackedStatus struct {
	status Status
	gen    uint64
	timer  *time.Timer
}

// Tracker holds the latest upload status of every user.
type Tracker struct {
	mu      sync.Mutex
	gen     uint64
	entries map[uuid.UUID]*trackedStatus
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[uuid.UUID]*trackedStatus)}
}

// Set records status for user and cancels a pending reset.
func (t *Tracker) Set(user uuid.UUID, status Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if status.UpdatedAt.IsZero() {
		status.UpdatedAt = time.Now()
	}
	t.gen++
	if e, ok := t.entries[user]; ok && e.timer != nil {
		e.timer.Stop()
	}
	t.entries[user] = &trackedStatus{status: status, gen: t.gen}
}

// Get returns the current status of user, idle when nothing is tracked.
func (t *Tracker) Get(user uuid.UUID) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[user]; ok {
		return e.status
	}
	return Status{State: StateIdle}
}

// ResetAfter puts user back to idle after delay unless a newer status was set
// in the meantime.
func (t *Tracker) ResetAfter(user uuid.UUID, delay time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[user]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	gen := e.gen
	e.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if cur, ok := t.entries[user]; ok && cur.gen == gen {
			delete(t.entries, user)
		}
	})
}
