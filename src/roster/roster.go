package roster

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"gac/src/models"
)

var (
	ErrNotFound         = errors.New("guest is not on the roster")
	ErrAlreadyCheckedIn = errors.New("guest is already checked in")
)

// Roster holds the night's guest list for one venue. It is the single
// source of truth for check-in status on this device; derived counts are
// always recomputed from entries, never kept as separate counters.
type Roster struct {
	mu      sync.RWMutex
	venueID uint
	date    string
	entries map[uint]*models.GuestEntry
	order   []uint
}

func New(venueID uint, date string) *Roster {
	return &Roster{
		venueID: venueID,
		date:    date,
		entries: make(map[uint]*models.GuestEntry),
	}
}

func (r *Roster) VenueID() uint { return r.venueID }
func (r *Roster) Date() string  { return r.date }

// Load replaces the roster wholesale. Used after a full refresh from the
// backend; nothing from a prior roster survives it.
func (r *Roster) Load(entries []models.GuestEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[uint]*models.GuestEntry, len(entries))
	r.order = make([]uint, 0, len(entries))
	for i := range entries {
		e := entries[i]
		if _, dup := r.entries[e.ID]; dup {
			continue
		}
		r.entries[e.ID] = &e
		r.order = append(r.order, e.ID)
	}
}

// Get returns a copy of the entry so callers can never mutate roster
// state without going through a mutation primitive.
func (r *Roster) Get(id uint) (models.GuestEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return models.GuestEntry{}, false
	}
	return *e, true
}

// Find resolves a guest by id or by confirmation code. The code match is
// exact (case-insensitive); substring matching is the job of Search.
func (r *Roster) Find(idOrCode string) (models.GuestEntry, bool) {
	if n, err := strconv.ParseUint(idOrCode, 10, 64); err == nil {
		if e, ok := r.Get(uint(n)); ok {
			return e, true
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		e := r.entries[id]
		if strings.EqualFold(e.ConfirmationCode, idOrCode) {
			return *e, true
		}
	}
	return models.GuestEntry{}, false
}

// Search returns entries whose name or confirmation code contains q,
// case-insensitively, in roster order. An empty q returns everything.
func (r *Roster) Search(q string) []models.GuestEntry {
	q = strings.ToLower(strings.TrimSpace(q))
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.GuestEntry, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		if q == "" ||
			strings.Contains(strings.ToLower(e.GuestName), q) ||
			strings.Contains(strings.ToLower(e.ConfirmationCode), q) {
			out = append(out, *e)
		}
	}
	return out
}

func (r *Roster) Add(e models.GuestEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[e.ID]; dup {
		return
	}
	r.entries[e.ID] = &e
	r.order = append(r.order, e.ID)
}

func (r *Roster) Remove(id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// ApplyCheckIn marks an entry checked in. It is a no-op returning
// ErrAlreadyCheckedIn when the entry already is, which is what makes
// repeated application of the same logical event idempotent.
func (r *Roster) ApplyCheckIn(id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return ErrNotFound
	}
	if e.CheckedIn {
		return ErrAlreadyCheckedIn
	}
	e.CheckedIn = true
	e.CheckedInAt = &at
	return nil
}

// RevertCheckIn clears check-in state. Used only for rollback; it no-ops
// silently when the guest is not checked in, since a rollback can race
// with a reload that already observed the server state.
func (r *Roster) RevertCheckIn(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || !e.CheckedIn {
		return
	}
	e.CheckedIn = false
	e.CheckedInAt = nil
}

// ConfirmCheckIn records the server-confirmed timestamp when it differs
// from the locally guessed one. The checked-in flag is left alone.
func (r *Roster) ConfirmCheckIn(id uint, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || !e.CheckedIn {
		return
	}
	e.CheckedInAt = &at
}

// HeadcountSummary recomputes both counts by full traversal. Roster
// sizes are bounded to a single night's bookings, so O(n) on every call
// beats maintaining counters that can drift.
func (r *Roster) HeadcountSummary() (checkedIn uint, total uint) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		total += e.Headcount()
		if e.CheckedIn {
			checkedIn += e.Headcount()
		}
	}
	return checkedIn, total
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
