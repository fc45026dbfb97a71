package admission

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"gac/src/backend"
	"gac/src/roster"
	"gac/src/types"
)

// CheckInSubmitter is the slice of the backend client the engine needs.
type CheckInSubmitter interface {
	SubmitCheckIn(ctx context.Context, guestID, bookingID uint) (*time.Time, error)
}

// Outcome is the terminal result of one check-in attempt. Callers can
// never observe an intermediate optimistic state except through the
// roster itself; the two-phase apply/confirm-or-rollback is sealed
// inside SubmitCheckIn.
type Outcome struct {
	Status      types.OutcomeStatus
	Failure     types.FailureKind
	Reason      string
	ConfirmedAt *time.Time
}

// SyncEngine applies a check-in optimistically, submits it to the
// authoritative backend, and reconciles. It never retries: a second
// attempt requires a new operator action, because a silent retry could
// double-admit a guest whose first request succeeded server-side with a
// lost response.
type SyncEngine struct {
	roster  *roster.Roster
	backend CheckInSubmitter
	timeout time.Duration

	mu       sync.Mutex
	inflight map[uint]struct{}
}

func NewSyncEngine(r *roster.Roster, b CheckInSubmitter, timeout time.Duration) *SyncEngine {
	return &SyncEngine{
		roster:   r,
		backend:  b,
		timeout:  timeout,
		inflight: make(map[uint]struct{}),
	}
}

func (e *SyncEngine) acquire(guestID uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[guestID]; busy {
		return false
	}
	e.inflight[guestID] = struct{}{}
	return true
}

func (e *SyncEngine) release(guestID uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, guestID)
}

// SubmitCheckIn runs one admission attempt to a terminal outcome.
// Attempts for different guests may run concurrently; a second attempt
// for the same guest observes either the in-flight or the committed
// optimistic state and short-circuits without touching the network.
func (e *SyncEngine) SubmitCheckIn(ctx context.Context, guestID uint) Outcome {
	entry, ok := e.roster.Get(guestID)
	if !ok {
		return Outcome{
			Status:  types.OUTCOME_ROLLED_BACK,
			Failure: types.FAILURE_SERVER_REJECTED,
			Reason:  "guest is not on the roster",
		}
	}
	if entry.CheckedIn {
		return Outcome{Status: types.OUTCOME_ALREADY_CHECKED_IN, ConfirmedAt: entry.CheckedInAt}
	}
	if !e.acquire(guestID) {
		return Outcome{Status: types.OUTCOME_ALREADY_CHECKED_IN, Reason: "check-in already in progress"}
	}
	defer e.release(guestID)

	now := time.Now()
	if err := e.roster.ApplyCheckIn(guestID, now); err != nil {
		if errors.Is(err, roster.ErrAlreadyCheckedIn) {
			return Outcome{Status: types.OUTCOME_ALREADY_CHECKED_IN}
		}
		return Outcome{
			Status:  types.OUTCOME_ROLLED_BACK,
			Failure: types.FAILURE_SERVER_REJECTED,
			Reason:  err.Error(),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	confirmed, err := e.backend.SubmitCheckIn(ctx, guestID, entry.BookingID)
	switch {
	case err == nil:
		at := now
		if confirmed != nil && !confirmed.Equal(now) {
			e.roster.ConfirmCheckIn(guestID, *confirmed)
			at = *confirmed
		}
		return Outcome{Status: types.OUTCOME_COMMITTED, ConfirmedAt: &at}
	case errors.Is(err, backend.ErrAlreadyCheckedIn):
		// The roster was right all along, whichever device got there
		// first; discovering the conflict is not a reason to roll back.
		return Outcome{Status: types.OUTCOME_ALREADY_CHECKED_IN, Reason: "checked in at another device"}
	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		e.roster.RevertCheckIn(guestID)
		log.Printf("[admission] check-in for guest [%d] rolled back: %s\n", guestID, err.Error())
		return Outcome{
			Status:  types.OUTCOME_ROLLED_BACK,
			Failure: types.FAILURE_NETWORK_UNAVAILABLE,
			Reason:  "could not reach the venue service",
		}
	default:
		e.roster.RevertCheckIn(guestID)
		log.Printf("[admission] check-in for guest [%d] rejected: %s\n", guestID, err.Error())
		return Outcome{
			Status:  types.OUTCOME_ROLLED_BACK,
			Failure: types.FAILURE_SERVER_REJECTED,
			Reason:  err.Error(),
		}
	}
}
