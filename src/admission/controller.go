package admission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gac/src/backend"
	"gac/src/models"
	"gac/src/roster"
	"gac/src/types"

	"github.com/google/uuid"
)

// ScanResolver is the slice of the backend client the controller needs
// for step one of a scan: turning an opaque payload into a guest.
type ScanResolver interface {
	ResolveScan(ctx context.Context, payload string, venueID uint) (*models.ResolvedScan, error)
}

// EventSink receives committed admissions for fan-out (broker, sockets).
// A nil sink is valid and means no fan-out.
type EventSink interface {
	AdmissionCommitted(evt models.AdmissionEvent)
}

var ErrNoSuchSession = errors.New("scan session not found")

// ScanSession is ephemeral state scoped to one open scanner view. It
// owns its debouncer and its own toast queue (scanner feedback runs on
// a shorter TTL than the list view).
type ScanSession struct {
	ID        string
	VenueID   uint
	OpenedAt  time.Time
	debouncer *ScanDebouncer
	toasts    *NotificationQueue
}

func (s *ScanSession) View() types.ScanSessionView {
	state := s.debouncer.State()
	return types.ScanSessionView{
		ID:        s.ID,
		State:     state,
		Locked:    state != types.SCANNER_IDLE,
		ScanCount: s.debouncer.ScanCount(),
	}
}

func (s *ScanSession) CurrentToast() *ToastMessage {
	return s.toasts.Current()
}

// ScanResult is the terminal answer to one decode event.
type ScanResult struct {
	Accepted bool
	Blocked  bool
	Resolved *models.ResolvedScan
	Outcome  *Outcome
	Reason   string
}

// Config carries the tunables the controller hands to the pieces it
// creates.
type Config struct {
	ScanCooldown    time.Duration
	ScannerToastTTL time.Duration
	ListToastTTL    time.Duration
	DeviceID        string
}

// Controller is the only component that touches all the others. It
// converts operator actions, scanned or manual, into resolved outcomes,
// and keeps the debouncer and toast queues fed.
type Controller struct {
	venueID  uint
	roster   *roster.Roster
	engine   *SyncEngine
	resolver ScanResolver
	sink     EventSink
	cfg      Config

	listToasts *NotificationQueue

	mu       sync.Mutex
	sessions map[string]*ScanSession
}

func NewController(venueID uint, r *roster.Roster, engine *SyncEngine, resolver ScanResolver, sink EventSink, cfg Config) *Controller {
	if cfg.DeviceID == "" {
		cfg.DeviceID = uuid.NewString()
	}
	return &Controller{
		venueID:    venueID,
		roster:     r,
		engine:     engine,
		resolver:   resolver,
		sink:       sink,
		cfg:        cfg,
		listToasts: NewNotificationQueue(cfg.ListToastTTL),
		sessions:   make(map[string]*ScanSession),
	}
}

func (c *Controller) Roster() *roster.Roster         { return c.roster }
func (c *Controller) ListToasts() *NotificationQueue { return c.listToasts }

// OpenScanSession creates a fresh session: debouncer Idle, count zero.
func (c *Controller) OpenScanSession() *ScanSession {
	s := &ScanSession{
		ID:        uuid.NewString(),
		VenueID:   c.venueID,
		OpenedAt:  time.Now(),
		debouncer: NewScanDebouncer(c.cfg.ScanCooldown),
		toasts:    NewNotificationQueue(c.cfg.ScannerToastTTL),
	}
	c.mu.Lock()
	c.sessions[s.ID] = s
	c.mu.Unlock()
	return s
}

func (c *Controller) Session(id string) (*ScanSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	return s, ok
}

// CloseScanSession destroys the session. The machine resets so any
// pending cooldown timer dies with it.
func (c *Controller) CloseScanSession(id string) bool {
	c.mu.Lock()
	s, ok := c.sessions[id]
	delete(c.sessions, id)
	c.mu.Unlock()
	if !ok {
		return false
	}
	s.debouncer.Reset()
	s.toasts.Clear()
	return true
}

// HandleScan runs one decode event to a terminal state. Events arriving
// while the session is not Idle are dropped, which is what collapses a
// code sitting under the camera for many frames into one attempt.
func (c *Controller) HandleScan(ctx context.Context, sessionID, payload string) (ScanResult, error) {
	s, ok := c.Session(sessionID)
	if !ok {
		return ScanResult{}, ErrNoSuchSession
	}
	if !s.debouncer.Accept() {
		return ScanResult{Accepted: false}, nil
	}

	resolved, err := c.resolver.ResolveScan(ctx, payload, c.venueID)
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			// Transient: the same code may well work on the next try,
			// so a normal cooldown is enough.
			s.toasts.Push(types.TOAST_ERROR, "Scan failed", "Could not reach the venue service. Try the same code again.")
			s.debouncer.Resolve()
			return ScanResult{Accepted: true, Reason: err.Error()}, nil
		}
		// The code itself is the problem. Block until the operator
		// dismisses, otherwise they re-present the same bad code
		// without knowing why it keeps failing.
		s.toasts.Push(types.TOAST_ERROR, "Code not recognized", scanRejectionBody(err))
		s.debouncer.Block()
		return ScanResult{Accepted: true, Blocked: true, Reason: err.Error()}, nil
	}

	outcome := c.engine.SubmitCheckIn(ctx, resolved.GuestID)
	c.pushOutcomeToast(s.toasts, resolved.GuestName, resolved.PartySize, outcome)
	if outcome.Status == types.OUTCOME_COMMITTED {
		s.debouncer.RecordAdmission()
		c.emit(resolved.GuestID, resolved.PartySize, types.ATTEMPT_SCAN, outcome)
	}
	s.debouncer.Resolve()
	return ScanResult{Accepted: true, Resolved: resolved, Outcome: &outcome}, nil
}

// DismissScanError acknowledges a blocking scan failure and lets the
// session accept decode events again.
func (c *Controller) DismissScanError(sessionID string) (bool, error) {
	s, ok := c.Session(sessionID)
	if !ok {
		return false, ErrNoSuchSession
	}
	if !s.debouncer.Dismiss() {
		return false, nil
	}
	s.toasts.Clear()
	return true, nil
}

// HandleManualCheckIn is the roster-list tap. It shares steps with the
// scan path from the engine onward but is deliberately not gated by any
// scan session: taps and the camera are independent input channels.
func (c *Controller) HandleManualCheckIn(ctx context.Context, guestID uint) Outcome {
	name := fmt.Sprintf("guest %d", guestID)
	party := uint(1)
	if entry, ok := c.roster.Get(guestID); ok {
		name = entry.GuestName
		party = entry.Headcount()
	}
	outcome := c.engine.SubmitCheckIn(ctx, guestID)
	c.pushOutcomeToast(c.listToasts, name, party, outcome)
	if outcome.Status == types.OUTCOME_COMMITTED {
		c.emit(guestID, party, types.ATTEMPT_MANUAL, outcome)
	}
	return outcome
}

// ApplyRemoteCheckIn folds in a check-in committed by another door
// device. Applying is idempotent; a guest we already marked stays put.
func (c *Controller) ApplyRemoteCheckIn(guestID uint, at time.Time) {
	err := c.roster.ApplyCheckIn(guestID, at)
	if err != nil && !errors.Is(err, roster.ErrAlreadyCheckedIn) {
		log.Printf("[admission] remote check-in for unknown guest [%d] ignored\n", guestID)
	}
}

func (c *Controller) pushOutcomeToast(q *NotificationQueue, name string, party uint, outcome Outcome) {
	switch outcome.Status {
	case types.OUTCOME_COMMITTED:
		body := fmt.Sprintf("%s checked in", name)
		if party > 1 {
			body = fmt.Sprintf("%s checked in (party of %d)", name, party)
		}
		q.Push(types.TOAST_SUCCESS, "Welcome", body)
	case types.OUTCOME_ALREADY_CHECKED_IN:
		q.Push(types.TOAST_SUCCESS, "Already here", fmt.Sprintf("%s is already checked in", name))
	default:
		if outcome.Failure == types.FAILURE_NETWORK_UNAVAILABLE {
			q.Push(types.TOAST_ERROR, "Check-in failed", "Could not reach the venue service. Try again.")
			return
		}
		q.Push(types.TOAST_ERROR, "Check-in failed", outcome.Reason)
	}
}

func (c *Controller) emit(guestID, party uint, source types.AttemptSource, outcome Outcome) {
	if c.sink == nil {
		return
	}
	at := time.Now()
	if outcome.ConfirmedAt != nil {
		at = *outcome.ConfirmedAt
	}
	c.sink.AdmissionCommitted(models.AdmissionEvent{
		VenueID:     c.venueID,
		GuestID:     guestID,
		Party:       party,
		Source:      string(source),
		DeviceID:    c.cfg.DeviceID,
		CheckedInAt: at,
	})
}

func scanRejectionBody(err error) string {
	switch {
	case errors.Is(err, backend.ErrWrongVenue):
		return "This code belongs to a different venue."
	case errors.Is(err, backend.ErrInvalidPayload):
		return "This is not a valid admission code."
	default:
		return "No guest matches this code. Check the booking and try another."
	}
}
