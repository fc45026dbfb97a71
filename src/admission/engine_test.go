package admission

import (
	"context"
	"sync"
	"testing"
	"time"

	"gac/src/backend"
	"gac/src/models"
	"gac/src/roster"
	"gac/src/types"

	"github.com/stretchr/testify/assert"
)

type fakeSubmitter struct {
	mu        sync.Mutex
	calls     int
	err       error
	confirmAt *time.Time
	block     chan struct{}
}

func (f *fakeSubmitter) SubmitCheckIn(ctx context.Context, guestID, bookingID uint) (*time.Time, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.confirmAt, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testRoster() *roster.Roster {
	r := roster.New(1, "2025-06-14")
	r.Load([]models.GuestEntry{
		{ID: 1, BookingID: 10, GuestName: "Alice Moreau", PlusOnes: 1},
		{ID: 2, BookingID: 11, GuestName: "Ben Okafor"},
	})
	return r
}

func TestSubmitCheckInCommits(t *testing.T) {
	r := testRoster()
	fake := &fakeSubmitter{}
	e := NewSyncEngine(r, fake, time.Second)

	outcome := e.SubmitCheckIn(context.Background(), 1)
	assert.Equal(t, types.OUTCOME_COMMITTED, outcome.Status)
	assert.NotNil(t, outcome.ConfirmedAt)

	entry, _ := r.Get(1)
	assert.True(t, entry.CheckedIn)
	assert.Equal(t, 1, fake.callCount())
}

func TestSecondSubmitShortCircuits(t *testing.T) {
	r := testRoster()
	fake := &fakeSubmitter{}
	e := NewSyncEngine(r, fake, time.Second)

	first := e.SubmitCheckIn(context.Background(), 1)
	second := e.SubmitCheckIn(context.Background(), 1)

	assert.Equal(t, types.OUTCOME_COMMITTED, first.Status)
	assert.Equal(t, types.OUTCOME_ALREADY_CHECKED_IN, second.Status)
	assert.Equal(t, 1, fake.callCount(), "second attempt must not reach the network")
}

func TestConcurrentSubmitSameGuest(t *testing.T) {
	r := testRoster()
	fake := &fakeSubmitter{block: make(chan struct{})}
	e := NewSyncEngine(r, fake, time.Second)

	done := make(chan Outcome, 1)
	go func() {
		done <- e.SubmitCheckIn(context.Background(), 1)
	}()

	// wait until the first attempt is in flight
	for fake.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	second := e.SubmitCheckIn(context.Background(), 1)
	assert.Equal(t, types.OUTCOME_ALREADY_CHECKED_IN, second.Status)

	close(fake.block)
	first := <-done
	assert.Equal(t, types.OUTCOME_COMMITTED, first.Status)
	assert.Equal(t, 1, fake.callCount())
}

func TestFailedSubmitRollsBackExactly(t *testing.T) {
	r := testRoster()
	fake := &fakeSubmitter{err: backend.ErrUnavailable}
	e := NewSyncEngine(r, fake, time.Second)

	before, _ := r.Get(1)
	outcome := e.SubmitCheckIn(context.Background(), 1)

	assert.Equal(t, types.OUTCOME_ROLLED_BACK, outcome.Status)
	assert.Equal(t, types.FAILURE_NETWORK_UNAVAILABLE, outcome.Failure)

	after, _ := r.Get(1)
	assert.Equal(t, before.CheckedIn, after.CheckedIn)
	assert.Nil(t, after.CheckedInAt)

	// a fresh explicit attempt is allowed afterwards
	fake.err = nil
	retry := e.SubmitCheckIn(context.Background(), 1)
	assert.Equal(t, types.OUTCOME_COMMITTED, retry.Status)
}

func TestServerRejectionRollsBack(t *testing.T) {
	r := testRoster()
	fake := &fakeSubmitter{err: backend.ErrNotFound}
	e := NewSyncEngine(r, fake, time.Second)

	outcome := e.SubmitCheckIn(context.Background(), 1)
	assert.Equal(t, types.OUTCOME_ROLLED_BACK, outcome.Status)
	assert.Equal(t, types.FAILURE_SERVER_REJECTED, outcome.Failure)

	entry, _ := r.Get(1)
	assert.False(t, entry.CheckedIn)
}

func TestConflictCorrectsStaleRoster(t *testing.T) {
	// The guest was checked in at another device; our roster is stale.
	r := testRoster()
	fake := &fakeSubmitter{err: backend.ErrAlreadyCheckedIn}
	e := NewSyncEngine(r, fake, time.Second)

	outcome := e.SubmitCheckIn(context.Background(), 1)
	assert.Equal(t, types.OUTCOME_ALREADY_CHECKED_IN, outcome.Status)

	// corrected to checked-in rather than rolled back to stale data
	entry, _ := r.Get(1)
	assert.True(t, entry.CheckedIn)

	checkedIn, total := r.HeadcountSummary()
	assert.LessOrEqual(t, checkedIn, total)
}

func TestServerConfirmedTimestampWins(t *testing.T) {
	r := testRoster()
	confirmed := time.Now().Add(2 * time.Second).UTC()
	fake := &fakeSubmitter{confirmAt: &confirmed}
	e := NewSyncEngine(r, fake, time.Second)

	outcome := e.SubmitCheckIn(context.Background(), 1)
	assert.Equal(t, types.OUTCOME_COMMITTED, outcome.Status)
	assert.True(t, outcome.ConfirmedAt.Equal(confirmed))

	entry, _ := r.Get(1)
	assert.True(t, entry.CheckedInAt.Equal(confirmed))
}

func TestUnknownGuestNeverTouchesNetwork(t *testing.T) {
	r := testRoster()
	fake := &fakeSubmitter{}
	e := NewSyncEngine(r, fake, time.Second)

	outcome := e.SubmitCheckIn(context.Background(), 99)
	assert.Equal(t, types.OUTCOME_ROLLED_BACK, outcome.Status)
	assert.Equal(t, 0, fake.callCount())
}
