package roster

import (
	"testing"
	"time"

	"gac/src/models"

	"github.com/stretchr/testify/assert"
)

func nightOfThree() []models.GuestEntry {
	checkedInAt := time.Date(2025, 6, 14, 21, 5, 0, 0, time.UTC)
	return []models.GuestEntry{
		{ID: 1, BookingID: 10, GuestName: "Alice Moreau", PlusOnes: 1, ConfirmationCode: "ALC-441"},
		{ID: 2, BookingID: 11, GuestName: "Ben Okafor", PlusOnes: 0, ConfirmationCode: "BEN-772"},
		{ID: 3, BookingID: 12, GuestName: "Carla Diaz", PlusOnes: 2, CheckedIn: true, CheckedInAt: &checkedInAt, ConfirmationCode: "CRL-903"},
	}
}

func TestHeadcountSummary(t *testing.T) {
	r := New(1, "2025-06-14")
	r.Load(nightOfThree())

	checkedIn, total := r.HeadcountSummary()
	assert.Equal(t, uint(3), checkedIn)
	assert.Equal(t, uint(6), total)

	err := r.ApplyCheckIn(1, time.Now())
	assert.NoError(t, err)

	checkedIn, total = r.HeadcountSummary()
	assert.Equal(t, uint(5), checkedIn)
	assert.Equal(t, uint(6), total)
	assert.LessOrEqual(t, checkedIn, total)
}

func TestLoadReplacesEverything(t *testing.T) {
	r := New(1, "2025-06-14")
	r.Load(nightOfThree())
	assert.NoError(t, r.ApplyCheckIn(1, time.Now()))

	r.Load([]models.GuestEntry{
		{ID: 7, BookingID: 20, GuestName: "Dana Whitfield", PlusOnes: 3},
	})

	checkedIn, total := r.HeadcountSummary()
	assert.Equal(t, uint(0), checkedIn)
	assert.Equal(t, uint(4), total)
	assert.Equal(t, 1, r.Len())

	_, ok := r.Get(1)
	assert.False(t, ok)
}

func TestApplyCheckInIdempotence(t *testing.T) {
	r := New(1, "2025-06-14")
	r.Load(nightOfThree())

	at := time.Now()
	assert.NoError(t, r.ApplyCheckIn(2, at))
	assert.ErrorIs(t, r.ApplyCheckIn(2, at.Add(time.Second)), ErrAlreadyCheckedIn)

	e, ok := r.Get(2)
	assert.True(t, ok)
	assert.True(t, e.CheckedIn)
	assert.True(t, e.CheckedInAt.Equal(at))

	assert.ErrorIs(t, r.ApplyCheckIn(99, at), ErrNotFound)
}

func TestRevertCheckIn(t *testing.T) {
	r := New(1, "2025-06-14")
	r.Load(nightOfThree())

	assert.NoError(t, r.ApplyCheckIn(1, time.Now()))
	r.RevertCheckIn(1)

	e, _ := r.Get(1)
	assert.False(t, e.CheckedIn)
	assert.Nil(t, e.CheckedInAt)

	// reverting a guest who was never checked in is a silent no-op
	r.RevertCheckIn(2)
	r.RevertCheckIn(99)
	e, _ = r.Get(2)
	assert.False(t, e.CheckedIn)
}

func TestConfirmCheckInUpdatesTimestampOnly(t *testing.T) {
	r := New(1, "2025-06-14")
	r.Load(nightOfThree())

	guess := time.Now()
	assert.NoError(t, r.ApplyCheckIn(1, guess))

	confirmed := guess.Add(350 * time.Millisecond)
	r.ConfirmCheckIn(1, confirmed)

	e, _ := r.Get(1)
	assert.True(t, e.CheckedIn)
	assert.True(t, e.CheckedInAt.Equal(confirmed))

	// confirming a guest who is not checked in changes nothing
	r.ConfirmCheckIn(2, confirmed)
	e, _ = r.Get(2)
	assert.Nil(t, e.CheckedInAt)
}

func TestFindAndSearch(t *testing.T) {
	r := New(1, "2025-06-14")
	r.Load(nightOfThree())

	e, ok := r.Find("2")
	assert.True(t, ok)
	assert.Equal(t, "Ben Okafor", e.GuestName)

	e, ok = r.Find("crl-903")
	assert.True(t, ok)
	assert.Equal(t, "Carla Diaz", e.GuestName)

	// exact means exact: a partial code does not resolve
	_, ok = r.Find("CRL")
	assert.False(t, ok)

	matches := r.Search("crl")
	assert.Len(t, matches, 1)
	assert.Equal(t, uint(3), matches[0].ID)

	matches = r.Search("a")
	assert.Len(t, matches, 3)

	matches = r.Search("")
	assert.Len(t, matches, 3)
	assert.Equal(t, uint(1), matches[0].ID, "search preserves roster order")
}

func TestAddRemove(t *testing.T) {
	r := New(1, "2025-06-14")
	r.Load(nightOfThree())

	r.Add(models.GuestEntry{ID: 4, BookingID: 13, GuestName: "Elio Park", PlusOnes: 1})
	_, total := r.HeadcountSummary()
	assert.Equal(t, uint(8), total)

	// duplicate ids are ignored rather than double-counted
	r.Add(models.GuestEntry{ID: 4, BookingID: 13, GuestName: "Elio Park", PlusOnes: 1})
	_, total = r.HeadcountSummary()
	assert.Equal(t, uint(8), total)

	assert.True(t, r.Remove(4))
	assert.False(t, r.Remove(4))
	_, total = r.HeadcountSummary()
	assert.Equal(t, uint(6), total)
}

func TestGetReturnsCopy(t *testing.T) {
	r := New(1, "2025-06-14")
	r.Load(nightOfThree())

	e, _ := r.Get(1)
	e.CheckedIn = true

	fresh, _ := r.Get(1)
	assert.False(t, fresh.CheckedIn)
}
