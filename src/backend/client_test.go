package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFetchRosterNormalizesAliases(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/venues/5/roster", r.URL.Path)
		assert.Equal(t, "2025-06-14", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"guests":[
			{"id":1,"booking_id":10,"guest_name":"Alice Moreau","plus_ones":1,"confirmation_code":"ALC-441"},
			{"guest_id":2,"booking_id":11,"customer_name":"Ben Okafor","party_size":1,"code":"BEN-772"},
			{"id":3,"booking_id":12,"host_name":"Carla Diaz","party_size":3,"checked_in":true,"code":"CRL-903"}
		]}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	entries, err := c.FetchRoster(context.Background(), 5, "2025-06-14")
	assert.NoError(t, err)
	assert.Len(t, entries, 3)

	assert.Equal(t, "Alice Moreau", entries[0].GuestName)
	assert.Equal(t, uint(1), entries[0].PlusOnes)

	assert.Equal(t, uint(2), entries[1].ID)
	assert.Equal(t, "Ben Okafor", entries[1].GuestName)
	assert.Equal(t, uint(0), entries[1].PlusOnes)
	assert.Equal(t, "BEN-772", entries[1].ConfirmationCode)

	assert.Equal(t, "Carla Diaz", entries[2].GuestName)
	assert.Equal(t, uint(2), entries[2].PlusOnes)
	assert.True(t, entries[2].CheckedIn)
}

func TestResolveScanErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusNotFound, `{"error":"no such code","code":"not_found"}`, ErrNotFound},
		{http.StatusUnprocessableEntity, `{"error":"bad token","code":"invalid_payload"}`, ErrInvalidPayload},
		{http.StatusForbidden, `{"error":"other venue","code":"wrong_venue"}`, ErrWrongVenue},
		{http.StatusForbidden, `not even json`, ErrWrongVenue},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(tc.body))
		}))
		c := NewClient(ts.URL, time.Second)
		_, err := c.ResolveScan(context.Background(), "whatever", 5)
		assert.ErrorIs(t, err, tc.want)
		ts.Close()
	}
}

func TestSubmitCheckInConflict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"guest already admitted","code":"already_checked_in"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second)
	_, err := c.SubmitCheckIn(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}

func TestTransientFailuresCollapseToUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	c := NewClient(ts.URL, time.Second)
	_, err := c.SubmitCheckIn(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrUnavailable)
	ts.Close()

	// server is gone entirely
	_, err = c.SubmitCheckIn(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSubmitCheckInTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"data":{"checked_in_at":"2025-06-14T21:30:00Z"}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, 50*time.Millisecond)
	_, err := c.SubmitCheckIn(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}
