package models

import "time"

// GuestEntry is the canonical roster shape. The backend is inconsistent
// about field naming across endpoints; backend/adapter.go folds its
// aliases into this struct so nothing past the network boundary ever
// sees them.
type GuestEntry struct {
	ID               uint       `json:"id"`
	BookingID        uint       `json:"booking_id"`
	GuestName        string     `json:"guest_name"`
	PlusOnes         uint       `json:"plus_ones"`
	CheckedIn        bool       `json:"checked_in"`
	CheckedInAt      *time.Time `json:"checked_in_at,omitempty"`
	ConfirmationCode string     `json:"confirmation_code,omitempty"`
}

// Headcount is the entry's contribution to the venue total. Plus-ones
// are counted but not tracked as separate entries.
func (g *GuestEntry) Headcount() uint {
	return 1 + g.PlusOnes
}

// ResolvedScan is the backend's answer to a QR payload: which guest the
// opaque token belongs to. Resolution is server-side because the payload
// is a signed token, not a raw guest id.
type ResolvedScan struct {
	GuestID   uint   `json:"guest_id"`
	GuestName string `json:"guest_name"`
	PartySize uint   `json:"party_size"`
}

// AdmissionEvent is published to the broker when a check-in commits, so
// other door devices against the same venue can correct their rosters.
type AdmissionEvent struct {
	VenueID     uint      `json:"venue_id"`
	GuestID     uint      `json:"guest_id"`
	Party       uint      `json:"party"`
	Source      string    `json:"source"`
	DeviceID    string    `json:"device_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
}
