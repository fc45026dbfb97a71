package backend

import (
	"time"

	"gac/src/models"
)

// The venue backend is not consistent about field naming across its
// endpoints: guests arrive as guest_name, customer_name or host_name
// depending on which service produced them, confirmation codes as
// confirmation_code or code, and party sizes either as plus_ones or as a
// total party_size. Everything is folded into the canonical shapes here,
// at the network boundary, so the ambiguity never propagates inward.

type rawGuest struct {
	ID               uint       `json:"id"`
	GuestID          uint       `json:"guest_id"`
	BookingID        uint       `json:"booking_id"`
	GuestName        string     `json:"guest_name"`
	CustomerName     string     `json:"customer_name"`
	HostName         string     `json:"host_name"`
	PlusOnes         *uint      `json:"plus_ones"`
	PartySize        *uint      `json:"party_size"`
	CheckedIn        bool       `json:"checked_in"`
	CheckedInAt      *time.Time `json:"checked_in_at"`
	ConfirmationCode string     `json:"confirmation_code"`
	Code             string     `json:"code"`
}

func (r *rawGuest) canonical() models.GuestEntry {
	e := models.GuestEntry{
		ID:               r.ID,
		BookingID:        r.BookingID,
		GuestName:        r.GuestName,
		CheckedIn:        r.CheckedIn,
		CheckedInAt:      r.CheckedInAt,
		ConfirmationCode: r.ConfirmationCode,
	}
	if e.ID == 0 {
		e.ID = r.GuestID
	}
	if e.GuestName == "" {
		e.GuestName = r.CustomerName
	}
	if e.GuestName == "" {
		e.GuestName = r.HostName
	}
	if e.ConfirmationCode == "" {
		e.ConfirmationCode = r.Code
	}
	switch {
	case r.PlusOnes != nil:
		e.PlusOnes = *r.PlusOnes
	case r.PartySize != nil && *r.PartySize > 0:
		e.PlusOnes = *r.PartySize - 1
	}
	return e
}

type rawResolvedScan struct {
	ID        uint   `json:"id"`
	GuestID   uint   `json:"guest_id"`
	GuestName string `json:"guest_name"`
	HostName  string `json:"host_name"`
	PlusOnes  *uint  `json:"plus_ones"`
	PartySize *uint  `json:"party_size"`
}

func (r *rawResolvedScan) canonical() models.ResolvedScan {
	s := models.ResolvedScan{
		GuestID:   r.GuestID,
		GuestName: r.GuestName,
		PartySize: 1,
	}
	if s.GuestID == 0 {
		s.GuestID = r.ID
	}
	if s.GuestName == "" {
		s.GuestName = r.HostName
	}
	switch {
	case r.PartySize != nil && *r.PartySize > 0:
		s.PartySize = *r.PartySize
	case r.PlusOnes != nil:
		s.PartySize = 1 + *r.PlusOnes
	}
	return s
}
