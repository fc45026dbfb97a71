package common

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"gac/src/admission"
	"gac/src/backend"
	"gac/src/config"
	"gac/src/lib"
	"gac/src/models"
	"gac/src/roster"

	"github.com/google/uuid"
)

// VenueHub owns one AdmissionController per venue this device serves.
// Controllers are created lazily on first use and bootstrapped with a
// full roster fetch from the authoritative backend.
type VenueHub struct {
	mu          sync.Mutex
	controllers map[uint]*admission.Controller
	client      *backend.Client
	sink        admission.EventSink
	deviceID    string
}

var hub *VenueHub

func GetHub() *VenueHub {
	if hub != nil {
		return hub
	}
	client := backend.NewClient(config.BACKEND_HOST, config.BackendTimeout())
	hub = NewVenueHub(client, &Broadcaster{})
	return hub
}

// SetHub swaps the singleton; used by tests to point the hub at a fake
// backend without broker or socket fan-out.
func SetHub(h *VenueHub) {
	hub = h
}

func NewVenueHub(client *backend.Client, sink admission.EventSink) *VenueHub {
	return &VenueHub{
		controllers: make(map[uint]*admission.Controller),
		client:      client,
		sink:        sink,
		deviceID:    uuid.NewString(),
	}
}

func (h *VenueHub) Client() *backend.Client { return h.client }
func (h *VenueHub) DeviceID() string        { return h.deviceID }

// Controller returns the admission controller for a venue, creating and
// bootstrapping it on first use.
func (h *VenueHub) Controller(ctx context.Context, venueID uint) (*admission.Controller, error) {
	h.mu.Lock()
	if c, ok := h.controllers[venueID]; ok {
		h.mu.Unlock()
		return c, nil
	}
	h.mu.Unlock()

	entries, err := h.client.FetchRoster(ctx, venueID, config.TodayDate())
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.controllers[venueID]; ok {
		return c, nil
	}
	r := roster.New(venueID, config.TodayDate())
	r.Load(entries)
	engine := admission.NewSyncEngine(r, h.client, config.BackendTimeout())
	c := admission.NewController(venueID, r, engine, h.client, h.sink, admission.Config{
		ScanCooldown:    config.ScanCooldown(),
		ScannerToastTTL: config.ScannerToastTTL(),
		ListToastTTL:    config.ListToastTTL(),
		DeviceID:        h.deviceID,
	})
	h.controllers[venueID] = c
	log.Printf("Bootstrapped roster for venue [%d] with %d guests\n", venueID, r.Len())
	return c, nil
}

// RefreshAll re-fetches every hosted roster. Wired to the scheduler so
// stale rosters converge even without admissions happening.
func (h *VenueHub) RefreshAll(ctx context.Context) {
	h.mu.Lock()
	controllers := make([]*admission.Controller, 0, len(h.controllers))
	for _, c := range h.controllers {
		controllers = append(controllers, c)
	}
	h.mu.Unlock()

	for _, c := range controllers {
		r := c.Roster()
		entries, err := h.client.FetchRoster(ctx, r.VenueID(), r.Date())
		if err != nil {
			log.Printf("Error refreshing roster for venue [%d]: %s\n", r.VenueID(), err.Error())
			continue
		}
		r.Load(entries)
	}
}

// HandleRemoteAdmission is the broker consumer callback: a check-in
// committed at another door device lands here and corrects our roster.
func (h *VenueHub) HandleRemoteAdmission(payload string) {
	var evt models.AdmissionEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		log.Printf("Error decoding admission event: %s\n", err.Error())
		return
	}
	if evt.DeviceID == h.deviceID {
		return
	}
	h.mu.Lock()
	c, ok := h.controllers[evt.VenueID]
	h.mu.Unlock()
	if !ok {
		return
	}
	c.ApplyRemoteCheckIn(evt.GuestID, evt.CheckedInAt)
}

// Broadcaster fans committed admissions out to the broker and to every
// socket client watching the venue.
type Broadcaster struct{}

func (b *Broadcaster) AdmissionCommitted(evt models.AdmissionEvent) {
	go func() {
		if err := lib.KafkaProduceMessage("gac", lib.AdmissionsTopic, &evt); err != nil {
			log.Printf("Error publishing admission event: %s\n", err.Error())
		}
	}()
	lib.EmitAdmission(evt.VenueID, &evt)
}
