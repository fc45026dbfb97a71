package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"gac/src/models"
)

// Failure taxonomy surfaced to callers. Transport errors, timeouts and
// 5xx responses all collapse into ErrUnavailable: from the operator's
// point of view they mean the same thing, "try again".
var (
	ErrUnavailable      = errors.New("venue service unavailable")
	ErrNotFound         = errors.New("not found")
	ErrInvalidPayload   = errors.New("invalid scan payload")
	ErrWrongVenue       = errors.New("code belongs to a different venue")
	ErrAlreadyCheckedIn = errors.New("guest already checked in")
	ErrValidation       = errors.New("validation failed")
)

// Client talks to the authoritative venue backend. It performs no
// retries of its own: a lost response on a check-in must surface as a
// failure, never as a silently repeated request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   os.Getenv("BACKEND_API_TOKEN"),
		http:    &http.Client{Timeout: timeout},
	}
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	res, err := c.http.Do(req)
	if err != nil {
		log.Printf("[backend] %s %s failed: %s\n", method, path, err.Error())
		return ErrUnavailable
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return ErrUnavailable
	}
	if res.StatusCode >= http.StatusInternalServerError {
		log.Printf("[backend] %s %s returned %d\n", method, path, res.StatusCode)
		return ErrUnavailable
	}
	if res.StatusCode >= http.StatusBadRequest {
		return c.mapError(res.StatusCode, raw)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) mapError(status int, raw []byte) error {
	var ae apiError
	json.Unmarshal(raw, &ae)
	switch ae.Code {
	case "already_checked_in":
		return ErrAlreadyCheckedIn
	case "not_found":
		return ErrNotFound
	case "invalid_payload":
		return ErrInvalidPayload
	case "wrong_venue":
		return ErrWrongVenue
	case "validation":
		return ErrValidation
	}
	switch status {
	case http.StatusConflict:
		return ErrAlreadyCheckedIn
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden:
		return ErrWrongVenue
	case http.StatusUnprocessableEntity:
		return ErrInvalidPayload
	}
	if ae.Error != "" {
		return errors.New(ae.Error)
	}
	return fmt.Errorf("venue service returned status %d", status)
}

// FetchRoster retrieves the full guest list for one venue and date.
func (c *Client) FetchRoster(ctx context.Context, venueID uint, date string) ([]models.GuestEntry, error) {
	var res struct {
		Data struct {
			Guests []rawGuest `json:"guests"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/api/v1/venues/%d/roster?date=%s", venueID, date)
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	entries := make([]models.GuestEntry, 0, len(res.Data.Guests))
	for i := range res.Data.Guests {
		entries = append(entries, res.Data.Guests[i].canonical())
	}
	return entries, nil
}

// ResolveScan asks the backend which guest an opaque QR payload belongs
// to. Validity and ownership are separable from the check-in itself.
func (c *Client) ResolveScan(ctx context.Context, payload string, venueID uint) (*models.ResolvedScan, error) {
	var res struct {
		Data rawResolvedScan `json:"data"`
	}
	body := map[string]any{"payload": payload, "venue_id": venueID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/scans/resolve", body, &res); err != nil {
		return nil, err
	}
	resolved := res.Data.canonical()
	return &resolved, nil
}

// SubmitCheckIn marks the guest arrived on the authoritative side and
// returns the server-confirmed timestamp.
func (c *Client) SubmitCheckIn(ctx context.Context, guestID, bookingID uint) (*time.Time, error) {
	var res struct {
		Data struct {
			CheckedInAt *time.Time `json:"checked_in_at"`
		} `json:"data"`
	}
	body := map[string]any{"guest_id": guestID, "booking_id": bookingID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/checkins", body, &res); err != nil {
		return nil, err
	}
	return res.Data.CheckedInAt, nil
}

// AddGuest creates a roster entry upstream and returns the canonical
// created entry.
func (c *Client) AddGuest(ctx context.Context, venueID, bookingID uint, name string, plusOnes uint) (*models.GuestEntry, error) {
	var res struct {
		Data rawGuest `json:"data"`
	}
	body := map[string]any{"booking_id": bookingID, "name": name, "plus_ones": plusOnes}
	path := fmt.Sprintf("/api/v1/venues/%d/guests", venueID)
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return nil, err
	}
	entry := res.Data.canonical()
	return &entry, nil
}

func (c *Client) RemoveGuest(ctx context.Context, guestID uint) error {
	path := fmt.Sprintf("/api/v1/guests/%d", guestID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
