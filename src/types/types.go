package types

import (
	"github.com/golang-jwt/jwt/v5"
)

type AttemptSource string

const (
	ATTEMPT_MANUAL AttemptSource = "manual"
	ATTEMPT_SCAN   AttemptSource = "scan"
)

type ToastKind string

const (
	TOAST_SUCCESS ToastKind = "success"
	TOAST_ERROR   ToastKind = "error"
)

// ScannerState is the explicit debouncer state machine over the decode
// event stream. Decode events are only accepted in SCANNER_IDLE.
type ScannerState string

const (
	SCANNER_IDLE       ScannerState = "idle"
	SCANNER_PROCESSING ScannerState = "processing"
	SCANNER_COOLDOWN   ScannerState = "cooldown"
	SCANNER_BLOCKED    ScannerState = "blocked"
)

type OutcomeStatus string

const (
	OUTCOME_COMMITTED          OutcomeStatus = "committed"
	OUTCOME_ROLLED_BACK        OutcomeStatus = "rolled_back"
	OUTCOME_ALREADY_CHECKED_IN OutcomeStatus = "already_checked_in"
)

// FailureKind distinguishes retry-the-same-action failures from
// try-something-else failures surfaced to the operator.
type FailureKind string

const (
	FAILURE_NONE                FailureKind = ""
	FAILURE_NETWORK_UNAVAILABLE FailureKind = "network_unavailable"
	FAILURE_SERVER_REJECTED     FailureKind = "server_rejected"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type SessionRequestParams struct {
	SessionID string `uri:"id" binding:"required,uuid"`
}

type RosterQueryFilters struct {
	Q string `form:"q"`
}

type AddGuestRequestBody struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Name      string `json:"name" binding:"required,fullname"`
	PlusOnes  uint   `json:"plus_ones"`
}

type RemoveGuestRequestBody struct {
	// Confirm must be sent explicitly; deleting a guest is never implied
	// by merely hitting the endpoint.
	Confirm bool `json:"confirm" binding:"required"`
}

type ManualCheckInRequestBody struct {
	GuestID uint `json:"guest_id" binding:"required"`
}

type ScanRequestBody struct {
	Payload string `json:"payload" binding:"required"`
}

type ScanSessionView struct {
	ID        string       `json:"id"`
	State     ScannerState `json:"state"`
	Locked    bool         `json:"locked"`
	ScanCount uint         `json:"scan_count"`
}

type Claims struct {
	Username string   `json:"username"`
	Role     string   `json:"role"`
	Venue    uint     `json:"venue"`
	UID      string   `json:"uid"`
	jwt.RegisteredClaims
}

type Handler func(payload string)
