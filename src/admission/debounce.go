package admission

import (
	"sync"
	"time"

	"gac/src/types"
)

// ScanDebouncer stands between "the camera decodes a QR thirty times a
// second" and "exactly one admission attempt per physical presentation
// of a code". It is an explicit state machine, not boolean flags:
//
//	Idle -> Processing -> Cooldown -> Idle
//	              \-> Blocked -> Idle (explicit dismiss only)
//
// Decode events are accepted only in Idle. The cooldown timer is owned
// by the machine itself and nothing external can shortcut it except
// closing the session.
type ScanDebouncer struct {
	mu        sync.Mutex
	state     types.ScannerState
	cooldown  time.Duration
	timer     *time.Timer
	gen       uint64
	scanCount uint
}

func NewScanDebouncer(cooldown time.Duration) *ScanDebouncer {
	return &ScanDebouncer{state: types.SCANNER_IDLE, cooldown: cooldown}
}

// Accept reports whether a decode event may proceed. Everything that
// arrives while the machine is not Idle is dropped.
func (d *ScanDebouncer) Accept() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != types.SCANNER_IDLE {
		return false
	}
	d.state = types.SCANNER_PROCESSING
	return true
}

// Resolve records that the attempt reached a terminal outcome, success
// or failure, and starts the cooldown. Processing never outlives the
// attempt that entered it.
func (d *ScanDebouncer) Resolve() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != types.SCANNER_PROCESSING {
		return
	}
	d.state = types.SCANNER_COOLDOWN
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.cooldown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.gen == gen && d.state == types.SCANNER_COOLDOWN {
			d.state = types.SCANNER_IDLE
		}
	})
}

// Block parks the machine after a scan-resolution failure that needs an
// explicit operator acknowledgment before scanning resumes.
func (d *ScanDebouncer) Block() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != types.SCANNER_PROCESSING {
		return
	}
	d.state = types.SCANNER_BLOCKED
}

// Dismiss releases a Blocked machine back to Idle.
func (d *ScanDebouncer) Dismiss() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != types.SCANNER_BLOCKED {
		return false
	}
	d.state = types.SCANNER_IDLE
	return true
}

// Reset returns the machine to Idle and zeroes the session scan count.
// This is the session open/close path and the only way to cut a
// cooldown short.
func (d *ScanDebouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.state = types.SCANNER_IDLE
	d.scanCount = 0
}

func (d *ScanDebouncer) State() types.ScannerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// RecordAdmission bumps the session counter shown to the operator.
func (d *ScanDebouncer) RecordAdmission() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scanCount++
}

func (d *ScanDebouncer) ScanCount() uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scanCount
}
