package admission

import (
	"testing"
	"time"

	"gac/src/types"

	"github.com/stretchr/testify/assert"
)

func TestOnlyFirstDecodeAccepted(t *testing.T) {
	d := NewScanDebouncer(50 * time.Millisecond)

	// decode, decode, decode before anything resolves
	assert.True(t, d.Accept())
	assert.False(t, d.Accept())
	assert.False(t, d.Accept())
	assert.Equal(t, types.SCANNER_PROCESSING, d.State())
}

func TestCooldownThenIdle(t *testing.T) {
	d := NewScanDebouncer(30 * time.Millisecond)

	assert.True(t, d.Accept())
	d.Resolve()
	assert.Equal(t, types.SCANNER_COOLDOWN, d.State())

	// still gated during cooldown
	assert.False(t, d.Accept())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, types.SCANNER_IDLE, d.State())
	assert.True(t, d.Accept())
}

func TestFailureStillResolves(t *testing.T) {
	d := NewScanDebouncer(20 * time.Millisecond)

	assert.True(t, d.Accept())
	// a failed attempt is a resolution too; the machine never sticks in
	// Processing
	d.Resolve()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, types.SCANNER_IDLE, d.State())
}

func TestBlockedRequiresDismiss(t *testing.T) {
	d := NewScanDebouncer(10 * time.Millisecond)

	assert.True(t, d.Accept())
	d.Block()
	assert.Equal(t, types.SCANNER_BLOCKED, d.State())

	// no timer rescues a blocked machine
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, types.SCANNER_BLOCKED, d.State())
	assert.False(t, d.Accept())

	assert.True(t, d.Dismiss())
	assert.Equal(t, types.SCANNER_IDLE, d.State())
	assert.False(t, d.Dismiss(), "dismiss only applies to a blocked machine")
}

func TestResetCancelsCooldownAndZeroesCount(t *testing.T) {
	d := NewScanDebouncer(time.Hour)

	assert.True(t, d.Accept())
	d.RecordAdmission()
	d.Resolve()
	assert.Equal(t, types.SCANNER_COOLDOWN, d.State())
	assert.Equal(t, uint(1), d.ScanCount())

	d.Reset()
	assert.Equal(t, types.SCANNER_IDLE, d.State())
	assert.Equal(t, uint(0), d.ScanCount())
	assert.True(t, d.Accept())
}

func TestStaleTimerCannotFireAfterReset(t *testing.T) {
	d := NewScanDebouncer(20 * time.Millisecond)

	assert.True(t, d.Accept())
	d.Resolve()
	d.Reset()
	assert.True(t, d.Accept(), "reset returns the machine to idle immediately")

	// the old cooldown timer expiring must not disturb the new attempt
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, types.SCANNER_PROCESSING, d.State())
}
