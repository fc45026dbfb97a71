package admission

import (
	"testing"
	"time"

	"gac/src/types"

	"github.com/stretchr/testify/assert"
)

func TestPushAndExpire(t *testing.T) {
	q := NewNotificationQueue(40 * time.Millisecond)

	q.Push(types.TOAST_SUCCESS, "Welcome", "Alice checked in")
	msg := q.Current()
	assert.NotNil(t, msg)
	assert.Equal(t, types.TOAST_SUCCESS, msg.Kind)

	time.Sleep(80 * time.Millisecond)
	assert.Nil(t, q.Current())
}

func TestReplacementRestartsTTL(t *testing.T) {
	q := NewNotificationQueue(60 * time.Millisecond)

	q.Push(types.TOAST_SUCCESS, "Welcome", "first")
	time.Sleep(40 * time.Millisecond)
	q.Push(types.TOAST_ERROR, "Check-in failed", "second")

	// only the newest message is ever visible
	msg := q.Current()
	assert.NotNil(t, msg)
	assert.Equal(t, "second", msg.Body)

	// the first message's timer must not clear the second early: a full
	// TTL counts from the second push
	time.Sleep(40 * time.Millisecond)
	msg = q.Current()
	assert.NotNil(t, msg)
	assert.Equal(t, "second", msg.Body)

	time.Sleep(40 * time.Millisecond)
	assert.Nil(t, q.Current())
}

func TestClear(t *testing.T) {
	q := NewNotificationQueue(time.Hour)
	q.Push(types.TOAST_ERROR, "Code not recognized", "bad code")
	q.Clear()
	assert.Nil(t, q.Current())
}
