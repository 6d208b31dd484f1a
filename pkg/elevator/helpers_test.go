package elevator

import (
	"testing"
	"time"

	"go-elevator-controller/pkg/bus"
)

const testID = 1

// fastConfig keeps goroutine-driven tests quick.
func fastConfig() Config {
	cfg := DefaultConfig(testID)
	cfg.TravelTime = 5 * time.Millisecond
	cfg.IdleInterval = 2 * time.Millisecond
	cfg.TickInterval = 5 * time.Millisecond
	cfg.DoorHoldTicks = 2
	return cfg
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

// rig wires one elevator's components on a fresh bus.
type rig struct {
	bus       *bus.MemoryBus
	scheduler *CallScheduler
	cabin     *Cabin
	doors     *DoorInterlock
	notifier  *Notifier
}

func newRig(t *testing.T) *rig {
	t.Helper()
	b := bus.NewMemoryBus()
	r := &rig{
		bus:       b,
		scheduler: NewCallScheduler(b, testID),
		cabin:     NewCabin(b, fastConfig()),
		doors:     NewDoorInterlock(b, testID),
		notifier:  NewNotifier(b, testID),
	}
	t.Cleanup(r.cabin.Stop)
	return r
}

// moveCabin drives the cabin to floor and waits for it to settle.
func (r *rig) moveCabin(t *testing.T, floor int) {
	t.Helper()
	r.cabin.GoToFloor(floor)
	waitFor(t, time.Second, "cabin arrival", func() bool {
		s := r.cabin.State()
		return s.CurrentFloor == floor && s.Movement == Idle
	})
}

// bodies returns the bodies published on topic, oldest first.
func bodies(b *bus.MemoryBus, topic bus.Topic) []int {
	var out []int
	for _, m := range b.PublishedOn(topic) {
		out = append(out, m.Body)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
