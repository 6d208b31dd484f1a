package elevator

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-elevator-controller/pkg/bus"
)

func newController(t *testing.T) (*bus.MemoryBus, *Controller) {
	t.Helper()
	b := bus.NewMemoryBus()
	c, err := New(b, fastConfig())
	if err != nil {
		t.Fatalf("Failed to create controller: %v", err)
	}
	t.Cleanup(c.Close)
	return b, c
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.RecallFloor = 0
	if _, err := New(bus.NewMemoryBus(), cfg); err == nil {
		t.Error("Expected error for recall floor 0")
	}
	if _, err := New(nil, fastConfig()); err == nil {
		t.Error("Expected error for nil bus")
	}
}

func TestController_ModeSwitching(t *testing.T) {
	b, c := newController(t)

	if m := c.Tick(); m != ModeNormal {
		t.Fatalf("Expected Normal on first tick, got %s", m)
	}
	if got := bodies(b, bus.TopicCallsEnabled); !equalInts(got, []int{1}) {
		t.Errorf("Expected calls enabled on Normal entry, got %v", got)
	}

	// Fire alarm wins over a simultaneous supervisor command
	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 1))
	b.Deliver(bus.New(bus.TopicFireAlarm, 0, 0))
	if m := c.Tick(); m != ModeFireSafety {
		t.Fatalf("Expected FireSafety, got %s", m)
	}
	if got := bodies(b, bus.TopicCallsEnabled); !equalInts(got, []int{1, 0}) {
		t.Errorf("Expected calls disabled on fire entry, got %v", got)
	}
	for i := 0; i < 3; i++ {
		if m := c.Tick(); m != ModeFireSafety {
			t.Fatalf("Tick %d: FireSafety must persist, got %s", i, m)
		}
	}
	// Re-entry toggles are sent once per entry, not per tick
	if n := len(b.PublishedOn(bus.TopicCallsEnabled)); n != 2 {
		t.Errorf("Expected 2 calls-enabled toggles, got %d", n)
	}

	b.Deliver(bus.New(bus.TopicClearFire, 0, 0))
	if m := c.Tick(); m != ModeNormal {
		t.Fatalf("Expected Normal after clear fire, got %s", m)
	}

	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 1))
	if m := c.Tick(); m != ModeControlled {
		t.Fatalf("Expected Controlled, got %s", m)
	}
	if got := c.Status().Mode; got != ModeControlled {
		t.Errorf("Status mode: expected Controlled, got %s", got)
	}
}

func TestController_NormalServesRequest(t *testing.T) {
	b, c := newController(t)
	c.Tick()

	b.Deliver(bus.New(bus.TopicCabinRequest, testID, 3))
	waitFor(t, 2*time.Second, "request at 3 served", func() bool {
		c.Tick()
		s := c.Status()
		return s.Cabin.CurrentFloor == 3 && len(s.PendingFloors) == 0
	})

	if got := bodies(b, bus.TopicRequestReset); !equalInts(got, []int{3}) {
		t.Errorf("Expected request reset for 3, got %v", got)
	}
}

func TestController_FireRecall(t *testing.T) {
	b, c := newController(t)
	c.Tick()

	b.Deliver(bus.New(bus.TopicCabinRequest, testID, 6))
	waitFor(t, 2*time.Second, "car at 6", func() bool {
		c.Tick()
		return c.Cabin().Floor() == 6
	})

	b.Deliver(bus.New(bus.TopicFireAlarm, 0, 0))
	waitFor(t, 2*time.Second, "recall to floor 1", func() bool {
		c.Tick()
		// Sensors report the doors closed/open as commanded
		b.Deliver(bus.New(bus.TopicDoorPosition, testID, 1))
		s := c.Status()
		return s.Mode == ModeFireSafety && s.Cabin.CurrentFloor == 1 && s.Cabin.Movement == Idle
	})
}

func TestController_StatusIsCopy(t *testing.T) {
	b, c := newController(t)
	b.Deliver(bus.New(bus.TopicHallCall, 7, int(DirDown)))
	b.Deliver(bus.New(bus.TopicHallCall, 9, int(DirDown)))
	c.Tick()

	s := c.Status()
	if len(s.PendingFloors) == 0 {
		t.Fatal("Expected pending floors in status")
	}
	s.PendingFloors[0] = 42
	if c.Status().PendingFloors[0] == 42 {
		t.Error("Status snapshot aliases controller state")
	}
	if s.Ticks != 1 || s.ID != testID {
		t.Errorf("Unexpected status header: %+v", s)
	}
}

func TestController_Run(t *testing.T) {
	b, c := newController(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	b.Deliver(bus.New(bus.TopicHallCall, 2, int(DirUp)))
	waitFor(t, 2*time.Second, "run loop serving floor 2", func() bool {
		s := c.Status()
		return s.Ticks > 0 && s.Cabin.CurrentFloor == 2
	})

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
