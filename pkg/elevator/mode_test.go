package elevator

import (
	"testing"

	"go-elevator-controller/pkg/bus"
)

func TestModeArbiter_Default(t *testing.T) {
	b := bus.NewMemoryBus()
	a := NewModeArbiter(b, testID)

	if m := a.Resolve(); m != ModeNormal {
		t.Errorf("Expected Normal with no messages, got %s", m)
	}
}

func TestModeArbiter_Supervisor(t *testing.T) {
	b := bus.NewMemoryBus()
	a := NewModeArbiter(b, testID)

	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 1))
	if m := a.Resolve(); m != ModeControlled {
		t.Errorf("Expected Controlled, got %s", m)
	}

	// Unknown body is ignored, mode kept
	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 9))
	if m := a.Resolve(); m != ModeControlled {
		t.Errorf("Expected Controlled after unknown body, got %s", m)
	}

	// Commands for another elevator never reach us
	b.Deliver(bus.New(bus.TopicSupervisorMode, testID+1, 2))
	if m := a.Resolve(); m != ModeControlled {
		t.Errorf("Expected Controlled after foreign command, got %s", m)
	}

	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 2))
	if m := a.Resolve(); m != ModeNormal {
		t.Errorf("Expected Normal, got %s", m)
	}
}

func TestModeArbiter_FireOverridesSupervisor(t *testing.T) {
	b := bus.NewMemoryBus()
	a := NewModeArbiter(b, testID)

	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 1))
	b.Deliver(bus.New(bus.TopicFireAlarm, 0, 0))
	if m := a.Resolve(); m != ModeFireSafety {
		t.Fatalf("Expected FireSafety, got %s", m)
	}

	// Persists without further alarms; the queued supervisor command is
	// consumed without effect
	for i := 0; i < 3; i++ {
		if m := a.Resolve(); m != ModeFireSafety {
			t.Fatalf("Resolve %d: expected FireSafety to persist, got %s", i, m)
		}
	}
	if b.Pending() != 0 {
		t.Errorf("Expected supervisor command drained, %d pending", b.Pending())
	}

	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 2))
	if m := a.Resolve(); m != ModeFireSafety {
		t.Errorf("Supervisor must not leave FireSafety, got %s", m)
	}

	b.Deliver(bus.New(bus.TopicClearFire, 0, 0))
	if m := a.Resolve(); m != ModeNormal {
		t.Errorf("Expected Normal after clear fire, got %s", m)
	}
}

func TestModeArbiter_InactiveFireAlarmIgnored(t *testing.T) {
	b := bus.NewMemoryBus()
	a := NewModeArbiter(b, testID)

	b.Deliver(bus.New(bus.TopicFireAlarm, 0, 1))
	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 1))
	if m := a.Resolve(); m != ModeControlled {
		t.Errorf("Expected Controlled, non-active alarm must not short-circuit, got %s", m)
	}
}

func TestModeArbiter_ClearFireBeforeSupervisor(t *testing.T) {
	b := bus.NewMemoryBus()
	a := NewModeArbiter(b, testID)

	b.Deliver(bus.New(bus.TopicFireAlarm, 0, 0))
	a.Resolve()

	// Clear fire wins this call; the supervisor command applies on the next
	b.Deliver(bus.New(bus.TopicClearFire, 0, 0))
	b.Deliver(bus.New(bus.TopicSupervisorMode, testID, 1))
	if m := a.Resolve(); m != ModeNormal {
		t.Errorf("Expected Normal after clear fire, got %s", m)
	}
	if m := a.Resolve(); m != ModeControlled {
		t.Errorf("Expected Controlled on following resolve, got %s", m)
	}
	if a.Mode() != ModeControlled {
		t.Errorf("Mode() should return the last resolved mode, got %s", a.Mode())
	}
}
