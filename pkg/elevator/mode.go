package elevator

import (
	"log/slog"

	"go-elevator-controller/pkg/bus"
)

// Supervisor command bodies on TopicSupervisorMode.
const (
	supervisorControlled = 1
	supervisorNormal     = 2
)

const fireAlarmActive = 0

// ModeArbiter resolves the active operating mode from fire-alarm,
// clear-fire and supervisor messages.
// ModeArbiter는 우선순위 메시지로부터 현재 운행 모드를 결정합니다.
type ModeArbiter struct {
	bus    bus.Bus
	id     int
	mode   Mode
	logger *slog.Logger
}

// NewModeArbiter subscribes to the mode topics and starts in Normal mode.
func NewModeArbiter(b bus.Bus, id int) *ModeArbiter {
	b.Subscribe(bus.TopicSupervisorMode, id)
	b.Subscribe(bus.TopicFireAlarm, bus.AnySubtopic)
	b.Subscribe(bus.TopicClearFire, bus.AnySubtopic)

	return &ModeArbiter{
		bus:    b,
		id:     id,
		mode:   ModeNormal,
		logger: slog.Default().With("id", id, "component", "mode"),
	}
}

// Resolve drains at most one message per mode topic and returns the mode.
// FireSafety is left only through a clear-fire message.
func (a *ModeArbiter) Resolve() Mode {
	prev := a.mode
	a.update()
	if a.mode != prev {
		a.logger.Info("Operation Mode Changed", "from", prev, "to", a.mode)
	}
	return a.mode
}

// Mode returns the last resolved mode without reading the bus.
func (a *ModeArbiter) Mode() Mode {
	return a.mode
}

func (a *ModeArbiter) update() {
	// Fire alarm short-circuits every other topic.
	if msg, ok := a.bus.Get(bus.TopicFireAlarm, bus.AnySubtopic); ok {
		if msg.Body == fireAlarmActive {
			a.mode = ModeFireSafety
			return
		}
		a.logger.Debug("Ignoring fire alarm body", "body", msg.Body)
	}

	if _, ok := a.bus.Get(bus.TopicClearFire, bus.AnySubtopic); ok {
		a.mode = ModeNormal
		return
	}

	msg, ok := a.bus.Get(bus.TopicSupervisorMode, a.id)
	if !ok {
		return
	}
	if a.mode == ModeFireSafety {
		// Supervisor commands are consumed but have no effect during a fire.
		a.logger.Debug("Supervisor command ignored during fire safety", "body", msg.Body)
		return
	}
	switch msg.Body {
	case supervisorControlled:
		a.mode = ModeControlled
	case supervisorNormal:
		a.mode = ModeNormal
	default:
		a.logger.Debug("Ignoring supervisor command", "body", msg.Body)
	}
}
