package elevator

import (
	"log/slog"

	"go-elevator-controller/pkg/bus"
)

// Control room command bodies.
const (
	dispatchUp   = 0
	dispatchDown = 1
	carStop      = 0
)

// ControlledStrategy moves the car on control room dispatch and stop
// commands. Dispatch only carries a direction, so the car is sent to the
// extreme floor in that direction.
// ControlledStrategy는 관제실의 출발/정지 명령에 따라 카를 움직입니다.
type ControlledStrategy struct {
	components
	bus    bus.Bus
	id     int
	logger *slog.Logger
}

// NewControlledStrategy subscribes to control-room commands for id and
// restricts the button panel.
func NewControlledStrategy(b bus.Bus, id int, scheduler *CallScheduler, cabin *Cabin, doors *DoorInterlock, notifier *Notifier) *ControlledStrategy {
	b.Subscribe(bus.TopicCarDispatch, id)
	b.Subscribe(bus.TopicCarStop, id)

	s := &ControlledStrategy{
		components: components{scheduler: scheduler, cabin: cabin, doors: doors, notifier: notifier},
		bus:        b,
		id:         id,
		logger:     slog.Default().With("id", id, "component", "controlled"),
	}
	s.restrictPanel()
	return s
}

// Mode returns ModeControlled.
func (s *ControlledStrategy) Mode() Mode { return ModeControlled }

// Step handles a stop command if one is queued, otherwise a dispatch.
// A pending dispatch stays queued for a later tick when a stop is handled.
func (s *ControlledStrategy) Step() {
	if _, ok := s.bus.Get(bus.TopicCarStop, s.id); ok {
		s.handleStop()
		return
	}
	if msg, ok := s.bus.Get(bus.TopicCarDispatch, s.id); ok {
		s.handleDispatch(msg.Body)
	}
}

func (s *ControlledStrategy) handleStop() {
	s.bus.Publish(bus.New(bus.TopicCarStop, s.id, carStop))
	s.cabin.Halt()
	s.doors.Open()

	floor, _ := s.cabin.CurrentStatus()
	s.notifier.ElevatorStatus(floor, DirNone)
	s.logger.Info("Car stopped by control room", "floor", floor)
}

func (s *ControlledStrategy) handleDispatch(body int) {
	var target int
	var dir Direction
	switch body {
	case dispatchUp:
		target, dir = MaxFloor, DirUp
	case dispatchDown:
		target, dir = MinFloor, DirDown
	default:
		s.logger.Debug("Ignoring dispatch command", "body", body)
		return
	}

	s.doors.Close()
	s.cabin.GoToFloor(target)

	// 표시기는 현재 층이 아닌 목적 층을 보여줍니다.
	s.notifier.ElevatorStatus(target, dir)
	s.logger.Info("Car dispatched by control room", "dir", dir, "target", target)
}
