package elevator

import (
	"log/slog"

	"go-elevator-controller/pkg/bus"
)

// floorSet is a presence flag per floor. Index 0 is unused.
type floorSet [MaxFloor + 1]bool

func (s *floorSet) set(f int) {
	if IsValidFloor(f) {
		s[f] = true
	}
}

func (s *floorSet) clear(f int) {
	if IsValidFloor(f) {
		s[f] = false
	}
}

func (s *floorSet) has(f int) bool {
	return IsValidFloor(f) && s[f]
}

// CallScheduler tracks hall calls and cabin requests and picks the next
// floor to serve using LOOK/SCAN.
// CallScheduler는 홀 호출과 카 내부 요청을 저장하고 LOOK 알고리즘으로 다음 목표 층을 결정합니다.
type CallScheduler struct {
	bus    bus.Bus
	id     int
	logger *slog.Logger

	cabin    floorSet // 카 내부 요청
	hallUp   floorSet // 상행 홀 호출
	hallDown floorSet // 하행 홀 호출
}

// NewCallScheduler subscribes to hall calls from every floor and cabin
// requests for this elevator.
func NewCallScheduler(b bus.Bus, id int) *CallScheduler {
	b.Subscribe(bus.TopicHallCall, bus.AnySubtopic)
	b.Subscribe(bus.TopicCabinRequest, id)

	return &CallScheduler{
		bus:    b,
		id:     id,
		logger: slog.Default().With("id", id, "component", "scheduler"),
	}
}

// Absorb drains every pending hall-call and cabin-request message.
// Out-of-range floors and unknown directions are dropped.
func (s *CallScheduler) Absorb() {
	for {
		msg, ok := s.bus.Get(bus.TopicHallCall, bus.AnySubtopic)
		if !ok {
			break
		}
		floor := msg.Subtopic
		if !IsValidFloor(floor) {
			s.logger.Debug("Hall call dropped: floor out of range", "floor", floor)
			continue
		}
		var origin CallOrigin
		switch Direction(msg.Body) {
		case DirUp:
			s.hallUp.set(floor)
			origin = OriginHallUp
		case DirDown:
			s.hallDown.set(floor)
			origin = OriginHallDown
		default:
			s.logger.Debug("Hall call dropped: unknown direction", "floor", floor, "body", msg.Body)
			continue
		}
		s.logger.Info("Call registered", "floor", floor, "origin", origin)
	}

	for {
		msg, ok := s.bus.Get(bus.TopicCabinRequest, s.id)
		if !ok {
			break
		}
		floor := msg.Body
		if !IsValidFloor(floor) {
			s.logger.Debug("Cabin request dropped: floor out of range", "floor", floor)
			continue
		}
		s.cabin.set(floor)
		s.logger.Info("Call registered", "floor", floor, "origin", OriginCabin)
	}
}

// NextService absorbs pending input and returns the next target floor and
// the direction to report for it. It returns (NoFloor, DirNone) when
// nothing is pending.
//
// When reversing at a far hall call the current direction is still
// reported; the cabin corrects it once it gets there.
func (s *CallScheduler) NextService(currentFloor int, currentDirection Direction) (int, Direction) {
	s.Absorb()

	switch currentDirection {
	case DirUp:
		for f := currentFloor + 1; f <= MaxFloor; f++ {
			if s.cabin.has(f) || s.hallUp.has(f) {
				return f, DirUp
			}
		}
		// Reversal candidate: highest pending down call above.
		for f := MaxFloor; f > currentFloor; f-- {
			if s.hallDown.has(f) {
				return f, DirUp
			}
		}
	case DirDown:
		for f := currentFloor - 1; f >= MinFloor; f-- {
			if s.cabin.has(f) || s.hallDown.has(f) {
				return f, DirDown
			}
		}
		// Reversal candidate: lowest pending up call below.
		for f := MinFloor; f < currentFloor; f++ {
			if s.hallUp.has(f) {
				return f, DirDown
			}
		}
	}

	return s.nextIdle(currentFloor)
}

// nextIdle scans bottom-up for any pending flag.
func (s *CallScheduler) nextIdle(currentFloor int) (int, Direction) {
	for f := MinFloor; f <= MaxFloor; f++ {
		if s.HasPending(f) {
			return f, directionTowards(currentFloor, f)
		}
	}
	return NoFloor, DirNone
}

// HasPending reports whether any call or request is set at floor.
func (s *CallScheduler) HasPending(floor int) bool {
	return s.cabin.has(floor) || s.hallUp.has(floor) || s.hallDown.has(floor)
}

// Pending reports which flags are set at floor.
func (s *CallScheduler) Pending(floor int) (cabin, hallUp, hallDown bool) {
	return s.cabin.has(floor), s.hallUp.has(floor), s.hallDown.has(floor)
}

// PendingFloors returns the floors with any flag set, ascending.
func (s *CallScheduler) PendingFloors() []int {
	var floors []int
	for f := MinFloor; f <= MaxFloor; f++ {
		if s.HasPending(f) {
			floors = append(floors, f)
		}
	}
	return floors
}

// CallReset clears the hall call at floor and tells the hardware to turn
// the button light off. dir is not validated.
func (s *CallScheduler) CallReset(floor int, dir Direction) {
	switch dir {
	case DirUp:
		s.hallUp.clear(floor)
	case DirDown:
		s.hallDown.clear(floor)
	}
	s.bus.Publish(bus.New(bus.TopicCallReset, floor, int(dir)))
}

// RequestReset clears the cabin request at floor and resets its button light.
func (s *CallScheduler) RequestReset(floor int) {
	s.cabin.clear(floor)
	s.bus.Publish(bus.New(bus.TopicRequestReset, s.id, floor))
}

// ClearFloor resets every flag set at floor, emitting one reset per flag.
func (s *CallScheduler) ClearFloor(floor int) {
	cabin, up, down := s.Pending(floor)
	if cabin {
		s.RequestReset(floor)
	}
	if up {
		s.CallReset(floor, DirUp)
	}
	if down {
		s.CallReset(floor, DirDown)
	}
}

// --- Button panel toggles (no local state) ---

// EnableCalls turns hall call buttons on.
func (s *CallScheduler) EnableCalls() {
	s.bus.Publish(bus.New(bus.TopicCallsEnabled, 0, 1))
}

// DisableCalls turns hall call buttons off.
func (s *CallScheduler) DisableCalls() {
	s.bus.Publish(bus.New(bus.TopicCallsEnabled, 0, 0))
}

// EnableAllRequests enables cabin buttons in multiple-selection mode.
func (s *CallScheduler) EnableAllRequests() {
	s.bus.Publish(bus.New(bus.TopicSelectsEnabled, 0, 1))
	s.bus.Publish(bus.New(bus.TopicSelectionType, 0, 1))
}

// EnableSingleRequest enables cabin buttons in single-selection mode.
func (s *CallScheduler) EnableSingleRequest() {
	s.bus.Publish(bus.New(bus.TopicSelectsEnabled, 0, 1))
	s.bus.Publish(bus.New(bus.TopicSelectionType, 0, 0))
}
