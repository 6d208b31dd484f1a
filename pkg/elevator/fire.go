package elevator

import "log/slog"

type firePhase int

const (
	phaseApproaching firePhase = iota // 복귀 층으로 이동 중
	phaseHoldingOpen                  // 복귀 층에서 문 열림 유지
)

func (p firePhase) String() string {
	return [...]string{"Approaching", "HoldingOpen"}[p]
}

// FireStrategy recalls the car to the recall floor and holds it there with
// the doors open. Overload overrides everything else.
// FireStrategy는 카를 복귀 층으로 보내고 문을 연 채로 대기합니다.
type FireStrategy struct {
	components
	recallFloor int
	phase       firePhase
	logger      *slog.Logger
}

// NewFireStrategy starts in the approaching phase and restricts the button panel.
func NewFireStrategy(id, recallFloor int, scheduler *CallScheduler, cabin *Cabin, doors *DoorInterlock, notifier *Notifier) *FireStrategy {
	s := &FireStrategy{
		components:  components{scheduler: scheduler, cabin: cabin, doors: doors, notifier: notifier},
		recallFloor: recallFloor,
		phase:       phaseApproaching,
		logger:      slog.Default().With("id", id, "component", "fire"),
	}
	s.restrictPanel()
	return s
}

// Mode returns ModeFireSafety.
func (s *FireStrategy) Mode() Mode { return ModeFireSafety }

// Step advances the recall one tick.
func (s *FireStrategy) Step() {
	if s.holdForOverload() {
		return
	}

	switch s.phase {
	case phaseApproaching:
		s.approach()
	case phaseHoldingOpen:
		s.hold()
	}
}

func (s *FireStrategy) approach() {
	floor, _ := s.cabin.CurrentStatus()

	if floor == s.recallFloor {
		s.setPhase(phaseHoldingOpen)
		s.doors.Open()
		s.notifier.ArrivedAtFloor(s.recallFloor, DirNone)
		return
	}

	if s.doors.Obstructed() {
		s.doors.Open()
		return
	}

	if !s.doors.FullyClosed() {
		s.doors.Close()
		return
	}

	s.cabin.GoToFloor(s.recallFloor)
}

func (s *FireStrategy) hold() {
	floor, _ := s.cabin.CurrentStatus()

	if floor != s.recallFloor {
		s.logger.Warn("Car left recall floor, recalling again", "floor", floor)
		s.setPhase(phaseApproaching)
		return
	}

	if !s.doors.FullyOpen() {
		s.doors.Open()
	}
	s.notifier.ElevatorStatus(s.recallFloor, DirNone)
}

func (s *FireStrategy) setPhase(p firePhase) {
	if s.phase != p {
		s.logger.Info("Recall phase changed", "from", s.phase, "to", p)
		s.phase = p
	}
}
