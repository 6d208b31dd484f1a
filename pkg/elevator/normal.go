package elevator

import "log/slog"

// NormalStrategy serves hall calls and cabin requests with the LOOK
// scheduler, dwelling with the doors open at every served floor.
// NormalStrategy는 LOOK 스케줄러로 일반 호출을 처리합니다.
type NormalStrategy struct {
	components
	holdTicks int
	logger    *slog.Logger

	heading   Direction // 마지막으로 보고된 운행 방향
	dwellLeft int       // 문 열림 유지 남은 틱
}

// NewNormalStrategy enables hall calls and multiple cabin selection.
func NewNormalStrategy(id, holdTicks int, scheduler *CallScheduler, cabin *Cabin, doors *DoorInterlock, notifier *Notifier) *NormalStrategy {
	s := &NormalStrategy{
		components: components{scheduler: scheduler, cabin: cabin, doors: doors, notifier: notifier},
		holdTicks:  holdTicks,
		heading:    DirNone,
		logger:     slog.Default().With("id", id, "component", "normal"),
	}
	scheduler.EnableCalls()
	scheduler.EnableAllRequests()
	return s
}

// Mode returns ModeNormal.
func (s *NormalStrategy) Mode() Mode { return ModeNormal }

// Step serves the current floor, runs the door dwell, then picks the next
// target once the doors are closed.
func (s *NormalStrategy) Step() {
	if s.holdForOverload() {
		return
	}

	// [Guard Clause] 이동 중이면 도착을 대기
	if !s.cabin.Arrived() {
		return
	}
	floor, _ := s.cabin.CurrentStatus()

	s.scheduler.Absorb()
	if s.scheduler.HasPending(floor) {
		s.serve(floor)
		return
	}

	if s.dwellLeft > 0 {
		s.dwellLeft--
		if s.doors.Obstructed() {
			s.doors.Open()
		}
		return
	}

	// [Safety Guard] 문이 완전히 닫히지 않았으면 이동 불가
	if !s.doors.FullyClosed() {
		if s.doors.Obstructed() {
			s.doors.Open()
			return
		}
		s.doors.Close()
		return
	}

	target, dir := s.scheduler.NextService(floor, s.heading)
	if target == NoFloor {
		if s.heading != DirNone {
			s.logger.Debug("Idle State (No calls)", "floor", floor)
			s.heading = DirNone
		}
		return
	}

	if dir != s.heading {
		s.logger.Info("Direction Changed", "new_dir", dir, "target", target)
	}
	s.heading = dir
	s.cabin.GoToFloor(target)
	s.notifier.ElevatorStatus(floor, dir)
}

// serve clears the calls at floor and opens the doors for the dwell.
func (s *NormalStrategy) serve(floor int) {
	s.logger.Info("Serving floor", "floor", floor)
	s.scheduler.ClearFloor(floor)
	s.doors.Open()
	s.notifier.ArrivedAtFloor(floor, s.heading)
	s.dwellLeft = s.holdTicks
}
