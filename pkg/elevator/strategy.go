package elevator

// Strategy is the per-tick behavior of one operating mode.
// Strategy는 운행 모드별 틱 동작을 정의합니다.
type Strategy interface {
	Mode() Mode
	Step()
}

// components groups what every strategy drives.
type components struct {
	scheduler *CallScheduler
	cabin     *Cabin
	doors     *DoorInterlock
	notifier  *Notifier
}

// holdForOverload keeps the doors open and sounds the warning while the car
// is overloaded. It reports whether the rest of the tick must be skipped.
func (c components) holdForOverload() bool {
	if c.doors.Overloaded() {
		c.doors.Open()
		c.notifier.PlayCapacityWarning()
		return true
	}
	c.notifier.StopCapacityWarning()
	return false
}

// restrictPanel limits passengers to single cabin selections with hall
// calls off, for every non-Normal mode.
func (c components) restrictPanel() {
	if c.scheduler == nil {
		return
	}
	c.scheduler.DisableCalls()
	c.scheduler.EnableSingleRequest()
}
