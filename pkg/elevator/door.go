package elevator

import (
	"log/slog"

	"go-elevator-controller/pkg/bus"
)

// Door actuator command bodies.
const (
	doorOpen  = 0
	doorClose = 1
)

// DoorInterlock caches the door sensors and issues door commands.
// Every accessor first drains the sensor topics, keeping the last value
// seen per channel.
// DoorInterlock은 문 센서 상태를 캐시하고 문 개폐 명령을 보냅니다.
type DoorInterlock struct {
	bus    bus.Bus
	id     int
	state  DoorState
	logger *slog.Logger
}

// NewDoorInterlock starts closed, clear and not overloaded until the
// first sensor reading arrives.
func NewDoorInterlock(b bus.Bus, id int) *DoorInterlock {
	b.Subscribe(bus.TopicObstruction, id)
	b.Subscribe(bus.TopicDoorPosition, id)
	b.Subscribe(bus.TopicLoad, id)

	return &DoorInterlock{
		bus:    b,
		id:     id,
		state:  DoorState{FullyClosed: true},
		logger: slog.Default().With("id", id, "component", "door"),
	}
}

func (d *DoorInterlock) refresh() {
	for {
		msg, ok := d.bus.Get(bus.TopicObstruction, d.id)
		if !ok {
			break
		}
		switch msg.Body {
		case 0:
			d.state.Obstructed = true
		case 1:
			d.state.Obstructed = false
		default:
			d.logger.Debug("Ignoring obstruction reading", "body", msg.Body)
		}
	}

	for {
		msg, ok := d.bus.Get(bus.TopicDoorPosition, d.id)
		if !ok {
			break
		}
		switch msg.Body {
		case 0:
			d.state.FullyOpen, d.state.FullyClosed = true, false
		case 1:
			d.state.FullyOpen, d.state.FullyClosed = false, true
		default:
			d.logger.Debug("Ignoring door position reading", "body", msg.Body)
		}
	}

	for {
		msg, ok := d.bus.Get(bus.TopicLoad, d.id)
		if !ok {
			break
		}
		switch msg.Body {
		case 0:
			d.state.Overloaded = false
		case 1:
			d.state.Overloaded = true
		default:
			d.logger.Debug("Ignoring load reading", "body", msg.Body)
		}
	}
}

// Open commands the door motor to open.
func (d *DoorInterlock) Open() {
	d.bus.Publish(bus.New(bus.TopicDoorCommand, d.id, doorOpen))
}

// Close commands the door motor to close.
func (d *DoorInterlock) Close() {
	d.bus.Publish(bus.New(bus.TopicDoorCommand, d.id, doorClose))
}

// Obstructed reports whether the obstruction sensor is active.
func (d *DoorInterlock) Obstructed() bool {
	d.refresh()
	return d.state.Obstructed
}

// FullyOpen reports whether the doors last reported fully open.
func (d *DoorInterlock) FullyOpen() bool {
	d.refresh()
	return d.state.FullyOpen
}

// FullyClosed reports whether the doors last reported fully closed.
func (d *DoorInterlock) FullyClosed() bool {
	d.refresh()
	return d.state.FullyClosed
}

// Overloaded reports whether the load sensor reports overload.
func (d *DoorInterlock) Overloaded() bool {
	d.refresh()
	return d.state.Overloaded
}

// State refreshes once and returns every cached flag.
func (d *DoorInterlock) State() DoorState {
	d.refresh()
	return d.state
}
