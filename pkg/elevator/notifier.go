package elevator

import (
	"log/slog"

	"go-elevator-controller/pkg/bus"
)

// Sound codes on TopicPlaySound.
const (
	soundArrival  = 0
	soundOverload = 1
)

// Notifier publishes floor/direction displays and sounds. It keeps no state.
type Notifier struct {
	bus    bus.Bus
	id     int
	logger *slog.Logger
}

// NewNotifier returns a notifier publishing for elevator id.
func NewNotifier(b bus.Bus, id int) *Notifier {
	return &Notifier{
		bus:    b,
		id:     id,
		logger: slog.Default().With("id", id, "component", "notifier"),
	}
}

// ArrivedAtFloor updates the displays and plays the arrival chime.
func (n *Notifier) ArrivedAtFloor(floor int, dir Direction) {
	n.ElevatorStatus(floor, dir)
	n.bus.Publish(bus.New(bus.TopicPlaySound, n.id, soundArrival))
}

// ElevatorStatus updates the floor and direction displays.
func (n *Notifier) ElevatorStatus(floor int, dir Direction) {
	n.bus.Publish(bus.New(bus.TopicDisplayFloor, n.id, floor))
	n.bus.Publish(bus.New(bus.TopicDisplayDirection, n.id, int(dir)))
}

// PlayCapacityWarning plays the overload warning sound.
func (n *Notifier) PlayCapacityWarning() {
	n.bus.Publish(bus.New(bus.TopicPlaySound, n.id, soundOverload))
}

// StopCapacityWarning has no protocol code to send; the warning simply
// stops being replayed.
func (n *Notifier) StopCapacityWarning() {
	n.logger.Debug("Capacity warning off")
}
