package elevator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go-elevator-controller/pkg/bus"
)

// Cabin simulates the car moving between floors on its own goroutine.
// All fields below mu are shared with the control loop; the target is only
// written under mu, and the motion loop reads and advances under mu.
// Cabin은 별도의 고루틴에서 층간 이동을 시뮬레이션합니다.
type Cabin struct {
	bus    bus.Bus
	id     int
	travel time.Duration
	idle   time.Duration
	logger *slog.Logger

	mu        sync.RWMutex
	floor     int       // 현재 층
	target    int       // 목표 층
	direction Direction // 운행 방향
	moving    bool      // 모터 동작 여부

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewCabin parks the cabin at MinFloor, publishes its initial position and
// status, then starts the motion loop. Call Stop to end the loop.
func NewCabin(b bus.Bus, cfg Config) *Cabin {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cabin{
		bus:       b,
		id:        cfg.ID,
		travel:    cfg.TravelTime,
		idle:      cfg.IdleInterval,
		logger:    slog.Default().With("id", cfg.ID, "component", "cabin"),
		floor:     MinFloor,
		target:    MinFloor,
		direction: DirNone,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	c.mu.Lock()
	c.publishPosition()
	c.publishStatus()
	c.mu.Unlock()

	go c.run(ctx)
	return c
}

func (c *Cabin) run(ctx context.Context) {
	defer close(c.done)
	c.logger.Info("Cabin Motion Started", "travel", c.travel, "idle", c.idle)

	for {
		wait := c.idle
		c.mu.Lock()
		if c.floor != c.target {
			dir := directionTowards(c.floor, c.target)
			if !c.moving || c.direction != dir {
				c.direction = dir
				c.moving = true
				c.logger.Info("Direction Changed", "dir", dir, "target", c.target)
				c.publishStatus()
			}
			wait = c.travel
		} else if c.moving {
			c.moving = false
			c.direction = DirNone
			c.logger.Info("Arrived at floor", "floor", c.floor)
			c.publishStatus()
		}
		moving := c.moving
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			c.logger.Info("Cabin Motion Stopped", "floor", c.Floor())
			return
		case <-time.After(wait):
		}

		if moving {
			c.advance()
		}
	}
}

// advance moves one floor toward the target as it stands after the sleep.
// A Halt or target change during the sleep never carries the car past it.
func (c *Cabin) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := directionTowards(c.floor, c.target)
	if dir == DirNone {
		// [Guard Clause] 이동 중 정지 명령: 현재 층에 머무름
		return
	}
	if dir != c.direction {
		c.direction = dir
		c.logger.Info("Direction Changed", "dir", dir, "target", c.target)
		c.publishStatus()
	}

	if dir == DirUp {
		c.floor++
	} else {
		c.floor--
	}
	c.logger.Debug("Passing floor", "floor", c.floor, "target", c.target)
	c.publishPosition()
}

// GoToFloor sets a new target. Out-of-range floors are ignored.
func (c *Cabin) GoToFloor(floor int) {
	if !IsValidFloor(floor) {
		c.logger.Debug("GoToFloor ignored: floor out of range", "floor", floor)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = floor
}

// Halt sets the target to the current floor.
func (c *Cabin) Halt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = c.floor
}

// Stop ends the motion loop and waits for it to exit. Safe to call twice.
func (c *Cabin) Stop() {
	c.stopOnce.Do(c.cancel)
	<-c.done
}

// CurrentStatus returns the current floor and direction.
func (c *Cabin) CurrentStatus() (int, Direction) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.floor, c.direction
}

// Floor returns the current floor.
func (c *Cabin) Floor() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.floor
}

// TargetFloor returns the floor the cabin is heading for.
func (c *Cabin) TargetFloor() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.target
}

// Arrived reports whether the cabin is at its target floor.
func (c *Cabin) Arrived() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.floor == c.target
}

// State returns a full snapshot.
func (c *Cabin) State() CabinState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	movement := Idle
	if c.moving {
		movement = Moving
	}
	return CabinState{
		CurrentFloor: c.floor,
		TargetFloor:  c.target,
		Direction:    c.direction,
		Movement:     movement,
	}
}

// publishPosition and publishStatus expect mu to be held.
func (c *Cabin) publishPosition() {
	c.bus.Publish(bus.New(bus.TopicCarPosition, c.id, c.floor))
}

func (c *Cabin) publishStatus() {
	movement := Idle
	if c.moving {
		movement = Moving
	}
	c.bus.Publish(bus.New(bus.TopicDirectionStatus, c.id, int(c.direction)))
	c.bus.Publish(bus.New(bus.TopicMovementState, c.id, int(movement)))
}
