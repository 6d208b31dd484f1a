// Package elevator implements the decision core of a single-cabin elevator
// controller: mode arbitration, LOOK scheduling, door interlock and the
// per-mode strategies, plus a concurrently running cabin motion simulator.
// 이 패키지는 단일 카 엘리베이터 제어기의 의사결정 코어를 구현합니다.
// 제어 루프는 단일 고루틴에서 실행되며, 카 이동 시뮬레이터만 별도 고루틴을 가집니다.
package elevator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"

	"go-elevator-controller/pkg/bus"
)

// Status is a snapshot of the controller taken at the end of a tick.
// Status는 틱 종료 시점의 제어기 상태 스냅샷입니다.
type Status struct {
	ID            int        `json:"id"`
	Mode          Mode       `json:"mode"`
	Cabin         CabinState `json:"cabin"`
	Doors         DoorState  `json:"doors"`
	PendingFloors []int      `json:"pendingFloors"`
	Ticks         uint64     `json:"ticks"`
}

// Controller owns every component of one elevator and runs the control
// loop. Tick must only be called from one goroutine at a time; Status is
// safe from any goroutine.
type Controller struct {
	Config Config

	bus       bus.Bus
	arbiter   *ModeArbiter
	scheduler *CallScheduler
	doors     *DoorInterlock
	notifier  *Notifier
	cabin     *Cabin

	strategy Strategy
	ticks    uint64

	mu     sync.RWMutex
	status Status

	logger *slog.Logger
}

// New validates cfg and builds the components. The cabin motion loop starts
// immediately; call Close to stop it.
// 잘못된 설정이 감지되면 즉시 에러를 반환합니다 (Fail Fast).
func New(b bus.Bus, cfg Config) (*Controller, error) {
	if b == nil {
		return nil, fmt.Errorf("invalid controller: nil bus")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		Config:    cfg,
		bus:       b,
		arbiter:   NewModeArbiter(b, cfg.ID),
		scheduler: NewCallScheduler(b, cfg.ID),
		doors:     NewDoorInterlock(b, cfg.ID),
		notifier:  NewNotifier(b, cfg.ID),
		cabin:     NewCabin(b, cfg),
		logger:    slog.Default().With("id", cfg.ID),
	}

	c.logger.Info("Elevator initialized",
		"min", MinFloor,
		"max", MaxFloor,
		"recall_floor", cfg.RecallFloor,
		"travel", cfg.TravelTime,
	)
	return c, nil
}

// Tick runs one control cycle and returns the mode it ran under.
func (c *Controller) Tick() Mode {
	mode := c.arbiter.Resolve()
	if c.strategy == nil || c.strategy.Mode() != mode {
		c.strategy = c.newStrategy(mode)
	}
	c.strategy.Step()
	c.ticks++
	c.record(mode)
	return mode
}

// newStrategy builds the strategy for mode. Each entry into a mode gets a
// fresh strategy so its panel toggles are sent again.
func (c *Controller) newStrategy(mode Mode) Strategy {
	c.logger.Info("Strategy selected", "mode", mode)
	switch mode {
	case ModeFireSafety:
		return NewFireStrategy(c.Config.ID, c.Config.RecallFloor, c.scheduler, c.cabin, c.doors, c.notifier)
	case ModeControlled:
		return NewControlledStrategy(c.bus, c.Config.ID, c.scheduler, c.cabin, c.doors, c.notifier)
	default:
		return NewNormalStrategy(c.Config.ID, c.Config.DoorHoldTicks, c.scheduler, c.cabin, c.doors, c.notifier)
	}
}

func (c *Controller) record(mode Mode) {
	s := Status{
		ID:            c.Config.ID,
		Mode:          mode,
		Cabin:         c.cabin.State(),
		Doors:         c.doors.State(),
		PendingFloors: c.scheduler.PendingFloors(),
		Ticks:         c.ticks,
	}
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Status returns the snapshot recorded by the last Tick.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var s Status
	if err := deepcopy.Copy(&s, c.status); err != nil {
		c.logger.Error("Status snapshot failed", "error", err)
		return Status{ID: c.Config.ID}
	}
	return s
}

// Cabin exposes the motion simulator for read-only inspection.
func (c *Controller) Cabin() *Cabin {
	return c.cabin
}

// Run ticks the controller every TickInterval until ctx is done.
// Run은 컨텍스트가 취소될 때까지 제어 루프를 실행합니다.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("Controller Started", "tick", c.Config.TickInterval)

	ticker := time.NewTicker(c.Config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Controller Stopping (Context Cancelled)")
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Close stops the cabin motion loop.
func (c *Controller) Close() {
	c.cabin.Stop()
}
