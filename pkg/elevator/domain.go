package elevator

import (
	"fmt"
	"time"
)

// --- Domain Entities & Value Objects ---

// Floor range served by every cabin. Part of the protocol, not configuration.
const (
	MinFloor = 1
	MaxFloor = 10

	// NoFloor is returned by the scheduler when nothing is pending.
	NoFloor = -1
)

// IsValidFloor reports whether f lies in [MinFloor, MaxFloor].
func IsValidFloor(f int) bool {
	return f >= MinFloor && f <= MaxFloor
}

// Direction indicates the vertical movement vector.
// Values match the wire encoding (0=up, 1=down, 2=none).
// Direction은 수직 이동 벡터를 나타냅니다.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirNone
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirNone:
		return "None"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// directionTowards returns the direction from one floor to another.
func directionTowards(from, to int) Direction {
	switch {
	case to > from:
		return DirUp
	case to < from:
		return DirDown
	}
	return DirNone
}

// MovementState tells whether the cabin motor is running.
// Values match the wire encoding (0=idle, 1=moving).
type MovementState int

const (
	Idle MovementState = iota
	Moving
)

func (s MovementState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Moving:
		return "Moving"
	}
	return fmt.Sprintf("MovementState(%d)", int(s))
}

// Mode is the operating mode of the elevator.
// Precedence is FireSafety > Controlled > Normal.
// Mode는 엘리베이터의 운행 모드를 정의합니다.
type Mode int

const (
	ModeNormal     Mode = iota // 일반 운행
	ModeFireSafety             // 화재 시 소방 복귀
	ModeControlled             // 관제실 제어
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeFireSafety:
		return "FireSafety"
	case ModeControlled:
		return "Controlled"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// CallOrigin tells where a call was registered.
type CallOrigin int

const (
	OriginHallUp CallOrigin = iota
	OriginHallDown
	OriginCabin
)

func (o CallOrigin) String() string {
	switch o {
	case OriginHallUp:
		return "HallUp"
	case OriginHallDown:
		return "HallDown"
	case OriginCabin:
		return "Cabin"
	}
	return fmt.Sprintf("CallOrigin(%d)", int(o))
}

// CabinState is a snapshot of the cabin owned by the motion simulator.
type CabinState struct {
	CurrentFloor int
	TargetFloor  int
	Direction    Direction
	Movement     MovementState
}

// DoorState is the cached view of the door sensors.
type DoorState struct {
	Obstructed  bool
	FullyOpen   bool
	FullyClosed bool
	Overloaded  bool
}

// Config holds immutable configuration parameters.
// Config는 시스템 시작 시 설정되며, 런타임 중에 변경되지 않습니다.
type Config struct {
	ID            int           // 엘리베이터 ID (subtopic)
	RecallFloor   int           // 화재 시 복귀 층
	TravelTime    time.Duration // 한 층 이동 시간
	IdleInterval  time.Duration // 정지 상태 폴링 간격
	TickInterval  time.Duration // 제어 루프 주기
	DoorHoldTicks int           // Normal 모드 도착 후 문 열림 유지 틱 수
}

// DefaultConfig returns the stock timings for elevator id.
func DefaultConfig(id int) Config {
	return Config{
		ID:            id,
		RecallFloor:   MinFloor,
		TravelTime:    100 * time.Millisecond,
		IdleInterval:  50 * time.Millisecond,
		TickInterval:  50 * time.Millisecond,
		DoorHoldTicks: 20,
	}
}

// Validate fails fast on a config the controller cannot run with.
func (c Config) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("invalid config: ID (%d) must be positive", c.ID)
	}
	if !IsValidFloor(c.RecallFloor) {
		return fmt.Errorf("invalid config: RecallFloor (%d) outside [%d,%d]", c.RecallFloor, MinFloor, MaxFloor)
	}
	if c.TravelTime <= 0 || c.IdleInterval <= 0 || c.TickInterval <= 0 {
		return fmt.Errorf("invalid config: durations must be positive (travel=%s idle=%s tick=%s)",
			c.TravelTime, c.IdleInterval, c.TickInterval)
	}
	if c.DoorHoldTicks < 0 {
		return fmt.Errorf("invalid config: DoorHoldTicks (%d) must not be negative", c.DoorHoldTicks)
	}
	return nil
}
