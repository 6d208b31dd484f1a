package bus

import (
	"log/slog"
	"sync"

	"github.com/tiendc/go-deepcopy"
)

// Bus is the publish/subscribe/poll contract every component depends on.
// Reads never block: Get reports ok=false when nothing is queued.
// Bus는 모든 컴포넌트가 의존하는 발행/구독/폴링 계약입니다.
type Bus interface {
	Publish(msg Message)
	Subscribe(topic Topic, subtopic int)
	Get(topic Topic, subtopic int) (Message, bool)
}

const (
	defaultHistoryLimit = 1024
	defaultOutboundSize = 1000
)

type subscription struct {
	topic    Topic
	subtopic int
}

// MemoryBus is an in-process Bus. Published messages go to an outbound
// history and channel; incoming messages enter through Deliver.
// MemoryBus는 프로세스 내부 Bus 구현이며, 동시 사용에 안전합니다.
type MemoryBus struct {
	mu sync.Mutex

	subs     map[subscription]struct{}
	incoming []Message

	history      []Message
	historyLimit int

	outCh        chan Message
	droppedCount uint64

	logger *slog.Logger
}

// NewMemoryBus creates an empty bus with default history and outbound sizes.
func NewMemoryBus() *MemoryBus {
	return NewMemoryBusSize(defaultHistoryLimit, defaultOutboundSize)
}

// NewMemoryBusSize creates a bus that keeps at most historyLimit published
// messages and buffers outboundSize messages on the Outbound channel.
func NewMemoryBusSize(historyLimit, outboundSize int) *MemoryBus {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	if outboundSize < 0 {
		outboundSize = 0
	}
	return &MemoryBus{
		subs:         make(map[subscription]struct{}),
		historyLimit: historyLimit,
		outCh:        make(chan Message, outboundSize),
		logger:       slog.Default().With("component", "bus"),
	}
}

// Publish records msg and offers it to the outbound channel without blocking.
// 채널이 가득 차면 메시지를 버리고 카운터를 증가시킵니다.
func (b *MemoryBus) Publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.history = append(b.history, msg)
	if over := len(b.history) - b.historyLimit; over > 0 {
		b.history = b.history[over:]
	}

	select {
	case b.outCh <- msg:
	default:
		b.droppedCount++
		if b.droppedCount%100 == 1 {
			b.logger.Error("Outbound Channel Saturated", "dropped", b.droppedCount, "msg", msg)
		}
	}
}

// Subscribe registers interest in (topic, subtopic). Idempotent.
func (b *MemoryBus) Subscribe(topic Topic, subtopic int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[subscription{topic: topic, subtopic: subtopic}] = struct{}{}
}

// Get removes and returns the oldest queued message matching topic and
// subtopic (0 matches any subtopic).
func (b *MemoryBus) Get(topic Topic, subtopic int) (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.incoming {
		if m.matches(topic, subtopic) {
			b.incoming = append(b.incoming[:i], b.incoming[i+1:]...)
			return m, true
		}
	}
	return Message{}, false
}

// Deliver queues an incoming message for the local subscribers. Messages no
// subscription matches are dropped and Deliver reports false.
// Deliver는 외부(하드웨어, 관제실)에서 들어오는 메시지를 큐에 넣습니다.
func (b *MemoryBus) Deliver(msg Message) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.subscribed(msg) {
		b.logger.Debug("Dropping unsubscribed message", "msg", msg)
		return false
	}
	b.incoming = append(b.incoming, msg)
	return true
}

func (b *MemoryBus) subscribed(msg Message) bool {
	if _, ok := b.subs[subscription{topic: msg.Topic, subtopic: AnySubtopic}]; ok {
		return true
	}
	_, ok := b.subs[subscription{topic: msg.Topic, subtopic: msg.Subtopic}]
	return ok
}

// Pending returns the number of queued incoming messages.
func (b *MemoryBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.incoming)
}

// Published returns a copy of the retained outbound history, oldest first.
func (b *MemoryBus) Published() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Message
	if err := deepcopy.Copy(&out, b.history); err != nil {
		b.logger.Error("History snapshot failed", "error", err)
		return nil
	}
	return out
}

// PublishedOn returns the retained outbound messages on topic, oldest first.
func (b *MemoryBus) PublishedOn(topic Topic) []Message {
	var out []Message
	for _, m := range b.Published() {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// ResetPublished clears the outbound history. Queued incoming messages and
// subscriptions are kept.
func (b *MemoryBus) ResetPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = nil
}

// Outbound returns the read-only channel of published messages.
func (b *MemoryBus) Outbound() <-chan Message {
	return b.outCh
}

// DroppedCount returns how many published messages did not fit the outbound channel.
func (b *MemoryBus) DroppedCount() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.droppedCount
}
