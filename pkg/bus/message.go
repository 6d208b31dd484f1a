// Package bus defines the topic/subtopic/body message channel shared by every
// elevator component, and an in-process implementation of it.
// 이 패키지는 모든 엘리베이터 컴포넌트가 공유하는 메시지 채널을 정의합니다.
package bus

import "fmt"

// Topic identifies the semantic category of a message.
// Topic은 메시지의 의미 범주를 나타냅니다.
type Topic int

// Protocol topic catalog. The numbers are part of the wire protocol.
const (
	TopicClearFire        Topic = 4   // broadcast, body unused
	TopicSupervisorMode   Topic = 5   // 1=Controlled, 2=Normal
	TopicDoorCommand      Topic = 100 // 0=open, 1=close
	TopicCarDispatch      Topic = 102 // 0=up, 1=down
	TopicCarStop          Topic = 103 // 0=stop
	TopicRequestReset     Topic = 109 // body=floor
	TopicCallReset        Topic = 110 // subtopic=floor, body=direction
	TopicDisplayFloor     Topic = 111 // body=floor
	TopicDisplayDirection Topic = 112 // 0=up, 1=down, 2=none
	TopicCallsEnabled     Topic = 113 // 0/1
	TopicSelectsEnabled   Topic = 114 // 0/1
	TopicSelectionType    Topic = 115 // 0=single, 1=multiple
	TopicPlaySound        Topic = 116 // 0=arrival chime, 1=overload warning
	TopicFireAlarm        Topic = 120 // broadcast, 0=active
	TopicHallCall         Topic = 200 // subtopic=floor, 0=up, 1=down
	TopicCabinRequest     Topic = 201 // subtopic=elevator id, body=floor
	TopicCarPosition      Topic = 202 // body=floor
	TopicObstruction      Topic = 203 // 0=obstructed, 1=clear
	TopicDoorPosition     Topic = 204 // 0=open, 1=closed
	TopicLoad             Topic = 205 // 0=normal, 1=overloaded
	TopicDirectionStatus  Topic = 207 // 0=up, 1=down, 2=none
	TopicMovementState    Topic = 208 // 0=idle, 1=moving
)

// AnySubtopic matches every subtopic on Subscribe and Get.
const AnySubtopic = 0

// Message is the sole cross-component communication unit.
// Message는 컴포넌트 간 통신의 유일한 단위입니다.
type Message struct {
	Topic    Topic `json:"topic"`
	Subtopic int   `json:"subtopic"`
	Body     int   `json:"body"`
}

// New builds a message.
func New(topic Topic, subtopic, body int) Message {
	return Message{Topic: topic, Subtopic: subtopic, Body: body}
}

func (m Message) String() string {
	return fmt.Sprintf("%d/%d:%d", m.Topic, m.Subtopic, m.Body)
}

// matches reports whether m is addressed by (topic, subtopic), treating
// subtopic 0 as a wildcard.
func (m Message) matches(topic Topic, subtopic int) bool {
	return m.Topic == topic && (subtopic == AnySubtopic || m.Subtopic == subtopic)
}
