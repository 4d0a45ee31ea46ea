package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the classroom domain and that other components may react to
// (e.g. the rubric cache invalidates itself on EventRubricReplaced).
const (
	// Rubric events
	EventRubricReplaced EventType = "rubric.replaced"

	// Ledger events
	EventGradeRecorded        EventType = "ledger.grade_recorded"
	EventAttendanceMarked     EventType = "ledger.attendance_marked"
	EventAttendanceBulkMarked EventType = "ledger.attendance_bulk_marked"

	// Roster events
	EventStudentEnrolled EventType = "roster.student_enrolled"
	EventStudentRemoved  EventType = "roster.student_removed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Rubric Events
// ═══════════════════════════════════════════════════════════════════════════

// RubricReplacedEvent is emitted after a group's category set has been
// atomically replaced. Cached rubric data must be dropped on this event;
// per-student averages are recomputed lazily on the next read.
type RubricReplacedEvent struct {
	BaseEvent
	GroupID       string `json:"group_id"`
	CategoryCount int    `json:"category_count"`
}

// Payload implements Event interface.
func (e RubricReplacedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"group_id":       e.GroupID,
		"category_count": e.CategoryCount,
	}
}

// NewRubricReplacedEvent creates a new RubricReplacedEvent.
func NewRubricReplacedEvent(groupID string, categoryCount int) RubricReplacedEvent {
	return RubricReplacedEvent{
		BaseEvent:     NewBaseEvent(EventRubricReplaced, groupID),
		GroupID:       groupID,
		CategoryCount: categoryCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Ledger Events
// ═══════════════════════════════════════════════════════════════════════════

// GradeRecordedEvent is emitted when a grade entry is upserted.
type GradeRecordedEvent struct {
	BaseEvent
	GroupID      string  `json:"group_id"`
	StudentID    string  `json:"student_id"`
	CategoryName string  `json:"category_name"`
	Value        float64 `json:"value"`
}

// Payload implements Event interface.
func (e GradeRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"group_id":      e.GroupID,
		"student_id":    e.StudentID,
		"category_name": e.CategoryName,
		"value":         e.Value,
	}
}

// NewGradeRecordedEvent creates a new GradeRecordedEvent.
func NewGradeRecordedEvent(groupID, studentID, categoryName string, value float64) GradeRecordedEvent {
	return GradeRecordedEvent{
		BaseEvent:    NewBaseEvent(EventGradeRecorded, studentID),
		GroupID:      groupID,
		StudentID:    studentID,
		CategoryName: categoryName,
		Value:        value,
	}
}

// AttendanceMarkedEvent is emitted when attendance is upserted for one student.
type AttendanceMarkedEvent struct {
	BaseEvent
	GroupID   string `json:"group_id"`
	StudentID string `json:"student_id"`
	Date      string `json:"date"` // ISO date (YYYY-MM-DD)
	Status    string `json:"status"`
}

// Payload implements Event interface.
func (e AttendanceMarkedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"group_id":   e.GroupID,
		"student_id": e.StudentID,
		"date":       e.Date,
		"status":     e.Status,
	}
}

// NewAttendanceMarkedEvent creates a new AttendanceMarkedEvent.
func NewAttendanceMarkedEvent(groupID, studentID, date, status string) AttendanceMarkedEvent {
	return AttendanceMarkedEvent{
		BaseEvent: NewBaseEvent(EventAttendanceMarked, studentID),
		GroupID:   groupID,
		StudentID: studentID,
		Date:      date,
		Status:    status,
	}
}

// AttendanceBulkMarkedEvent is emitted after a whole roster has been marked
// for one date.
type AttendanceBulkMarkedEvent struct {
	BaseEvent
	GroupID string `json:"group_id"`
	Date    string `json:"date"`
	Status  string `json:"status"`
	Updated int    `json:"updated"`
}

// Payload implements Event interface.
func (e AttendanceBulkMarkedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"group_id": e.GroupID,
		"date":     e.Date,
		"status":   e.Status,
		"updated":  e.Updated,
	}
}

// NewAttendanceBulkMarkedEvent creates a new AttendanceBulkMarkedEvent.
func NewAttendanceBulkMarkedEvent(groupID, date, status string, updated int) AttendanceBulkMarkedEvent {
	return AttendanceBulkMarkedEvent{
		BaseEvent: NewBaseEvent(EventAttendanceBulkMarked, groupID),
		GroupID:   groupID,
		Date:      date,
		Status:    status,
		Updated:   updated,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Roster Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentRemovedEvent is emitted when a student is removed from a group.
// Removal is the only path that deletes ledger rows.
type StudentRemovedEvent struct {
	BaseEvent
	GroupID   string `json:"group_id"`
	StudentID string `json:"student_id"`
}

// Payload implements Event interface.
func (e StudentRemovedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"group_id":   e.GroupID,
		"student_id": e.StudentID,
	}
}

// NewStudentRemovedEvent creates a new StudentRemovedEvent.
func NewStudentRemovedEvent(groupID, studentID string) StudentRemovedEvent {
	return StudentRemovedEvent{
		BaseEvent: NewBaseEvent(EventStudentRemoved, studentID),
		GroupID:   groupID,
		StudentID: studentID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
