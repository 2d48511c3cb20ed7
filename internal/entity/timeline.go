package entity

import "time"

// MaxTimelineEntries bounds the audit trail kept on a lead; older entries are evicted first.
const MaxTimelineEntries = 100

type TimelineEventType string

const (
	EventCreated          TimelineEventType = "created"
	EventStatusChanged    TimelineEventType = "status_changed"
	EventDemoRequested    TimelineEventType = "demo_requested"
	EventDemoScheduled    TimelineEventType = "demo_scheduled"
	EventDemoCompleted    TimelineEventType = "demo_completed"
	EventDemoNoShow       TimelineEventType = "demo_no_show"
	EventQuoteRequested   TimelineEventType = "quote_requested"
	EventQuoteSent        TimelineEventType = "quote_sent"
	EventQuoteAccepted    TimelineEventType = "quote_accepted"
	EventQuoteLost        TimelineEventType = "quote_lost"
	EventNoteAdded        TimelineEventType = "note_added"
	EventEngagementLogged TimelineEventType = "engagement_logged"
	EventConverted        TimelineEventType = "converted"
)

// TimelineEntry is immutable once appended.
type TimelineEntry struct {
	EventType   TimelineEventType `json:"eventType" bson:"eventType"`
	Description string            `json:"description" bson:"description"`
	Metadata    map[string]any    `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedBy   string            `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
}

// Record appends an audit entry, keeping only the most recent MaxTimelineEntries.
func (l *Lead) Record(eventType TimelineEventType, description string, metadata map[string]any, actorID string, now time.Time) TimelineEntry {
	entry := TimelineEntry{
		EventType:   eventType,
		Description: description,
		Metadata:    metadata,
		CreatedBy:   actorID,
		CreatedAt:   now,
	}
	l.Timeline = append(l.Timeline, entry)
	if overflow := len(l.Timeline) - MaxTimelineEntries; overflow > 0 {
		kept := make([]TimelineEntry, MaxTimelineEntries)
		copy(kept, l.Timeline[overflow:])
		l.Timeline = kept
	}
	return entry
}

// DemoEvent maps a demo status to its timeline event. Resetting to none has
// no dedicated event and is recorded as a status change.
func DemoEvent(s DemoStatus) TimelineEventType {
	switch s {
	case DemoRequested:
		return EventDemoRequested
	case DemoScheduled:
		return EventDemoScheduled
	case DemoCompleted:
		return EventDemoCompleted
	case DemoNoShow:
		return EventDemoNoShow
	}
	return EventStatusChanged
}

func QuoteEvent(s QuoteStatus) TimelineEventType {
	switch s {
	case QuoteRequested:
		return EventQuoteRequested
	case QuoteSent:
		return EventQuoteSent
	case QuoteAccepted:
		return EventQuoteAccepted
	case QuoteLost:
		return EventQuoteLost
	}
	return EventStatusChanged
}
