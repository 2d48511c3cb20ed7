package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAppendsEntry(t *testing.T) {
	l := newTestLead()
	now := time.Now()

	entry := l.Record(EventNoteAdded, "Note added", map[string]any{"noteId": "n1"}, "admin-1", now)

	require.Len(t, l.Timeline, 1)
	assert.Equal(t, entry, l.Timeline[0])
	assert.Equal(t, "admin-1", entry.CreatedBy)
	assert.Equal(t, now, entry.CreatedAt)
}

// TestRecordEvictsOldestEntries - after 101 appends the first one is gone
func TestRecordEvictsOldestEntries(t *testing.T) {
	l := newTestLead()
	base := time.Now()

	for i := 1; i <= MaxTimelineEntries+1; i++ {
		l.Record(EventNoteAdded, fmt.Sprintf("entry %d", i), nil, "admin", base.Add(time.Duration(i)*time.Second))
	}

	require.Len(t, l.Timeline, MaxTimelineEntries)
	assert.Equal(t, "entry 2", l.Timeline[0].Description)
	assert.Equal(t, "entry 101", l.Timeline[MaxTimelineEntries-1].Description)
	for _, e := range l.Timeline {
		assert.NotEqual(t, "entry 1", e.Description)
	}
}

func TestDemoAndQuoteEventMapping(t *testing.T) {
	assert.Equal(t, EventDemoScheduled, DemoEvent(DemoScheduled))
	assert.Equal(t, EventDemoNoShow, DemoEvent(DemoNoShow))
	assert.Equal(t, EventStatusChanged, DemoEvent(DemoNone))
	assert.Equal(t, EventQuoteAccepted, QuoteEvent(QuoteAccepted))
	assert.Equal(t, EventQuoteLost, QuoteEvent(QuoteLost))
	assert.Equal(t, EventStatusChanged, QuoteEvent(QuoteNone))
}
