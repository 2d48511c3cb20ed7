package entity

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Segment string

const (
	SegmentB2B   Segment = "B2B"
	SegmentB2E   Segment = "B2E"
	SegmentOther Segment = "other"
)

func (s Segment) Valid() bool {
	switch s {
	case SegmentB2B, SegmentB2E, SegmentOther:
		return true
	}
	return false
}

type LeadSource string

const (
	SourceB2BForm     LeadSource = "b2b_form"
	SourceB2EForm     LeadSource = "b2e_form"
	SourceContactForm LeadSource = "contact_form"
	SourceManual      LeadSource = "manual"
)

func (s LeadSource) Valid() bool {
	switch s {
	case SourceB2BForm, SourceB2EForm, SourceContactForm, SourceManual:
		return true
	}
	return false
}

// Segment infers the segment a form submission belongs to.
func (s LeadSource) Segment() Segment {
	switch s {
	case SourceB2BForm:
		return SegmentB2B
	case SourceB2EForm:
		return SegmentB2E
	}
	return SegmentOther
}

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusWarm      LeadStatus = "warm"
	LeadStatusHot       LeadStatus = "hot"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusWarm, LeadStatusHot, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// Terminal reports whether automatic recomputation must leave the status alone.
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost
}

type DemoStatus string

const (
	DemoNone      DemoStatus = "none"
	DemoRequested DemoStatus = "requested"
	DemoScheduled DemoStatus = "scheduled"
	DemoCompleted DemoStatus = "completed"
	DemoNoShow    DemoStatus = "no_show"
)

func (s DemoStatus) Valid() bool {
	switch s {
	case DemoNone, DemoRequested, DemoScheduled, DemoCompleted, DemoNoShow:
		return true
	}
	return false
}

type QuoteStatus string

const (
	QuoteNone      QuoteStatus = "none"
	QuoteRequested QuoteStatus = "requested"
	QuoteSent      QuoteStatus = "sent"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteLost      QuoteStatus = "lost"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteNone, QuoteRequested, QuoteSent, QuoteAccepted, QuoteLost:
		return true
	}
	return false
}

type EngagementType string

const (
	EngagementCall    EngagementType = "call"
	EngagementEmail   EngagementType = "email"
	EngagementMeeting EngagementType = "meeting"
	EngagementOther   EngagementType = "other"
)

func (t EngagementType) Valid() bool {
	switch t {
	case EngagementCall, EngagementEmail, EngagementMeeting, EngagementOther:
		return true
	}
	return false
}

type Note struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	CreatedBy string    `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Engagement struct {
	ID        string         `json:"id" bson:"id"`
	Type      EngagementType `json:"type" bson:"type"`
	Summary   string         `json:"summary" bson:"summary"`
	CreatedBy string         `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

// Lead is a prospective customer. Notes, engagements and the timeline are owned
// by the lead and persisted inside the same document.
type Lead struct {
	ID               string     `json:"id" bson:"_id"`
	Email            string     `json:"email" bson:"email"`
	Name             string     `json:"name" bson:"name"`
	OrganizationName string     `json:"organizationName,omitempty" bson:"organizationName,omitempty"`
	Phone            string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Message          string     `json:"message,omitempty" bson:"message,omitempty"`
	Segment          Segment    `json:"segment" bson:"segment"`
	Source           LeadSource `json:"source" bson:"source"`
	Status           LeadStatus `json:"status" bson:"status"`
	LostReason       string     `json:"lostReason,omitempty" bson:"lostReason,omitempty"`

	DemoRequested   bool       `json:"demoRequested" bson:"demoRequested"`
	DemoCompleted   bool       `json:"demoCompleted" bson:"demoCompleted"`
	DemoStatus      DemoStatus `json:"demoStatus" bson:"demoStatus"`
	DemoScheduledAt *time.Time `json:"demoScheduledAt,omitempty" bson:"demoScheduledAt,omitempty"`
	DemoCompletedAt *time.Time `json:"demoCompletedAt,omitempty" bson:"demoCompletedAt,omitempty"`
	DemoApproved    *bool      `json:"demoApproved,omitempty" bson:"demoApproved,omitempty"`

	QuoteRequested   bool        `json:"quoteRequested" bson:"quoteRequested"`
	QuoteStatus      QuoteStatus `json:"quoteStatus" bson:"quoteStatus"`
	QuoteRequestedAt *time.Time  `json:"quoteRequestedAt,omitempty" bson:"quoteRequestedAt,omitempty"`
	QuoteSentAt      *time.Time  `json:"quoteSentAt,omitempty" bson:"quoteSentAt,omitempty"`
	QuoteAcceptedAt  *time.Time  `json:"quoteAcceptedAt,omitempty" bson:"quoteAcceptedAt,omitempty"`

	EngagementCount int        `json:"engagementCount" bson:"engagementCount"`
	HasUrgentNeed   bool       `json:"hasUrgentNeed" bson:"hasUrgentNeed"`
	IsDecisionMaker bool       `json:"isDecisionMaker" bson:"isDecisionMaker"`
	LastContactedAt *time.Time `json:"lastContactedAt,omitempty" bson:"lastContactedAt,omitempty"`

	Notes          []Note          `json:"notes" bson:"notes"`
	Engagements    []Engagement    `json:"engagements" bson:"engagements"`
	Timeline       []TimelineEntry `json:"timeline" bson:"timeline"`
	LinkedTrialIDs []string        `json:"linkedTrialIds" bson:"linkedTrialIds"`
	ComplianceTags []ComplianceTag `json:"complianceTags" bson:"complianceTags"`

	ConvertedOrganizationID string     `json:"convertedOrganizationId,omitempty" bson:"convertedOrganizationId,omitempty"`
	ConvertedAt             *time.Time `json:"convertedAt,omitempty" bson:"convertedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewLead builds a lead in its initial state. The caller records the "created"
// timeline entry once the signals from the form are applied.
func NewLead(email, name string, segment Segment, source LeadSource, now time.Time) *Lead {
	return &Lead{
		ID:             uuid.New().String(),
		Email:          NormalizeEmail(email),
		Name:           strings.TrimSpace(name),
		Segment:        segment,
		Source:         source,
		Status:         LeadStatusNew,
		DemoStatus:     DemoNone,
		QuoteStatus:    QuoteNone,
		Notes:          []Note{},
		Engagements:    []Engagement{},
		Timeline:       []TimelineEntry{},
		LinkedTrialIDs: []string{},
		ComplianceTags: []ComplianceTag{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NormalizeEmail reduces an address to its lowercase addr-spec, so
// "Ana <Ana@Acme.io>" and "ana@acme.io" share one identity key.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if addr, err := mail.ParseAddress(email); err == nil {
		email = addr.Address
	}
	return strings.ToLower(email)
}

// touchContact registers an interaction: the engagement count only ever grows.
func (l *Lead) touchContact(now time.Time) {
	l.EngagementCount++
	t := now
	l.LastContactedAt = &t
}

func (l *Lead) AddNote(text, actorID string, now time.Time) Note {
	n := Note{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedBy: actorID,
		CreatedAt: now,
	}
	l.Notes = append(l.Notes, n)
	l.touchContact(now)
	l.UpdatedAt = now
	return n
}

func (l *Lead) LogEngagement(t EngagementType, summary, actorID string, now time.Time) Engagement {
	e := Engagement{
		ID:        uuid.New().String(),
		Type:      t,
		Summary:   summary,
		CreatedBy: actorID,
		CreatedAt: now,
	}
	l.Engagements = append(l.Engagements, e)
	l.touchContact(now)
	l.UpdatedAt = now
	return e
}

// ApplyDemoStatus sets the rich demo status and mirrors the legacy booleans.
// Every change, a reset to none included, counts as a contact. It returns
// false when the status did not change.
func (l *Lead) ApplyDemoStatus(status DemoStatus, scheduledAt *time.Time, now time.Time) bool {
	if l.DemoStatus == status && scheduledAt == nil {
		return false
	}
	l.DemoStatus = status
	l.DemoRequested = status != DemoNone
	l.DemoCompleted = status == DemoCompleted

	switch status {
	case DemoScheduled:
		if scheduledAt != nil {
			t := *scheduledAt
			l.DemoScheduledAt = &t
		} else if l.DemoScheduledAt == nil {
			t := now
			l.DemoScheduledAt = &t
		}
	case DemoCompleted:
		t := now
		l.DemoCompletedAt = &t
	case DemoNone:
		l.DemoScheduledAt = nil
		l.DemoCompletedAt = nil
	}

	l.touchContact(now)
	l.UpdatedAt = now
	return true
}

// ApplyQuoteStatus sets the quote status, mirrors the legacy flag and stamps
// the matching timestamp. It returns false when the status did not change.
func (l *Lead) ApplyQuoteStatus(status QuoteStatus, now time.Time) bool {
	if l.QuoteStatus == status {
		return false
	}
	l.QuoteStatus = status
	l.QuoteRequested = status != QuoteNone

	t := now
	switch status {
	case QuoteRequested:
		l.QuoteRequestedAt = &t
	case QuoteSent:
		l.QuoteSentAt = &t
	case QuoteAccepted:
		l.QuoteAcceptedAt = &t
	}

	l.touchContact(now)
	l.UpdatedAt = now
	return true
}

// ApplyFormRequests records demo and quote requests submitted by the lead
// through a public form. A request is not a contact from our side, so the
// engagement count is left alone. Only "none" sub-states are upgraded.
func (l *Lead) ApplyFormRequests(demo, quote bool, now time.Time) (demoAdded, quoteAdded bool) {
	if demo && l.DemoStatus == DemoNone {
		l.DemoStatus = DemoRequested
		l.DemoRequested = true
		demoAdded = true
	}
	if quote && l.QuoteStatus == QuoteNone {
		t := now
		l.QuoteStatus = QuoteRequested
		l.QuoteRequested = true
		l.QuoteRequestedAt = &t
		quoteAdded = true
	}
	if demoAdded || quoteAdded {
		l.UpdatedAt = now
	}
	return demoAdded, quoteAdded
}

// LinkTrial adds a trial account reference; duplicates are ignored.
func (l *Lead) LinkTrial(trialID string, now time.Time) bool {
	for _, id := range l.LinkedTrialIDs {
		if id == trialID {
			return false
		}
	}
	l.LinkedTrialIDs = append(l.LinkedTrialIDs, trialID)
	l.UpdatedAt = now
	return true
}

// MarkConverted is the one-way terminal transition.
func (l *Lead) MarkConverted(organizationID string, now time.Time) {
	t := now
	l.Status = LeadStatusConverted
	l.ConvertedOrganizationID = organizationID
	l.ConvertedAt = &t
	l.UpdatedAt = now
}

type LeadFilter struct {
	Status  LeadStatus
	Segment Segment
	Source  LeadSource
	Search  string
	Page    int
	Limit   int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByEmailAndSource(ctx context.Context, email string, source LeadSource) (*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter LeadFilter) ([]*Lead, int64, error)
	CountByStatus(ctx context.Context) (map[LeadStatus]int64, error)
}
