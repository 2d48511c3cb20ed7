package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

const maxNoteLength = 10000

// LeadLifecycleUseCase applies admin mutations to a lead. Every operation
// loads the lead, mutates it, re-derives the status unless it is terminal,
// appends timeline entries and persists everything in a single write.
type LeadLifecycleUseCase struct {
	Repo  entity.LeadRepositoryInterface
	Queue QueueProducerInterface
	Now   func() time.Time
}

func NewLeadLifecycleUseCase(repo entity.LeadRepositoryInterface, queue QueueProducerInterface) *LeadLifecycleUseCase {
	return &LeadLifecycleUseCase{
		Repo:  repo,
		Queue: queue,
		Now:   time.Now,
	}
}

func (uc *LeadLifecycleUseCase) AddNote(ctx context.Context, leadID, text, actorID string) (*entity.Lead, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, InvalidArgument("note text is required")
	}
	if len(text) > maxNoteLength {
		return nil, InvalidArgument("note text is too long")
	}

	lead, err := loadLead(ctx, uc.Repo, leadID)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	note := lead.AddNote(text, actorID, now)
	lead.Record(entity.EventNoteAdded, "Note added", map[string]any{"noteId": note.ID}, actorID, now)
	recordStatusChange(lead, actorID, now)

	return lead, saveLead(ctx, uc.Repo, lead)
}

func (uc *LeadLifecycleUseCase) LogEngagement(ctx context.Context, leadID, engagementType, summary, actorID string) (*entity.Lead, error) {
	t, err := parseEngagementType(engagementType)
	if err != nil {
		return nil, err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, InvalidArgument("engagement summary is required")
	}

	lead, err := loadLead(ctx, uc.Repo, leadID)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	e := lead.LogEngagement(t, summary, actorID, now)
	lead.Record(entity.EventEngagementLogged, fmt.Sprintf("Engagement logged (%s)", t),
		map[string]any{"engagementId": e.ID, "type": string(t)}, actorID, now)
	recordStatusChange(lead, actorID, now)

	return lead, saveLead(ctx, uc.Repo, lead)
}

func (uc *LeadLifecycleUseCase) SetDemoStatus(ctx context.Context, leadID, status string, scheduledAt *time.Time, actorID string) (*entity.Lead, error) {
	demoStatus, err := parseDemoStatus(status)
	if err != nil {
		return nil, err
	}
	if scheduledAt != nil && demoStatus != entity.DemoScheduled {
		return nil, InvalidArgument("scheduled_at is only allowed with status scheduled")
	}

	lead, err := loadLead(ctx, uc.Repo, leadID)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	previous := lead.DemoStatus
	if !lead.ApplyDemoStatus(demoStatus, scheduledAt, now) {
		return lead, nil
	}

	metadata := map[string]any{"field": "demoStatus", "from": string(previous), "to": string(demoStatus)}
	if lead.DemoScheduledAt != nil && demoStatus == entity.DemoScheduled {
		metadata["scheduledAt"] = *lead.DemoScheduledAt
	}
	lead.Record(entity.DemoEvent(demoStatus), fmt.Sprintf("Demo status changed to %s", demoStatus), metadata, actorID, now)
	recordStatusChange(lead, actorID, now)

	return lead, saveLead(ctx, uc.Repo, lead)
}

func (uc *LeadLifecycleUseCase) SetQuoteStatus(ctx context.Context, leadID, status, actorID string) (*entity.Lead, error) {
	quoteStatus, err := parseQuoteStatus(status)
	if err != nil {
		return nil, err
	}

	lead, err := loadLead(ctx, uc.Repo, leadID)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	previous := lead.QuoteStatus
	if !lead.ApplyQuoteStatus(quoteStatus, now) {
		return lead, nil
	}

	lead.Record(entity.QuoteEvent(quoteStatus), fmt.Sprintf("Quote status changed to %s", quoteStatus),
		map[string]any{"field": "quoteStatus", "from": string(previous), "to": string(quoteStatus)}, actorID, now)
	recordStatusChange(lead, actorID, now)

	return lead, saveLead(ctx, uc.Repo, lead)
}

// SetDemoApproval toggles the approval flag and asks for the lead to be
// notified. The notification is best effort and does not affect the status.
func (uc *LeadLifecycleUseCase) SetDemoApproval(ctx context.Context, leadID string, approved bool, actorID string) (*MutationOutput, error) {
	lead, err := loadLead(ctx, uc.Repo, leadID)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	previous := demoDecision(lead.DemoApproved)
	lead.DemoApproved = &approved
	lead.UpdatedAt = now

	decision := demoDecision(&approved)
	lead.Record(entity.EventStatusChanged, "Demo request "+decision,
		map[string]any{"field": "demoApproved", "from": previous, "to": decision}, actorID, now)

	if err := saveLead(ctx, uc.Repo, lead); err != nil {
		return nil, err
	}

	out := &MutationOutput{Lead: lead}
	if err := uc.notifyDemoDecision(ctx, lead, approved); err != nil {
		log.Warn().Err(err).Str("lead_id", lead.ID).Msg("demo decision notification failed")
		metrics.RecordNotificationFailure("queue")
		out.Warnings = append(out.Warnings, "demo decision notification could not be sent")
	}
	return out, nil
}

func demoDecision(approved *bool) string {
	switch {
	case approved == nil:
		return "pending"
	case *approved:
		return "approved"
	default:
		return "rejected"
	}
}

func (uc *LeadLifecycleUseCase) notifyDemoDecision(ctx context.Context, lead *entity.Lead, approved bool) error {
	if uc.Queue == nil {
		return errors.New("notification queue not configured")
	}
	return uc.Queue.PublishDemoDecision(ctx, queue.DemoDecisionPayload{
		LeadID:   lead.ID,
		Email:    lead.Email,
		Name:     lead.Name,
		Approved: approved,
	})
}

// SetComplianceTags replaces the tag set; unrecognised tags are dropped silently.
func (uc *LeadLifecycleUseCase) SetComplianceTags(ctx context.Context, leadID string, tags []string) (*entity.Lead, error) {
	lead, err := loadLead(ctx, uc.Repo, leadID)
	if err != nil {
		return nil, err
	}

	lead.ComplianceTags = entity.FilterComplianceTags(tags)
	lead.UpdatedAt = uc.Now()

	return lead, saveLead(ctx, uc.Repo, lead)
}

// SetStatus is the explicit override. Conversion has its own workflow and a
// converted lead never changes again.
func (uc *LeadLifecycleUseCase) SetStatus(ctx context.Context, leadID, status, reason, actorID string) (*entity.Lead, error) {
	target := entity.LeadStatus(status)
	if !target.Valid() {
		return nil, InvalidArgument("invalid lead status: " + status)
	}
	if target == entity.LeadStatusConverted {
		return nil, InvalidArgument("leads are converted through the conversion workflow")
	}

	lead, err := loadLead(ctx, uc.Repo, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status == entity.LeadStatusConverted {
		return nil, Conflict("lead is already converted")
	}
	if lead.Status == target {
		return lead, nil
	}

	now := uc.Now()
	from := lead.Status
	lead.Status = target
	lead.UpdatedAt = now
	if target == entity.LeadStatusLost {
		lead.LostReason = strings.TrimSpace(reason)
	} else {
		lead.LostReason = ""
	}

	metadata := map[string]any{"from": string(from), "to": string(target), "explicit": true}
	if reason != "" {
		metadata["reason"] = reason
	}
	lead.Record(entity.EventStatusChanged, fmt.Sprintf("Status changed from %s to %s", from, target), metadata, actorID, now)
	metrics.RecordStatusTransition(string(from), string(target))

	return lead, saveLead(ctx, uc.Repo, lead)
}

func (uc *LeadLifecycleUseCase) LinkTrial(ctx context.Context, leadID, trialID string) (*entity.Lead, error) {
	trialID = strings.TrimSpace(trialID)
	if trialID == "" {
		return nil, InvalidArgument("trial id is required")
	}

	lead, err := loadLead(ctx, uc.Repo, leadID)
	if err != nil {
		return nil, err
	}
	if !lead.LinkTrial(trialID, uc.Now()) {
		return lead, nil
	}

	return lead, saveLead(ctx, uc.Repo, lead)
}

// recordStatusChange re-derives the status and appends a status_changed entry
// when it moved. Terminal leads are left untouched.
func recordStatusChange(lead *entity.Lead, actorID string, now time.Time) {
	from, to, changed := lead.RecomputeStatus()
	if !changed {
		return
	}
	lead.Record(entity.EventStatusChanged, fmt.Sprintf("Status changed from %s to %s", from, to),
		map[string]any{"from": string(from), "to": string(to)}, actorID, now)
	metrics.RecordStatusTransition(string(from), string(to))
}

func loadLead(ctx context.Context, repo entity.LeadRepositoryInterface, id string) (*entity.Lead, error) {
	if strings.TrimSpace(id) == "" {
		return nil, InvalidArgument("lead id is required")
	}
	lead, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NotFound("lead not found: " + id)
		}
		return nil, DatabaseError("failed to load lead", err)
	}
	return lead, nil
}

func saveLead(ctx context.Context, repo entity.LeadRepositoryInterface, lead *entity.Lead) error {
	if err := repo.Update(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return NotFound("lead not found: " + lead.ID)
		}
		return DatabaseError("failed to persist lead", err)
	}
	return nil
}
