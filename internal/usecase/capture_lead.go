package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

// SystemActor marks timeline entries produced without an authenticated admin.
const SystemActor = "system"

type CaptureLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
	Now  func() time.Time
}

func NewCaptureLeadUseCase(repo entity.LeadRepositoryInterface) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{Repo: repo, Now: time.Now}
}

// Execute stores a public form submission. A second submission with the same
// email on the same channel is merged into the existing lead.
func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	if errs := ValidateCaptureLeadInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	source := entity.LeadSource(input.Source)
	now := uc.Now()

	existing, err := uc.Repo.FindByEmailAndSource(ctx, entity.NormalizeEmail(input.Email), source)
	switch {
	case err == nil:
		return uc.merge(ctx, existing, input, now)
	case !errors.Is(err, entity.ErrNotFound):
		return nil, DatabaseError("failed to look up lead", err)
	}

	lead := entity.NewLead(input.Email, input.Name, source.Segment(), source, now)
	lead.OrganizationName = strings.TrimSpace(input.OrganizationName)
	lead.Phone = strings.TrimSpace(input.Phone)
	lead.Message = strings.TrimSpace(input.Message)
	lead.HasUrgentNeed = input.HasUrgentNeed
	lead.IsDecisionMaker = input.IsDecisionMaker

	lead.Record(entity.EventCreated, "Lead captured from "+string(source),
		map[string]any{"source": string(source)}, SystemActor, now)
	recordFormRequests(lead, input, now)
	lead.RecomputeStatus()

	if err := uc.Repo.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			return nil, Conflict("lead already captured for this channel")
		}
		return nil, DatabaseError("failed to create lead", err)
	}

	metrics.RecordLeadCaptured(string(source), false)
	log.Info().Str("lead_id", lead.ID).Str("source", string(source)).Str("status", string(lead.Status)).Msg("lead captured")

	return &CaptureLeadOutput{ID: lead.ID, Status: lead.Status}, nil
}

func (uc *CaptureLeadUseCase) merge(ctx context.Context, lead *entity.Lead, input CaptureLeadInput, now time.Time) (*CaptureLeadOutput, error) {
	if name := strings.TrimSpace(input.Name); name != "" {
		lead.Name = name
	}
	if org := strings.TrimSpace(input.OrganizationName); org != "" {
		lead.OrganizationName = org
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		lead.Phone = phone
	}
	if msg := strings.TrimSpace(input.Message); msg != "" {
		lead.Message = msg
	}
	lead.HasUrgentNeed = lead.HasUrgentNeed || input.HasUrgentNeed
	lead.IsDecisionMaker = lead.IsDecisionMaker || input.IsDecisionMaker
	lead.UpdatedAt = now

	recordFormRequests(lead, input, now)
	recordStatusChange(lead, SystemActor, now)

	if err := saveLead(ctx, uc.Repo, lead); err != nil {
		return nil, err
	}

	metrics.RecordLeadCaptured(string(lead.Source), true)
	log.Info().Str("lead_id", lead.ID).Str("source", string(lead.Source)).Msg("duplicate submission merged into lead")

	return &CaptureLeadOutput{ID: lead.ID, Status: lead.Status, Duplicate: true}, nil
}

func recordFormRequests(lead *entity.Lead, input CaptureLeadInput, now time.Time) {
	demo, quote := lead.ApplyFormRequests(input.DemoRequested, input.QuoteRequested, now)
	if demo {
		lead.Record(entity.EventDemoRequested, "Demo requested via form", nil, SystemActor, now)
	}
	if quote {
		lead.Record(entity.EventQuoteRequested, "Quote requested via form", nil, SystemActor, now)
	}
}

// CreateLeadUseCase registers a lead typed in by an admin.
type CreateLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
	Now  func() time.Time
}

func NewCreateLeadUseCase(repo entity.LeadRepositoryInterface) *CreateLeadUseCase {
	return &CreateLeadUseCase{Repo: repo, Now: time.Now}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput, actorID string) (*entity.Lead, error) {
	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	email := entity.NormalizeEmail(input.Email)
	_, err := uc.Repo.FindByEmailAndSource(ctx, email, entity.SourceManual)
	switch {
	case err == nil:
		return nil, Conflict("a manual lead with this email already exists")
	case !errors.Is(err, entity.ErrNotFound):
		return nil, DatabaseError("failed to look up lead", err)
	}

	now := uc.Now()
	lead := entity.NewLead(email, input.Name, entity.Segment(input.Segment), entity.SourceManual, now)
	lead.OrganizationName = strings.TrimSpace(input.OrganizationName)
	lead.Phone = strings.TrimSpace(input.Phone)
	lead.HasUrgentNeed = input.HasUrgentNeed
	lead.IsDecisionMaker = input.IsDecisionMaker

	lead.Record(entity.EventCreated, "Lead created manually", map[string]any{"source": string(entity.SourceManual)}, actorID, now)
	lead.RecomputeStatus()

	if err := uc.Repo.Create(ctx, lead); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			return nil, Conflict("a manual lead with this email already exists")
		}
		return nil, DatabaseError("failed to create lead", err)
	}

	metrics.RecordLeadCaptured(string(entity.SourceManual), false)
	return lead, nil
}
