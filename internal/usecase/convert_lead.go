package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

const defaultMailTimeout = 10 * time.Second

// ConvertLeadUseCase turns a lead into a tenant: an organization plus an owner
// login with fresh credentials. The lead is written last so it is never marked
// converted without an organization behind it.
type ConvertLeadUseCase struct {
	Leads       entity.LeadRepositoryInterface
	Mailer      EmailService
	Queue       QueueProducerInterface
	Now         func() time.Time
	MailTimeout time.Duration

	provisioner tenantProvisioner
}

func NewConvertLeadUseCase(
	leads entity.LeadRepositoryInterface,
	organizations entity.OrganizationRepositoryInterface,
	users entity.UserRepositoryInterface,
	packages entity.PackageRepositoryInterface,
	hasher PasswordHasher,
	mailer EmailService,
	queue QueueProducerInterface,
) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{
		Leads:       leads,
		Mailer:      mailer,
		Queue:       queue,
		Now:         time.Now,
		MailTimeout: defaultMailTimeout,
		provisioner: tenantProvisioner{
			Organizations: organizations,
			Users:         users,
			Packages:      packages,
			Hasher:        hasher,
		},
	}
}

func (uc *ConvertLeadUseCase) Execute(ctx context.Context, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	if errs := ValidateConvertLeadInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	lead, err := loadLead(ctx, uc.Leads, input.LeadID)
	if err != nil {
		return nil, err
	}
	switch lead.Status {
	case entity.LeadStatusConverted:
		return nil, Conflict("lead was already converted on " + formatTime(lead.ConvertedAt))
	case entity.LeadStatusLost:
		return nil, Conflict("lead is marked lost; reopen it before converting")
	}

	if err := uc.provisioner.ensureNameAvailable(ctx, input.Organization.Name); err != nil {
		return nil, err
	}

	now := uc.Now()
	draft, err := uc.provisioner.draft(ctx, input.Organization, input.Organization.ContactName, now)
	if err != nil {
		return nil, err
	}
	draft.org.SourceLeadID = lead.ID

	previousStatus := lead.Status
	txn := NewTransaction()
	uc.provisioner.addSteps(txn, draft)
	txn.AddOperation("mark_lead_converted", func(ctx context.Context) error {
		lead.MarkConverted(draft.org.ID, now)
		lead.Record(entity.EventConverted, "Converted to organization "+draft.org.Name,
			map[string]any{"organizationId": draft.org.ID, "userId": draft.owner.ID}, input.ActorID, now)
		return uc.Leads.Update(ctx, lead)
	}, nil)

	if err := txn.Execute(ctx); err != nil {
		log.Error().Err(err).Str("lead_id", lead.ID).Msg("lead conversion rolled back")
		if errors.Is(err, entity.ErrDuplicateKey) {
			return nil, Conflict("organization or user already exists")
		}
		return nil, DatabaseError("failed to convert lead", err)
	}

	metrics.RecordStatusTransition(string(previousStatus), string(entity.LeadStatusConverted))
	metrics.RecordConversion(string(draft.org.Segment))
	log.Info().
		Str("lead_id", lead.ID).
		Str("organization_id", draft.org.ID).
		Str("user_id", draft.owner.ID).
		Msg("lead converted")

	out := &ConvertLeadOutput{
		Organization: draft.org,
		User:         draft.owner,
		Lead:         lead,
	}

	if err := sendCredentials(ctx, uc.Mailer, uc.MailTimeout, draft); err != nil {
		log.Warn().Err(err).Str("user_id", draft.owner.ID).Msg("credentials email failed")
		metrics.RecordNotificationFailure("email")
		out.Warnings = append(out.Warnings, "credentials email could not be delivered; resend them manually")
	}

	if err := uc.publishConverted(ctx, lead, draft.org); err != nil {
		log.Warn().Err(err).Str("lead_id", lead.ID).Msg("conversion event not published")
		metrics.RecordNotificationFailure("queue")
		out.Warnings = append(out.Warnings, "CRM sync event could not be published")
	}

	return out, nil
}

func (uc *ConvertLeadUseCase) publishConverted(ctx context.Context, lead *entity.Lead, org *entity.Organization) error {
	if uc.Queue == nil {
		return nil
	}
	return uc.Queue.PublishLeadConverted(ctx, queue.LeadConvertedPayload{
		LeadID:           lead.ID,
		OrganizationID:   org.ID,
		OrganizationName: org.Name,
		Segment:          string(org.Segment),
		ContactName:      org.PrimaryContact.Name,
		ContactEmail:     org.PrimaryContact.Email,
		Phone:            lead.Phone,
		ConvertedAt:      *lead.ConvertedAt,
	})
}

// sendCredentials delivers the plaintext password once. The caller downgrades
// any error to a warning.
func sendCredentials(ctx context.Context, mailer EmailService, timeout time.Duration, d *tenantDraft) error {
	if mailer == nil {
		return errors.New("mailer not configured")
	}
	if timeout <= 0 {
		timeout = defaultMailTimeout
	}
	mailCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return mailer.SendCredentials(mailCtx, d.owner.Email, d.owner.Name, d.org.Name, d.password)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "an unknown date"
	}
	return t.UTC().Format(time.RFC3339)
}
