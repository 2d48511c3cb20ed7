package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type TokenIssuer interface {
	Issue(userID string, role entity.Role) (token string, expiresAt time.Time, err error)
}

type EmailService interface {
	SendCredentials(ctx context.Context, to, name, organizationName, password string) error
}

type QueueProducerInterface interface {
	PublishDemoDecision(ctx context.Context, payload queue.DemoDecisionPayload) error
	PublishLeadConverted(ctx context.Context, payload queue.LeadConvertedPayload) error
}

// LegacyLeadSource reads leads captured before the unified lead collection existed.
type LegacyLeadSource interface {
	FetchLeads(ctx context.Context, segment entity.Segment) ([]LegacyLead, error)
}

type LegacyLead struct {
	Email            string
	Name             string
	OrganizationName string
	Phone            string
	Message          string
	DemoRequested    bool
	QuoteRequested   bool
	CreatedAt        time.Time
}
