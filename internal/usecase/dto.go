package usecase

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CaptureLeadInput struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
	Phone            string `json:"phone"`
	Message          string `json:"message"`
	Source           string `json:"source"`
	DemoRequested    bool   `json:"demo_requested"`
	QuoteRequested   bool   `json:"quote_requested"`
	HasUrgentNeed    bool   `json:"has_urgent_need"`
	IsDecisionMaker  bool   `json:"is_decision_maker"`
}

type CaptureLeadOutput struct {
	ID        string            `json:"id"`
	Status    entity.LeadStatus `json:"status"`
	Duplicate bool              `json:"duplicate"`
}

type CreateLeadInput struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	OrganizationName string `json:"organization_name"`
	Phone            string `json:"phone"`
	Segment          string `json:"segment"`
	HasUrgentNeed    bool   `json:"has_urgent_need"`
	IsDecisionMaker  bool   `json:"is_decision_maker"`
}

type ListLeadsOutput struct {
	Leads []*entity.Lead `json:"leads"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// OrganizationInput describes the tenant to create, either directly or from a lead.
type OrganizationInput struct {
	Name         string `json:"name"`
	Segment      string `json:"segment"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	PackageID    string `json:"package_id,omitempty"`
}

type ConvertLeadInput struct {
	LeadID       string            `json:"lead_id"`
	Organization OrganizationInput `json:"organization"`
	ActorID      string            `json:"-"`
}

type ConvertLeadOutput struct {
	Organization *entity.Organization `json:"organization"`
	User         *entity.User         `json:"user"`
	Lead         *entity.Lead         `json:"lead"`
	Warnings     []string             `json:"warnings,omitempty"`
}

type CreateOrganizationInput struct {
	Organization OrganizationInput `json:"organization"`
	OwnerName    string            `json:"owner_name"`
}

type CreateOrganizationOutput struct {
	Organization *entity.Organization `json:"organization"`
	User         *entity.User         `json:"user"`
	Warnings     []string             `json:"warnings,omitempty"`
}

type CreatePackageInput struct {
	Name           string   `json:"name"`
	Segment        string   `json:"segment"`
	PriceCents     int      `json:"price_cents"`
	Seats          int      `json:"seats"`
	DurationMonths int      `json:"duration_months"`
	Features       []string `json:"features"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginOutput struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	TokenType   string       `json:"token_type"`
	User        *entity.User `json:"user"`
}

// MutationOutput is returned by lifecycle operations that may carry soft warnings.
type MutationOutput struct {
	Lead     *entity.Lead `json:"lead"`
	Warnings []string     `json:"warnings,omitempty"`
}

type MigrationReport struct {
	Segment  entity.Segment `json:"segment"`
	Read     int            `json:"read"`
	Imported int            `json:"imported"`
	Skipped  int            `json:"skipped"`
	Failed   int            `json:"failed"`
}
