package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	exportPageSize = 100
	exportMaxRows  = 10000
)

// LeadReportRow is one lead flattened for audit reports.
type LeadReportRow struct {
	ID               string
	Name             string
	Email            string
	OrganizationName string
	Phone            string
	Segment          string
	Source           string
	Status           string
	DemoStatus       string
	QuoteStatus      string
	EngagementCount  int
	LastContactedAt  string
	ComplianceTags   string
	Notes            string
	Engagements      string
	ConvertedTo      string
	ConvertedAt      string
	CreatedAt        string
}

type ExportLeadsUseCase struct {
	Leads         entity.LeadRepositoryInterface
	Organizations entity.OrganizationRepositoryInterface
	// MaxRows caps a single report. Larger result sets are refused.
	MaxRows int
}

func NewExportLeadsUseCase(leads entity.LeadRepositoryInterface, organizations entity.OrganizationRepositoryInterface) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{Leads: leads, Organizations: organizations, MaxRows: exportMaxRows}
}

// Execute walks every page matching the filter and resolves the name of the
// organization each converted lead produced. A filter matching more than
// MaxRows leads is rejected rather than cut short.
func (uc *ExportLeadsUseCase) Execute(ctx context.Context, filter entity.LeadFilter) ([]LeadReportRow, error) {
	maxRows := uc.MaxRows
	if maxRows <= 0 {
		maxRows = exportMaxRows
	}
	filter.Limit = exportPageSize
	filter.Page = 1

	orgNames := map[string]string{}
	rows := []LeadReportRow{}
	for {
		leads, total, err := uc.Leads.List(ctx, filter)
		if err != nil {
			return nil, DatabaseError("failed to list leads", err)
		}
		if total > int64(maxRows) || len(rows)+len(leads) > maxRows {
			return nil, tooManyRows(total, maxRows)
		}
		for _, l := range leads {
			orgName, err := uc.organizationName(ctx, l.ConvertedOrganizationID, orgNames)
			if err != nil {
				return nil, err
			}
			rows = append(rows, toReportRow(l, orgName))
		}

		if len(leads) < filter.Limit || int64(filter.Page*filter.Limit) >= total {
			break
		}
		filter.Page++
	}
	return rows, nil
}

func tooManyRows(total int64, maxRows int) *DomainError {
	return InvalidArgument(fmt.Sprintf("export matches %d leads, more than the %d allowed in one report; narrow the filter", total, maxRows))
}

func (uc *ExportLeadsUseCase) organizationName(ctx context.Context, id string, cache map[string]string) (string, error) {
	if id == "" {
		return "", nil
	}
	if name, ok := cache[id]; ok {
		return name, nil
	}
	org, err := uc.Organizations.FindByID(ctx, id)
	switch {
	case err == nil:
		cache[id] = org.Name
	case errors.Is(err, entity.ErrNotFound):
		cache[id] = ""
	default:
		return "", DatabaseError("failed to load organization", err)
	}
	return cache[id], nil
}

func toReportRow(l *entity.Lead, orgName string) LeadReportRow {
	tags := make([]string, 0, len(l.ComplianceTags))
	for _, t := range l.ComplianceTags {
		tags = append(tags, string(t))
	}

	notes := make([]string, 0, len(l.Notes))
	for _, n := range l.Notes {
		notes = append(notes, fmt.Sprintf("[%s] %s", formatReportTime(&n.CreatedAt), n.Text))
	}

	engagements := make([]string, 0, len(l.Engagements))
	for _, e := range l.Engagements {
		engagements = append(engagements, fmt.Sprintf("[%s] %s: %s", formatReportTime(&e.CreatedAt), e.Type, e.Summary))
	}

	return LeadReportRow{
		ID:               l.ID,
		Name:             l.Name,
		Email:            l.Email,
		OrganizationName: l.OrganizationName,
		Phone:            l.Phone,
		Segment:          string(l.Segment),
		Source:           string(l.Source),
		Status:           string(l.Status),
		DemoStatus:       string(l.DemoStatus),
		QuoteStatus:      string(l.QuoteStatus),
		EngagementCount:  l.EngagementCount,
		LastContactedAt:  formatReportTime(l.LastContactedAt),
		ComplianceTags:   strings.Join(tags, ", "),
		Notes:            strings.Join(notes, "\n"),
		Engagements:      strings.Join(engagements, "\n"),
		ConvertedTo:      orgName,
		ConvertedAt:      formatReportTime(l.ConvertedAt),
		CreatedAt:        formatReportTime(&l.CreatedAt),
	}
}

func formatReportTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
