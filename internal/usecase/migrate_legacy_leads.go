package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MigrateLegacyLeadsUseCase copies rows from the old per-segment lead tables
// into the unified collection. Rows already imported are skipped, so the
// migration can be re-run safely.
type MigrateLegacyLeadsUseCase struct {
	Source LegacyLeadSource
	Repo   entity.LeadRepositoryInterface
}

func NewMigrateLegacyLeadsUseCase(source LegacyLeadSource, repo entity.LeadRepositoryInterface) *MigrateLegacyLeadsUseCase {
	return &MigrateLegacyLeadsUseCase{Source: source, Repo: repo}
}

func (uc *MigrateLegacyLeadsUseCase) Execute(ctx context.Context, segment entity.Segment) (*MigrationReport, error) {
	source, err := legacySourceFor(segment)
	if err != nil {
		return nil, err
	}

	rows, err := uc.Source.FetchLeads(ctx, segment)
	if err != nil {
		return nil, DependencyFailure("failed to read legacy leads", err)
	}

	report := &MigrationReport{Segment: segment, Read: len(rows)}
	for _, row := range rows {
		if errs := validateEmail("email", row.Email); len(errs) > 0 {
			log.Warn().Str("email", row.Email).Msg("legacy lead skipped: invalid email")
			report.Failed++
			continue
		}

		_, err := uc.Repo.FindByEmailAndSource(ctx, entity.NormalizeEmail(row.Email), source)
		switch {
		case err == nil:
			report.Skipped++
			continue
		case !errors.Is(err, entity.ErrNotFound):
			return report, DatabaseError("failed to look up lead", err)
		}

		lead := buildLegacyLead(row, segment, source)
		if err := uc.Repo.Create(ctx, lead); err != nil {
			if errors.Is(err, entity.ErrDuplicateKey) {
				report.Skipped++
				continue
			}
			return report, DatabaseError("failed to import lead", err)
		}
		report.Imported++
	}

	log.Info().
		Str("segment", string(segment)).
		Int("read", report.Read).
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("legacy lead migration finished")

	return report, nil
}

func legacySourceFor(segment entity.Segment) (entity.LeadSource, error) {
	switch segment {
	case entity.SegmentB2B:
		return entity.SourceB2BForm, nil
	case entity.SegmentB2E:
		return entity.SourceB2EForm, nil
	}
	return "", InvalidArgument("no legacy lead table for segment " + string(segment))
}

func buildLegacyLead(row LegacyLead, segment entity.Segment, source entity.LeadSource) *entity.Lead {
	created := row.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	lead := entity.NewLead(row.Email, row.Name, segment, source, created)
	lead.OrganizationName = row.OrganizationName
	lead.Phone = row.Phone
	lead.Message = row.Message

	lead.Record(entity.EventCreated, "Imported from legacy "+string(segment)+" leads",
		map[string]any{"source": string(source), "migrated": true}, SystemActor, created)
	demo, quote := lead.ApplyFormRequests(row.DemoRequested, row.QuoteRequested, created)
	if demo {
		lead.Record(entity.EventDemoRequested, "Demo requested via form", nil, SystemActor, created)
	}
	if quote {
		lead.Record(entity.EventQuoteRequested, "Quote requested via form", nil, SystemActor, created)
	}
	lead.RecomputeStatus()

	return lead
}
