package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type GetLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewGetLeadUseCase(repo entity.LeadRepositoryInterface) *GetLeadUseCase {
	return &GetLeadUseCase{Repo: repo}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, id string) (*entity.Lead, error) {
	return loadLead(ctx, uc.Repo, id)
}

type ListLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context, filter entity.LeadFilter) (*ListLeadsOutput, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, InvalidArgument("invalid status filter: " + string(filter.Status))
	}
	if filter.Segment != "" && !filter.Segment.Valid() {
		return nil, InvalidArgument("invalid segment filter: " + string(filter.Segment))
	}
	if filter.Source != "" && !filter.Source.Valid() {
		return nil, InvalidArgument("invalid source filter: " + string(filter.Source))
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	leads, total, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, DatabaseError("failed to list leads", err)
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	return &ListLeadsOutput{
		Leads: leads,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

type DeleteLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewDeleteLeadUseCase(repo entity.LeadRepositoryInterface) *DeleteLeadUseCase {
	return &DeleteLeadUseCase{Repo: repo}
}

func (uc *DeleteLeadUseCase) Execute(ctx context.Context, id string) error {
	if id == "" {
		return InvalidArgument("lead id is required")
	}
	if err := uc.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return NotFound("lead not found: " + id)
		}
		return DatabaseError("failed to delete lead", err)
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
