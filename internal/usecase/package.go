package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreatePackageUseCase struct {
	Repo entity.PackageRepositoryInterface
	Now  func() time.Time
}

func NewCreatePackageUseCase(repo entity.PackageRepositoryInterface) *CreatePackageUseCase {
	return &CreatePackageUseCase{Repo: repo, Now: time.Now}
}

func (uc *CreatePackageUseCase) Execute(ctx context.Context, input CreatePackageInput) (*entity.Package, error) {
	if errs := ValidateCreatePackageInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	features := make([]string, 0, len(input.Features))
	for _, f := range input.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}

	pkg := entity.NewPackage(strings.TrimSpace(input.Name), entity.Segment(input.Segment),
		input.PriceCents, input.Seats, input.DurationMonths, features, uc.Now())

	if err := uc.Repo.Create(ctx, pkg); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			return nil, Conflict("package already exists")
		}
		return nil, DatabaseError("failed to create package", err)
	}
	return pkg, nil
}

type GetPackageUseCase struct {
	Repo entity.PackageRepositoryInterface
}

func NewGetPackageUseCase(repo entity.PackageRepositoryInterface) *GetPackageUseCase {
	return &GetPackageUseCase{Repo: repo}
}

func (uc *GetPackageUseCase) Execute(ctx context.Context, id string) (*entity.Package, error) {
	return loadPackage(ctx, uc.Repo, id)
}

type ListPackagesUseCase struct {
	Repo entity.PackageRepositoryInterface
}

func NewListPackagesUseCase(repo entity.PackageRepositoryInterface) *ListPackagesUseCase {
	return &ListPackagesUseCase{Repo: repo}
}

func (uc *ListPackagesUseCase) Execute(ctx context.Context, activeOnly bool) ([]*entity.Package, error) {
	pkgs, err := uc.Repo.List(ctx, activeOnly)
	if err != nil {
		return nil, DatabaseError("failed to list packages", err)
	}
	if pkgs == nil {
		pkgs = []*entity.Package{}
	}
	return pkgs, nil
}

func loadPackage(ctx context.Context, repo entity.PackageRepositoryInterface, id string) (*entity.Package, error) {
	if id == "" {
		return nil, InvalidArgument("package id is required")
	}
	pkg, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NotFound("package not found: " + id)
		}
		return nil, DatabaseError("failed to load package", err)
	}
	return pkg, nil
}
