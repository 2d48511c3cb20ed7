package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

// CreateOrganizationUseCase provisions a tenant directly, without a lead.
type CreateOrganizationUseCase struct {
	Mailer      EmailService
	Now         func() time.Time
	MailTimeout time.Duration

	provisioner tenantProvisioner
}

func NewCreateOrganizationUseCase(
	organizations entity.OrganizationRepositoryInterface,
	users entity.UserRepositoryInterface,
	packages entity.PackageRepositoryInterface,
	hasher PasswordHasher,
	mailer EmailService,
) *CreateOrganizationUseCase {
	return &CreateOrganizationUseCase{
		Mailer:      mailer,
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

func (uc *CreateOrganizationUseCase) Execute(ctx context.Context, input CreateOrganizationInput) (*CreateOrganizationOutput, error) {
	if errs := ValidateCreateOrganizationInput(input); len(errs) > 0 {
		return nil, validationFailure(errs)
	}
	if err := uc.provisioner.ensureNameAvailable(ctx, input.Organization.Name); err != nil {
		return nil, err
	}

	draft, err := uc.provisioner.draft(ctx, input.Organization, input.OwnerName, uc.Now())
	if err != nil {
		return nil, err
	}

	txn := NewTransaction()
	uc.provisioner.addSteps(txn, draft)
	if err := txn.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			return nil, Conflict("organization or user already exists")
		}
		return nil, DatabaseError("failed to create organization", err)
	}

	log.Info().Str("organization_id", draft.org.ID).Str("user_id", draft.owner.ID).Msg("organization created")

	out := &CreateOrganizationOutput{Organization: draft.org, User: draft.owner}
	if err := sendCredentials(ctx, uc.Mailer, uc.MailTimeout, draft); err != nil {
		log.Warn().Err(err).Str("user_id", draft.owner.ID).Msg("credentials email failed")
		metrics.RecordNotificationFailure("email")
		out.Warnings = append(out.Warnings, "credentials email could not be delivered; resend them manually")
	}
	return out, nil
}

type GetOrganizationUseCase struct {
	Repo entity.OrganizationRepositoryInterface
}

func NewGetOrganizationUseCase(repo entity.OrganizationRepositoryInterface) *GetOrganizationUseCase {
	return &GetOrganizationUseCase{Repo: repo}
}

func (uc *GetOrganizationUseCase) Execute(ctx context.Context, id string) (*entity.Organization, error) {
	return loadOrganization(ctx, uc.Repo, id)
}

type ListOrganizationsOutput struct {
	Organizations []*entity.Organization `json:"organizations"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

type ListOrganizationsUseCase struct {
	Repo entity.OrganizationRepositoryInterface
}

func NewListOrganizationsUseCase(repo entity.OrganizationRepositoryInterface) *ListOrganizationsUseCase {
	return &ListOrganizationsUseCase{Repo: repo}
}

func (uc *ListOrganizationsUseCase) Execute(ctx context.Context, page, limit int) (*ListOrganizationsOutput, error) {
	page, limit = normalizePage(page, limit)

	orgs, total, err := uc.Repo.List(ctx, page, limit)
	if err != nil {
		return nil, DatabaseError("failed to list organizations", err)
	}
	if orgs == nil {
		orgs = []*entity.Organization{}
	}
	return &ListOrganizationsOutput{Organizations: orgs, Total: total, Page: page, Limit: limit}, nil
}

// AssignCustomPackageUseCase signs a new contract for an existing tenant.
type AssignCustomPackageUseCase struct {
	Organizations entity.OrganizationRepositoryInterface
	Packages      entity.PackageRepositoryInterface
	Now           func() time.Time
}

func NewAssignCustomPackageUseCase(organizations entity.OrganizationRepositoryInterface, packages entity.PackageRepositoryInterface) *AssignCustomPackageUseCase {
	return &AssignCustomPackageUseCase{Organizations: organizations, Packages: packages, Now: time.Now}
}

func (uc *AssignCustomPackageUseCase) Execute(ctx context.Context, organizationID, packageID string) (*entity.Organization, error) {
	if packageID == "" {
		return nil, InvalidArgument("package id is required")
	}

	org, err := loadOrganization(ctx, uc.Organizations, organizationID)
	if err != nil {
		return nil, err
	}
	pkg, err := loadPackage(ctx, uc.Packages, packageID)
	if err != nil {
		return nil, err
	}
	if !pkg.Active {
		return nil, InvalidArgument("package is not active: " + packageID)
	}
	if pkg.Segment != org.Segment {
		return nil, InvalidArgument("package segment " + string(pkg.Segment) + " does not match organization segment " + string(org.Segment))
	}

	org.AttachPackage(pkg, uc.Now())
	if err := uc.Organizations.Update(ctx, org); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NotFound("organization not found: " + organizationID)
		}
		return nil, DatabaseError("failed to update organization", err)
	}
	return org, nil
}

func loadOrganization(ctx context.Context, repo entity.OrganizationRepositoryInterface, id string) (*entity.Organization, error) {
	if id == "" {
		return nil, InvalidArgument("organization id is required")
	}
	org, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, NotFound("organization not found: " + id)
		}
		return nil, DatabaseError("failed to load organization", err)
	}
	return org, nil
}
