package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func TestCreateOrganizationForSchool(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	users := new(MockUserRepository)
	mailer := new(MockEmailService)
	orgs.On("FindByName", mock.Anything, "Colegio Horizonte").Return(nil, entity.ErrNotFound)
	orgs.On("ExistsByUniqueCode", mock.Anything, mock.Anything).Return(true, nil).Once()
	orgs.On("ExistsByUniqueCode", mock.Anything, mock.Anything).Return(false, nil)
	orgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("FindByEmail", mock.Anything, "dir@horizonte.edu").Return(nil, entity.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)
	mailer.On("SendCredentials", mock.Anything, "dir@horizonte.edu", "Marta", "Colegio Horizonte", mock.Anything).Return(nil)

	uc := usecase.NewCreateOrganizationUseCase(orgs, users, new(MockPackageRepository), fakeHasher{}, mailer)
	uc.Now = clock

	out, err := uc.Execute(context.Background(), usecase.CreateOrganizationInput{
		Organization: usecase.OrganizationInput{
			Name:         "Colegio Horizonte",
			Segment:      "B2E",
			ContactName:  "Marta",
			ContactEmail: "dir@horizonte.edu",
		},
		OwnerName: "Marta",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.KindSchool, out.Organization.Kind)
	assert.Equal(t, entity.RoleB2EUser, out.User.Role)
	assert.Regexp(t, `^COL-`, out.Organization.UniqueCode)
	orgs.AssertNumberOfCalls(t, "ExistsByUniqueCode", 2)
	mailer.AssertExpectations(t)
}

func TestCreateOrganizationDuplicateName(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	orgs.On("FindByName", mock.Anything, "Acme").Return(&entity.Organization{Name: "ACME"}, nil)

	uc := usecase.NewCreateOrganizationUseCase(orgs, new(MockUserRepository), new(MockPackageRepository), fakeHasher{}, nil)
	_, err := uc.Execute(context.Background(), usecase.CreateOrganizationInput{
		Organization: usecase.OrganizationInput{Name: "Acme", Segment: "B2B", ContactName: "Ana", ContactEmail: "ana@acme.io"},
		OwnerName:    "Ana",
	})

	assert.True(t, usecase.IsConflict(err))
}

func TestGetOrganizationNotFound(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	orgs.On("FindByID", mock.Anything, "org-1").Return(nil, entity.ErrNotFound)

	_, err := usecase.NewGetOrganizationUseCase(orgs).Execute(context.Background(), "org-1")

	assert.True(t, usecase.IsNotFound(err))
}

func TestListOrganizationsDefaultsPage(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	orgs.On("List", mock.Anything, 1, 20).Return([]*entity.Organization{}, int64(0), nil)

	out, err := usecase.NewListOrganizationsUseCase(orgs).Execute(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.NotNil(t, out.Organizations)
	assert.Equal(t, 20, out.Limit)
}

func TestAssignCustomPackage(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	pkgs := new(MockPackageRepository)
	org := &entity.Organization{ID: "org-1", Name: "Acme", Segment: entity.SegmentB2B}
	pkg := entity.NewPackage("Team 10", entity.SegmentB2B, 19900, 10, 6, []string{"sso"}, fixedNow)
	orgs.On("FindByID", mock.Anything, "org-1").Return(org, nil)
	orgs.On("Update", mock.Anything, org).Return(nil)
	pkgs.On("FindByID", mock.Anything, pkg.ID).Return(pkg, nil)

	uc := usecase.NewAssignCustomPackageUseCase(orgs, pkgs)
	uc.Now = clock
	got, err := uc.Execute(context.Background(), "org-1", pkg.ID)

	require.NoError(t, err)
	require.Len(t, got.CustomPackages, 1)
	assert.Equal(t, entity.ContractActive, got.CustomPackages[0].Status)
	assert.Equal(t, fixedNow.AddDate(0, 6, 0), got.CustomPackages[0].EndsAt)
}

func TestAssignInactivePackageIsRejected(t *testing.T) {
	orgs := new(MockOrganizationRepository)
	pkgs := new(MockPackageRepository)
	pkg := entity.NewPackage("Legacy", entity.SegmentB2B, 100, 1, 12, nil, fixedNow)
	pkg.Active = false
	orgs.On("FindByID", mock.Anything, "org-1").Return(&entity.Organization{ID: "org-1", Segment: entity.SegmentB2B}, nil)
	pkgs.On("FindByID", mock.Anything, pkg.ID).Return(pkg, nil)

	_, err := usecase.NewAssignCustomPackageUseCase(orgs, pkgs).Execute(context.Background(), "org-1", pkg.ID)

	assert.True(t, usecase.IsInvalidArgument(err))
	orgs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCreatePackageTrimsFeatures(t *testing.T) {
	pkgs := new(MockPackageRepository)
	pkgs.On("Create", mock.Anything, mock.Anything).Return(nil)

	pkg, err := usecase.NewCreatePackageUseCase(pkgs).Execute(context.Background(), usecase.CreatePackageInput{
		Name: "Team 50", Segment: "B2B", PriceCents: 49900, Seats: 50, DurationMonths: 12,
		Features: []string{" sso ", "", "audit-log"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"sso", "audit-log"}, pkg.Features)
	assert.True(t, pkg.Active)
}

func TestCreatePackageValidation(t *testing.T) {
	_, err := usecase.NewCreatePackageUseCase(new(MockPackageRepository)).Execute(context.Background(), usecase.CreatePackageInput{
		Name: "X", Segment: "B2C", Seats: 0,
	})

	assert.Equal(t, usecase.CodeValidation, usecase.ErrorCode(err))
}

func TestListPackagesStoreFailure(t *testing.T) {
	pkgs := new(MockPackageRepository)
	pkgs.On("List", mock.Anything, true).Return(nil, errors.New("boom"))

	_, err := usecase.NewListPackagesUseCase(pkgs).Execute(context.Background(), true)

	assert.Equal(t, usecase.CodeDatabase, usecase.ErrorCode(err))
}
