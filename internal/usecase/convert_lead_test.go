package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type convertFixture struct {
	leads  *MockLeadRepository
	orgs   *MockOrganizationRepository
	users  *MockUserRepository
	pkgs   *MockPackageRepository
	mailer *MockEmailService
	queue  *MockQueueProducer
	uc     *usecase.ConvertLeadUseCase
	lead   *entity.Lead
}

func newConvertFixture() *convertFixture {
	f := &convertFixture{
		leads:  new(MockLeadRepository),
		orgs:   new(MockOrganizationRepository),
		users:  new(MockUserRepository),
		pkgs:   new(MockPackageRepository),
		mailer: new(MockEmailService),
		queue:  new(MockQueueProducer),
		lead:   newLead("Ana Souza", "ana@acme.io"),
	}
	f.lead.Status = entity.LeadStatusHot
	f.uc = usecase.NewConvertLeadUseCase(f.leads, f.orgs, f.users, f.pkgs, fakeHasher{}, f.mailer, f.queue)
	f.uc.Now = clock
	f.leads.On("FindByID", mock.Anything, f.lead.ID).Return(f.lead, nil)
	return f
}

// happyPath wires every collaborator for a successful conversion of a new user.
func (f *convertFixture) happyPath() {
	f.orgs.On("FindByName", mock.Anything, "Acme Corp").Return(nil, entity.ErrNotFound)
	f.orgs.On("ExistsByUniqueCode", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("FindByEmail", mock.Anything, "ana@acme.io").Return(nil, entity.ErrNotFound)
	f.users.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.leads.On("Update", mock.Anything, f.lead).Return(nil)
	f.queue.On("PublishLeadConverted", mock.Anything, mock.Anything).Return(nil)
}

func convertInput(leadID string) usecase.ConvertLeadInput {
	return usecase.ConvertLeadInput{
		LeadID: leadID,
		Organization: usecase.OrganizationInput{
			Name:         "Acme Corp",
			Segment:      "B2B",
			ContactName:  "Ana Souza",
			ContactEmail: "ana@acme.io",
		},
		ActorID: "admin-1",
	}
}

func TestConvertLeadProvisionsTenant(t *testing.T) {
	f := newConvertFixture()
	f.happyPath()
	var sentPassword string
	f.mailer.On("SendCredentials", mock.Anything, "ana@acme.io", "Ana Souza", "Acme Corp", mock.Anything).
		Run(func(args mock.Arguments) { sentPassword = args.String(4) }).
		Return(nil)

	out, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	require.NoError(t, err)
	assert.Empty(t, out.Warnings)

	assert.Equal(t, entity.LeadStatusConverted, out.Lead.Status)
	assert.Equal(t, out.Organization.ID, out.Lead.ConvertedOrganizationID)
	require.NotNil(t, out.Lead.ConvertedAt)
	assert.Equal(t, fixedNow, *out.Lead.ConvertedAt)
	last := out.Lead.Timeline[len(out.Lead.Timeline)-1]
	assert.Equal(t, entity.EventConverted, last.EventType)
	assert.Equal(t, "admin-1", last.CreatedBy)

	assert.Equal(t, out.User.ID, out.Organization.OwnerID)
	assert.Equal(t, []string{out.User.ID}, out.Organization.MemberIDs)
	assert.Equal(t, f.lead.ID, out.Organization.SourceLeadID)
	assert.Regexp(t, regexp.MustCompile(`^ACM-[A-Z2-9]{6}$`), out.Organization.UniqueCode)

	assert.Equal(t, entity.RoleB2BUser, out.User.Role)
	assert.True(t, out.User.IsEmailVerified)
	assert.Equal(t, out.Organization.ID, out.User.OrganizationID)
	assert.GreaterOrEqual(t, len(sentPassword), usecase.MinPasswordLength)
	assert.Equal(t, "hashed:"+sentPassword, out.User.PasswordHash)

	f.mailer.AssertExpectations(t)
	f.queue.AssertExpectations(t)
}

func TestConvertLeadDuplicateNameDifferentCaseConflicts(t *testing.T) {
	f := newConvertFixture()
	f.orgs.On("FindByName", mock.Anything, "Acme Corp").Return(&entity.Organization{ID: "org-0", Name: "acme corp"}, nil)

	out, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	assert.Nil(t, out)
	assert.True(t, usecase.IsConflict(err))
	assert.Equal(t, entity.LeadStatusHot, f.lead.Status)
	f.leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.orgs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConvertLeadDisplayNameContactReusesExistingUser(t *testing.T) {
	f := newConvertFixture()
	existing := &entity.User{ID: "user-7", Email: "ana@acme.io", Name: "Ana", PasswordHash: "old", Role: entity.RoleUser}
	f.orgs.On("FindByName", mock.Anything, "Acme Corp").Return(nil, entity.ErrNotFound)
	f.orgs.On("ExistsByUniqueCode", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("FindByEmail", mock.Anything, "ana@acme.io").Return(existing, nil)
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.orgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.leads.On("Update", mock.Anything, f.lead).Return(nil)
	f.queue.On("PublishLeadConverted", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendCredentials", mock.Anything, "ana@acme.io", mock.Anything, "Acme Corp", mock.Anything).Return(nil)

	in := convertInput(f.lead.ID)
	in.Organization.ContactEmail = "Ana Souza <Ana@Acme.io>"
	out, err := f.uc.Execute(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "user-7", out.User.ID)
	assert.Equal(t, "ana@acme.io", out.Organization.PrimaryContact.Email)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.mailer.AssertExpectations(t)
}

func TestConvertLeadTwiceIsRejected(t *testing.T) {
	f := newConvertFixture()
	f.happyPath()
	f.mailer.On("SendCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	assert.True(t, usecase.IsConflict(err))
	f.orgs.AssertNumberOfCalls(t, "Create", 1)
	f.users.AssertNumberOfCalls(t, "Create", 1)
	f.leads.AssertNumberOfCalls(t, "Update", 1)
}

func TestConvertLostLeadIsRejected(t *testing.T) {
	f := newConvertFixture()
	f.lead.Status = entity.LeadStatusLost

	_, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	assert.True(t, usecase.IsConflict(err))
	f.orgs.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
}

func TestConvertUnknownLeadIsNotFound(t *testing.T) {
	f := newConvertFixture()
	f.leads.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrNotFound)

	_, err := f.uc.Execute(context.Background(), convertInput("missing"))

	assert.True(t, usecase.IsNotFound(err))
}

func TestConvertLeadValidatesInput(t *testing.T) {
	f := newConvertFixture()
	in := convertInput(f.lead.ID)
	in.Organization.ContactEmail = "not-an-email"

	_, err := f.uc.Execute(context.Background(), in)

	assert.Equal(t, usecase.CodeValidation, usecase.ErrorCode(err))
	f.leads.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestConvertLeadMailerFailureIsWarning(t *testing.T) {
	f := newConvertFixture()
	f.happyPath()
	f.mailer.On("SendCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp: 421 service not available"))

	out, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	require.NoError(t, err)
	assert.Len(t, out.Warnings, 1)
	assert.Equal(t, entity.LeadStatusConverted, out.Lead.Status)
	f.orgs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestConvertLeadReprovisionsExistingUser(t *testing.T) {
	f := newConvertFixture()
	existing := &entity.User{
		ID:           "user-7",
		Email:        "ana@acme.io",
		Name:         "Ana",
		PasswordHash: "old-hash",
		Role:         entity.RoleUser,
	}
	f.orgs.On("FindByName", mock.Anything, "Acme Corp").Return(nil, entity.ErrNotFound)
	f.orgs.On("ExistsByUniqueCode", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("FindByEmail", mock.Anything, "ana@acme.io").Return(existing, nil)
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.orgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.leads.On("Update", mock.Anything, f.lead).Return(nil)
	f.queue.On("PublishLeadConverted", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("SendCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	require.NoError(t, err)
	assert.Equal(t, "user-7", out.User.ID)
	assert.NotEqual(t, "old-hash", out.User.PasswordHash)
	assert.True(t, out.User.IsEmailVerified)
	assert.Equal(t, entity.RoleB2BUser, out.User.Role)
	assert.Equal(t, "user-7", out.Organization.OwnerID)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.users.AssertNumberOfCalls(t, "Update", 2)
}

func TestConvertLeadRejectsAdministratorContact(t *testing.T) {
	f := newConvertFixture()
	admin := &entity.User{ID: "admin-9", Email: "ana@acme.io", PasswordHash: "x", Role: entity.RoleAdmin}
	f.orgs.On("FindByName", mock.Anything, "Acme Corp").Return(nil, entity.ErrNotFound)
	f.users.On("FindByEmail", mock.Anything, "ana@acme.io").Return(admin, nil)

	_, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	assert.True(t, usecase.IsConflict(err))
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConvertLeadRollsBackWhenOrganizationCreateFails(t *testing.T) {
	f := newConvertFixture()
	f.orgs.On("FindByName", mock.Anything, "Acme Corp").Return(nil, entity.ErrNotFound)
	f.orgs.On("ExistsByUniqueCode", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("FindByEmail", mock.Anything, "ana@acme.io").Return(nil, entity.ErrNotFound)
	f.users.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.users.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.orgs.On("Create", mock.Anything, mock.Anything).Return(errors.New("write concern error"))

	_, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	assert.True(t, usecase.IsTechnicalError(err))
	assert.Equal(t, entity.LeadStatusHot, f.lead.Status)
	f.users.AssertNumberOfCalls(t, "Delete", 1)
	f.leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.mailer.AssertNotCalled(t, "SendCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConvertLeadRestoresExistingUserWhenLeadUpdateFails(t *testing.T) {
	f := newConvertFixture()
	existing := &entity.User{ID: "user-7", Email: "ana@acme.io", PasswordHash: "old-hash", Role: entity.RoleUser}
	f.orgs.On("FindByName", mock.Anything, "Acme Corp").Return(nil, entity.ErrNotFound)
	f.orgs.On("ExistsByUniqueCode", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("FindByEmail", mock.Anything, "ana@acme.io").Return(existing, nil)
	f.users.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.orgs.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orgs.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.leads.On("Update", mock.Anything, f.lead).Return(errors.New("timeout"))

	_, err := f.uc.Execute(context.Background(), convertInput(f.lead.ID))

	require.Error(t, err)
	f.orgs.AssertNumberOfCalls(t, "Delete", 1)

	calls := f.users.Calls
	restored := calls[len(calls)-1].Arguments.Get(1).(*entity.User)
	assert.Equal(t, "old-hash", restored.PasswordHash)
	assert.Equal(t, entity.RoleUser, restored.Role)
	assert.Empty(t, restored.OrganizationID)
}

func TestConvertLeadAttachesCatalogPackage(t *testing.T) {
	f := newConvertFixture()
	f.happyPath()
	f.mailer.On("SendCredentials", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	pkg := entity.NewPackage("Team 50", entity.SegmentB2B, 990000, 50, 12, nil, fixedNow)
	f.pkgs.On("FindByID", mock.Anything, pkg.ID).Return(pkg, nil)
	in := convertInput(f.lead.ID)
	in.Organization.PackageID = pkg.ID

	out, err := f.uc.Execute(context.Background(), in)

	require.NoError(t, err)
	require.Len(t, out.Organization.CustomPackages, 1)
	cp := out.Organization.CustomPackages[0]
	assert.Equal(t, pkg.ID, cp.PackageID)
	assert.Equal(t, 50, cp.Seats)
	assert.Equal(t, fixedNow.AddDate(1, 0, 0), cp.EndsAt)
}

func TestConvertLeadRejectsPackageFromOtherSegment(t *testing.T) {
	f := newConvertFixture()
	f.orgs.On("FindByName", mock.Anything, "Acme Corp").Return(nil, entity.ErrNotFound)
	pkg := entity.NewPackage("Campus", entity.SegmentB2E, 10000, 200, 12, nil, fixedNow)
	f.pkgs.On("FindByID", mock.Anything, pkg.ID).Return(pkg, nil)
	in := convertInput(f.lead.ID)
	in.Organization.PackageID = pkg.ID

	_, err := f.uc.Execute(context.Background(), in)

	assert.True(t, usecase.IsInvalidArgument(err))
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
