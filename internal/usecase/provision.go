package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	uniqueCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	uniqueCodeLength   = 6
	uniqueCodeAttempts = 5

	generatedPasswordLength = 16
)

// tenantProvisioner holds what direct creation and lead conversion share: the
// name guard, owner provisioning and the organization document itself.
type tenantProvisioner struct {
	Organizations entity.OrganizationRepositoryInterface
	Users         entity.UserRepositoryInterface
	Packages      entity.PackageRepositoryInterface
	Hasher        PasswordHasher
}

// tenantDraft is everything needed to write a new tenant, built before any write happens.
type tenantDraft struct {
	org      *entity.Organization
	owner    *entity.User
	previous *entity.User // snapshot of a pre-existing owner, nil when the owner is new
	password string
}

func (p *tenantProvisioner) ensureNameAvailable(ctx context.Context, name string) error {
	existing, err := p.Organizations.FindByName(ctx, strings.TrimSpace(name))
	if err == nil && existing != nil {
		return Conflict("an organization named '" + existing.Name + "' already exists")
	}
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return DatabaseError("failed to check organization name", err)
	}
	return nil
}

// draft resolves the owner (existing or new), generates fresh credentials and
// builds the organization. Nothing is persisted.
func (p *tenantProvisioner) draft(ctx context.Context, in OrganizationInput, ownerName string, now time.Time) (*tenantDraft, error) {
	segment := entity.Segment(in.Segment)

	var pkg *entity.Package
	if in.PackageID != "" {
		found, err := p.Packages.FindByID(ctx, in.PackageID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				return nil, NotFound("package not found: " + in.PackageID)
			}
			return nil, DatabaseError("failed to load package", err)
		}
		if !found.Active {
			return nil, InvalidArgument("package is not active: " + in.PackageID)
		}
		if found.Segment != segment {
			return nil, InvalidArgument("package segment " + string(found.Segment) + " does not match organization segment " + string(segment))
		}
		pkg = found
	}

	password, err := GeneratePassword(generatedPasswordLength)
	if err != nil {
		return nil, DependencyFailure("failed to generate password", err)
	}
	hash, err := p.Hasher.Hash(password)
	if err != nil {
		return nil, DependencyFailure("failed to hash password", err)
	}

	d := &tenantDraft{password: password}
	role := entity.RoleForSegment(segment)

	existing, err := p.Users.FindByEmail(ctx, entity.NormalizeEmail(in.ContactEmail))
	switch {
	case err == nil:
		if existing.Role.IsAdmin() {
			return nil, Conflict("contact email belongs to an administrator account")
		}
		snapshot := *existing
		d.previous = &snapshot
		existing.PasswordHash = hash
		existing.IsEmailVerified = true
		existing.Role = role
		existing.UpdatedAt = now
		if existing.Name == "" {
			existing.Name = ownerName
		}
		d.owner = existing
	case errors.Is(err, entity.ErrNotFound):
		u, err := entity.NewUser(in.ContactEmail, ownerName, hash, role, now)
		if err != nil {
			return nil, InvalidArgument(err.Error())
		}
		u.IsEmailVerified = true
		d.owner = u
	default:
		return nil, DatabaseError("failed to look up user", err)
	}

	code, err := p.generateUniqueCode(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	org, err := entity.NewOrganization(in.Name, code, segment,
		entity.Contact{Name: in.ContactName, Email: in.ContactEmail}, d.owner.ID, now)
	if err != nil {
		return nil, InvalidArgument(err.Error())
	}
	if pkg != nil {
		org.AttachPackage(pkg, now)
	}
	d.org = org

	return d, nil
}

// addSteps registers owner upsert, organization creation and owner linking,
// each with its compensation.
func (p *tenantProvisioner) addSteps(txn *Transaction, d *tenantDraft) {
	if d.previous == nil {
		txn.AddOperation("create_owner",
			func(ctx context.Context) error { return p.Users.Create(ctx, d.owner) },
			func(ctx context.Context) error { return p.Users.Delete(ctx, d.owner.ID) },
		)
	} else {
		txn.AddOperation("update_owner",
			func(ctx context.Context) error { return p.Users.Update(ctx, d.owner) },
			func(ctx context.Context) error { return p.Users.Update(ctx, d.previous) },
		)
	}

	txn.AddOperation("create_organization",
		func(ctx context.Context) error { return p.Organizations.Create(ctx, d.org) },
		func(ctx context.Context) error { return p.Organizations.Delete(ctx, d.org.ID) },
	)

	txn.AddOperation("link_owner", func(ctx context.Context) error {
		d.owner.OrganizationID = d.org.ID
		return p.Users.Update(ctx, d.owner)
	}, nil)
}

// generateUniqueCode builds PREFIX-XXXXXX codes, retrying on collisions.
func (p *tenantProvisioner) generateUniqueCode(ctx context.Context, name string) (string, error) {
	prefix := codePrefix(name)
	for i := 0; i < uniqueCodeAttempts; i++ {
		suffix, err := randomString(uniqueCodeAlphabet, uniqueCodeLength)
		if err != nil {
			return "", DependencyFailure("failed to generate organization code", err)
		}
		code := prefix + "-" + suffix

		taken, err := p.Organizations.ExistsByUniqueCode(ctx, code)
		if err != nil {
			return "", DatabaseError("failed to check organization code", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", Conflict(fmt.Sprintf("could not allocate a unique organization code after %d attempts", uniqueCodeAttempts))
}

func codePrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	if b.Len() < 3 {
		return "ORG"
	}
	return b.String()
}

func randomString(alphabet string, n int) (string, error) {
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
