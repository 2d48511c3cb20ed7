package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const minAdminPasswordLength = 12

type BootstrapAdminInput struct {
	Email    string
	Name     string
	Password string // generated when empty
	Role     entity.Role
	Reset    bool // rotate the password of an existing admin
}

type BootstrapAdminOutput struct {
	User     *entity.User
	Password string
	Created  bool
}

// BootstrapAdminUseCase creates the first admin login, or rotates an existing
// admin's password when asked to.
type BootstrapAdminUseCase struct {
	Users  entity.UserRepositoryInterface
	Hasher PasswordHasher
	Now    func() time.Time
}

func NewBootstrapAdminUseCase(users entity.UserRepositoryInterface, hasher PasswordHasher) *BootstrapAdminUseCase {
	return &BootstrapAdminUseCase{Users: users, Hasher: hasher, Now: time.Now}
}

func (uc *BootstrapAdminUseCase) Execute(ctx context.Context, input BootstrapAdminInput) (*BootstrapAdminOutput, error) {
	if input.Role == "" {
		input.Role = entity.RoleAdmin
	}
	if !input.Role.IsAdmin() {
		return nil, InvalidArgument("role must be admin or super_admin")
	}

	var errs []ValidationError
	errs = append(errs, validateEmail("email", input.Email)...)
	errs = append(errs, validateName("name", input.Name)...)
	if input.Password != "" && len(input.Password) < minAdminPasswordLength {
		errs = append(errs, ValidationError{"password", "must be at least 12 characters"})
	}
	if len(errs) > 0 {
		return nil, validationFailure(errs)
	}

	password := input.Password
	if password == "" {
		generated, err := GeneratePassword(16)
		if err != nil {
			return nil, DependencyFailure("failed to generate password", err)
		}
		password = generated
	}
	hash, err := uc.Hasher.Hash(password)
	if err != nil {
		return nil, DependencyFailure("failed to hash password", err)
	}

	now := uc.Now()
	existing, err := uc.Users.FindByEmail(ctx, entity.NormalizeEmail(input.Email))
	switch {
	case err == nil:
		if !existing.Role.IsAdmin() {
			return nil, Conflict("email belongs to a non-admin account")
		}
		if !input.Reset {
			return nil, Conflict("admin already exists")
		}
		existing.PasswordHash = hash
		existing.UpdatedAt = now
		if err := uc.Users.Update(ctx, existing); err != nil {
			return nil, DatabaseError("failed to update admin", err)
		}
		return &BootstrapAdminOutput{User: existing, Password: password}, nil
	case !errors.Is(err, entity.ErrNotFound):
		return nil, DatabaseError("failed to look up user", err)
	}

	user, err := entity.NewUser(input.Email, input.Name, hash, input.Role, now)
	if err != nil {
		return nil, InvalidArgument(err.Error())
	}
	user.IsEmailVerified = true

	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrDuplicateKey) {
			return nil, Conflict("admin already exists")
		}
		return nil, DatabaseError("failed to create admin", err)
	}
	return &BootstrapAdminOutput{User: user, Password: password, Created: true}, nil
}
