package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleB2BUser    Role = "b2b_user"
	RoleB2EUser    Role = "b2e_user"
	RoleUser       Role = "user"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// RoleForSegment picks the tenant owner role provisioned on conversion.
func RoleForSegment(s Segment) Role {
	switch s {
	case SegmentB2B:
		return RoleB2BUser
	case SegmentB2E:
		return RoleB2EUser
	}
	return RoleUser
}

// User is a login identity. Admins are users with an admin role.
type User struct {
	ID              string    `json:"id" bson:"_id"`
	Email           string    `json:"email" bson:"email"`
	Name            string    `json:"name" bson:"name"`
	PasswordHash    string    `json:"-" bson:"passwordHash"`
	Role            Role      `json:"role" bson:"role"`
	OrganizationID  string    `json:"organizationId,omitempty" bson:"organizationId,omitempty"`
	IsEmailVerified bool      `json:"isEmailVerified" bson:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

func NewUser(email, name, passwordHash string, role Role, now time.Time) (*User, error) {
	u := &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(email),
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if u.Role == "" {
		return errors.New("role is required")
	}
	return nil
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByEmail is case-insensitive.
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}
