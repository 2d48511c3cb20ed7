package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrganizationKind string

const (
	KindOrganization OrganizationKind = "organization"
	KindSchool       OrganizationKind = "school"
)

type Contact struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

type ContractStatus string

const (
	ContractActive    ContractStatus = "active"
	ContractExpired   ContractStatus = "expired"
	ContractCancelled ContractStatus = "cancelled"
)

// CustomPackage is a package contract negotiated for one tenant. It copies the
// catalog terms at signing time so later catalog edits do not alter it.
type CustomPackage struct {
	ID         string         `json:"id" bson:"id"`
	PackageID  string         `json:"packageId" bson:"packageId"`
	Name       string         `json:"name" bson:"name"`
	PriceCents int            `json:"priceCents" bson:"priceCents"`
	Seats      int            `json:"seats" bson:"seats"`
	StartsAt   time.Time      `json:"startsAt" bson:"startsAt"`
	EndsAt     time.Time      `json:"endsAt" bson:"endsAt"`
	Status     ContractStatus `json:"status" bson:"status"`
}

// Organization is a tenant (a company or a school).
type Organization struct {
	ID             string           `json:"id" bson:"_id"`
	Name           string           `json:"name" bson:"name"`
	UniqueCode     string           `json:"uniqueCode" bson:"uniqueCode"`
	Segment        Segment          `json:"segment" bson:"segment"`
	Kind           OrganizationKind `json:"kind" bson:"kind"`
	PrimaryContact Contact          `json:"primaryContact" bson:"primaryContact"`
	OwnerID        string           `json:"ownerId" bson:"ownerId"`
	MemberIDs      []string         `json:"memberIds" bson:"memberIds"`
	CustomPackages []CustomPackage  `json:"customPackages" bson:"customPackages"`
	SourceLeadID   string           `json:"sourceLeadId,omitempty" bson:"sourceLeadId,omitempty"`
	CreatedAt      time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// NewOrganization requires the owner up front: ownership is part of creation.
func NewOrganization(name, uniqueCode string, segment Segment, contact Contact, ownerID string, now time.Time) (*Organization, error) {
	org := &Organization{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(name),
		UniqueCode: uniqueCode,
		Segment:    segment,
		Kind:       KindOrganization,
		PrimaryContact: Contact{
			Name:  strings.TrimSpace(contact.Name),
			Email: NormalizeEmail(contact.Email),
		},
		OwnerID:        ownerID,
		MemberIDs:      []string{ownerID},
		CustomPackages: []CustomPackage{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if segment == SegmentB2E {
		org.Kind = KindSchool
	}

	if err := org.Validate(); err != nil {
		return nil, err
	}
	return org, nil
}

func (o *Organization) Validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	if o.UniqueCode == "" {
		return errors.New("unique code is required")
	}
	if o.OwnerID == "" {
		return errors.New("owner is required")
	}
	if o.PrimaryContact.Email == "" {
		return errors.New("primary contact email is required")
	}
	return nil
}

// AttachPackage signs a contract from a catalog package starting at now.
func (o *Organization) AttachPackage(p *Package, now time.Time) CustomPackage {
	months := p.DurationMonths
	if months <= 0 {
		months = 12
	}
	cp := CustomPackage{
		ID:         uuid.New().String(),
		PackageID:  p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Seats:      p.Seats,
		StartsAt:   now,
		EndsAt:     now.AddDate(0, months, 0),
		Status:     ContractActive,
	}
	o.CustomPackages = append(o.CustomPackages, cp)
	o.UpdatedAt = now
	return cp
}

type OrganizationRepositoryInterface interface {
	Create(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id string) (*Organization, error)
	// FindByName matches the whole name case-insensitively.
	FindByName(ctx context.Context, name string) (*Organization, error)
	ExistsByUniqueCode(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, limit int) ([]*Organization, int64, error)
}
