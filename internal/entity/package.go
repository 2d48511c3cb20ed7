package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Package is a catalog offer that organizations contract as CustomPackages.
type Package struct {
	ID             string    `json:"id" bson:"_id"`
	Name           string    `json:"name" bson:"name"`
	Segment        Segment   `json:"segment" bson:"segment"`
	PriceCents     int       `json:"priceCents" bson:"priceCents"`
	Seats          int       `json:"seats" bson:"seats"`
	DurationMonths int       `json:"durationMonths" bson:"durationMonths"`
	Features       []string  `json:"features" bson:"features"`
	Active         bool      `json:"active" bson:"active"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

func NewPackage(name string, segment Segment, priceCents, seats, durationMonths int, features []string, now time.Time) *Package {
	if features == nil {
		features = []string{}
	}
	return &Package{
		ID:             uuid.New().String(),
		Name:           name,
		Segment:        segment,
		PriceCents:     priceCents,
		Seats:          seats,
		DurationMonths: durationMonths,
		Features:       features,
		Active:         true,
		CreatedAt:      now,
	}
}

type PackageRepositoryInterface interface {
	Create(ctx context.Context, p *Package) error
	FindByID(ctx context.Context, id string) (*Package, error)
	List(ctx context.Context, activeOnly bool) ([]*Package, error)
}
