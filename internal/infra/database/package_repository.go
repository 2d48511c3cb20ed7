package database

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type PackageRepository struct {
	coll *mongo.Collection
}

func NewPackageRepository(db *mongo.Database) *PackageRepository {
	return &PackageRepository{coll: db.Collection(packagesCollection)}
}

func (r *PackageRepository) Create(ctx context.Context, p *entity.Package) error {
	_, err := r.coll.InsertOne(ctx, p)
	return translate(err)
}

func (r *PackageRepository) FindByID(ctx context.Context, id string) (*entity.Package, error) {
	var p entity.Package
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PackageRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Package, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "segment", Value: 1}, {Key: "priceCents", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	pkgs := []*entity.Package{}
	if err := cursor.All(ctx, &pkgs); err != nil {
		return nil, err
	}
	return pkgs, nil
}
