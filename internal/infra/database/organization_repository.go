package database

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type OrganizationRepository struct {
	coll *mongo.Collection
}

func NewOrganizationRepository(db *mongo.Database) *OrganizationRepository {
	return &OrganizationRepository{coll: db.Collection(organizationsCollection)}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *entity.Organization) error {
	_, err := r.coll.InsertOne(ctx, org)
	return translate(err)
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*entity.Organization, error) {
	var org entity.Organization
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&org); err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByName(ctx context.Context, name string) (*entity.Organization, error) {
	var org entity.Organization
	if err := r.coll.FindOne(ctx, exactNameFilter(name)).Decode(&org); err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (r *OrganizationRepository) ExistsByUniqueCode(ctx context.Context, code string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"uniqueCode": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *entity.Organization) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": org.ID}, org)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *OrganizationRepository) List(ctx context.Context, page, limit int) ([]*entity.Organization, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	skip, size := pageOptions(page, limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(size))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	orgs := []*entity.Organization{}
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

// exactNameFilter matches the whole name ignoring case. The name is escaped
// so metacharacters are matched literally.
func exactNameFilter(name string) bson.M {
	return bson.M{"name": bson.M{
		"$regex":   "^" + regexp.QuoteMeta(name) + "$",
		"$options": "i",
	}}
}
