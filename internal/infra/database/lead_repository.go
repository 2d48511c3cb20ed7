package database

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	coll *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{coll: db.Collection(leadsCollection)}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	_, err := r.coll.InsertOne(ctx, lead)
	return translate(err)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&lead); err != nil {
		return nil, translate(err)
	}
	return &lead, nil
}

func (r *LeadRepository) FindByEmailAndSource(ctx context.Context, email string, source entity.LeadSource) (*entity.Lead, error) {
	var lead entity.Lead
	filter := bson.M{"email": entity.NormalizeEmail(email), "source": source}
	if err := r.coll.FindOne(ctx, filter).Decode(&lead); err != nil {
		return nil, translate(err)
	}
	return &lead, nil
}

// Update replaces the whole document, so the mutation and its timeline
// entries land in one write.
func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": lead.ID}, lead)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *LeadRepository) List(ctx context.Context, f entity.LeadFilter) ([]*entity.Lead, int64, error) {
	filter := buildLeadFilter(f)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip, limit := pageOptions(f.Page, f.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	leads := []*entity.Lead{}
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *LeadRepository) CountByStatus(ctx context.Context) (map[entity.LeadStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[entity.LeadStatus]int64, len(rows))
	for _, row := range rows {
		counts[entity.LeadStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// buildLeadFilter turns list criteria into a query. Search terms are escaped
// before being used as a pattern.
func buildLeadFilter(f entity.LeadFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Segment != "" {
		filter["segment"] = f.Segment
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"organizationName": pattern},
		}
	}
	return filter
}
