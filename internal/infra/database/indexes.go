package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// caseInsensitive compares strings ignoring case (ICU strength 2).
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// EnsureIndexes creates the indexes the repositories rely on. It is safe to
// call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		leadsCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}, {Key: "source", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email_source"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("status_created"),
			},
			{
				Keys:    bson.D{{Key: "segment", Value: 1}},
				Options: options.Index().SetName("segment"),
			},
		},
		organizationsCollection: {
			{
				Keys:    bson.D{{Key: "uniqueCode", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_unique_code"),
			},
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetCollation(caseInsensitive).SetName("uniq_name_ci"),
			},
		},
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email"),
			},
		},
		packagesCollection: {
			{
				Keys:    bson.D{{Key: "active", Value: 1}, {Key: "segment", Value: 1}},
				Options: options.Index().SetName("active_segment"),
			},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
