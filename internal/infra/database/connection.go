package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	leadsCollection         = "leads"
	organizationsCollection = "organizations"
	usersCollection         = "users"
	packagesCollection      = "packages"
)

// NewMongoConnection connects and pings the primary before handing the database out.
func NewMongoConnection(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, client.Database(dbName), nil
}

// HealthCheck pings the primary for the /health endpoint.
type HealthCheck struct {
	Client *mongo.Client
}

func (h HealthCheck) Ping(ctx context.Context) error {
	return h.Client.Ping(ctx, readpref.Primary())
}

// translate maps driver errors onto the entity sentinels the use cases expect.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return entity.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", entity.ErrDuplicateKey, err)
	}
	return err
}

func pageOptions(page, limit int) (skip, size int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return int64((page - 1) * limit), int64(limit)
}
