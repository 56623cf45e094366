package dispatchLogRepo

import (
	"context"
	"fmt"
	"time"

	"civicdesk/database"
	"civicdesk/models"
	"civicdesk/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DispatchLogRepository records the outcome of every notification dispatch.
type DispatchLogRepository interface {
	Append(ctx context.Context, record models.DispatchRecord) error
	Recent(ctx context.Context, limit int) ([]models.DispatchRecord, error)
}

type mongoDispatchLogRepo struct {
	coll *mongo.Collection
}

// NewMongoDispatchLogRepo returns a new DispatchLogRepository instance using MongoDB.
func NewMongoDispatchLogRepo() DispatchLogRepository {
	return &mongoDispatchLogRepo{coll: database.Collection("dispatch_log")}
}

func (r *mongoDispatchLogRepo) Append(ctx context.Context, record models.DispatchRecord) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to append dispatch record: %w", err)
	}
	return nil
}

func (r *mongoDispatchLogRepo) Recent(ctx context.Context, limit int) ([]models.DispatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read dispatch log: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.DispatchRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dispatch log: %w", err)
	}
	return records, nil
}
