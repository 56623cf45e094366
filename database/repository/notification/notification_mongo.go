package notificationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"civicdesk/database"
	"civicdesk/models"
	"civicdesk/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoNotificationRepo implements NotificationRepository using MongoDB.
type MongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo creates a new instance of NotificationRepository using MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	repo := &MongoNotificationRepo{coll: database.Collection("notifications")}

	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create notification indexes", zap.Error(err))
	}
	return repo
}

// InsertMany stores the batch in a single round trip.
func (r *MongoNotificationRepo) InsertMany(ctx context.Context, docs []models.Notification) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	stampBatch(docs, time.Now())
	batch := make([]interface{}, 0, len(docs))
	for i := range docs {
		batch = append(batch, docs[i])
	}

	res, err := r.coll.InsertMany(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("failed to insert notifications: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// stampBatch fills ids, priorities and timestamps. Unset creation times advance one
// millisecond per document, the resolution Mongo stores, so a batch sorts in insertion order.
func stampBatch(docs []models.Notification, now time.Time) {
	now = now.Truncate(time.Millisecond)
	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = uuid.New().String()
		}
		if docs[i].CreatedAt.IsZero() {
			docs[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		}
		docs[i].UpdatedAt = docs[i].CreatedAt
		if docs[i].Priority == "" {
			docs[i].Priority = models.DefaultNotificationPriority
		}
	}
}

// newestFirst orders by creation time, breaking ties on id so a limit boundary is stable.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: -1}}

// Find runs the department filter sorted by creation time, newest first.
func (r *MongoNotificationRepo) Find(ctx context.Context, filter Filter, limit int) ([]models.Notification, error) {
	return r.find(ctx, filter.BSON(), limit)
}

// FindByRecipient lists notifications addressed to one user.
func (r *MongoNotificationRepo) FindByRecipient(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return r.find(ctx, recipientFilter(userID), limit)
}

func (r *MongoNotificationRepo) find(ctx context.Context, query bson.M, limit int) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// FindByID fetches a notification by its ID.
func (r *MongoNotificationRepo) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	var n models.Notification
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch notification %s: %w", id, err)
	}
	return &n, nil
}

// CountUnread counts unread notifications addressed to the user.
func (r *MongoNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	query := recipientFilter(userID)
	query["read"] = false
	count, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for %s: %w", userID, err)
	}
	return count, nil
}

// MarkRead flips read to true. A second call matches the same document and succeeds.
func (r *MongoNotificationRepo) MarkRead(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read.
func (r *MongoNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	query := recipientFilter(userID)
	query["read"] = false
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateMany(ctx, query, update)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read for %s: %w", userID, err)
	}
	return res.ModifiedCount, nil
}

// Delete removes a notification document by its ID.
func (r *MongoNotificationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func recipientFilter(userID string) bson.M {
	return bson.M{
		"recipient.kind":   models.RecipientUser,
		"recipient.userId": userID,
	}
}
