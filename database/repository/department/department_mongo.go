package departmentRepo

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
	"go.uber.org/zap"
)

type mongoDepartmentRepo struct {
	coll *mongo.Collection
}

// NewMongoDepartmentRepo returns a new DepartmentRepository instance using MongoDB.
func NewMongoDepartmentRepo() DepartmentRepository {
	repo := &mongoDepartmentRepo{coll: database.Collection("departments")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		utils.GetLogger().Warn("failed to create department indexes", zap.Error(err))
	}
	return repo
}

// FindHead matches the department by exact name and joins its head from users.
func (r *mongoDepartmentRepo) FindHead(ctx context.Context, name string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"name": name, "headId": bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "headId",
			"foreignField": "id",
			"as":           "head",
		}}},
		{{Key: "$unwind", Value: "$head"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$head"}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to look up head of %s: %w", name, err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("failed to read head of %s: %w", name, err)
		}
		return nil, nil
	}
	var head models.User
	if err := cursor.Decode(&head); err != nil {
		return nil, fmt.Errorf("failed to decode head of %s: %w", name, err)
	}
	return &head, nil
}

// List returns every department ordered by name.
func (r *mongoDepartmentRepo) List(ctx context.Context) ([]models.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer cursor.Close(ctx)

	depts := []models.Department{}
	if err := cursor.All(ctx, &depts); err != nil {
		return nil, fmt.Errorf("failed to decode departments: %w", err)
	}
	return depts, nil
}

// SetHead assigns the head reference of a department.
func (r *mongoDepartmentRepo) SetHead(ctx context.Context, name, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"headId": userID, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"name": name}, update)
	if err != nil {
		return fmt.Errorf("failed to set head of %s: %w", name, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("department %s not found", name)
	}
	return nil
}

// Seed upserts with $setOnInsert so a configured head is never overwritten.
func (r *mongoDepartmentRepo) Seed(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(names))
	for _, name := range names {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": name}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{
				"id":        uuid.New().String(),
				"name":      name,
				"createdAt": now,
				"updatedAt": now,
			}}).
			SetUpsert(true))
	}

	if _, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to seed departments: %w", err)
	}
	return nil
}
