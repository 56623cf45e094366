package problemRepo

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
)

type mongoProblemRepo struct {
	coll *mongo.Collection
}

// NewMongoProblemRepo returns a new ProblemRepository instance using MongoDB.
func NewMongoProblemRepo() ProblemRepository {
	return &mongoProblemRepo{coll: database.Collection("problems")}
}

// Create inserts a new problem, assigning its ID and timestamps.
func (r *mongoProblemRepo) Create(ctx context.Context, problem *models.Problem) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	if problem.ID == "" {
		problem.ID = uuid.New().String()
	}
	now := time.Now()
	problem.CreatedAt = now
	problem.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, problem); err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}
	return nil
}

// GetByID returns a problem by its ID.
func (r *mongoProblemRepo) GetByID(ctx context.Context, id string) (*models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	var problem models.Problem
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&problem); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch problem %s: %w", id, err)
	}
	return &problem, nil
}

// UpdateStatus returns the document as it is after the update.
func (r *mongoProblemRepo) UpdateStatus(ctx context.Context, id, status, department string) (*models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": time.Now()}
	if department != "" {
		set["department"] = department
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var problem models.Problem
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&problem)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update problem %s: %w", id, err)
	}
	return &problem, nil
}
