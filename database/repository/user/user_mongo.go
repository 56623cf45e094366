// File: database/repository/user/user_mongo.go
package userRepo

import (
	"context"
	"errors"
	"fmt"

	"civicdesk/database"
	"civicdesk/models"
	"civicdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	repo := &MongoUserRepo{coll: database.Collection("users")}

	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create user indexes", zap.Error(err))
	}
	return repo
}

// GetByID retrieves a user by its ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

// FindApprovedByRole projects only identifiers; callers need nothing else to address a notification.
func (r *MongoUserRepo) FindApprovedByRole(ctx context.Context, role string) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	filter := bson.M{"role": role, "status": models.StatusApproved}
	opts := options.Find().SetProjection(bson.M{"id": 1, "role": 1})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s users: %w", role, err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode %s users: %w", role, err)
	}
	return users, nil
}

// FindApprovedHead looks a head up by the department name stored on the user.
func (r *MongoUserRepo) FindApprovedHead(ctx context.Context, departmentName string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	filter := bson.M{
		"role":           models.RoleHead,
		"departmentName": departmentName,
		"status":         models.StatusApproved,
	}
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch head of %s: %w", departmentName, err)
	}
	return &user, nil
}
