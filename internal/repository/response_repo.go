package repository

import (
	"campuspolls/internal/model"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateKey is returned when an insert violates a unique index
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotFound is returned when a targeted write matched no document
	ErrNotFound = errors.New("not found")
)

// ResponseRepo handles MongoDB operations for user responses
type ResponseRepo interface {
	Create(ctx context.Context, response *model.UserResponse) error
	GetByUserAndPrompt(ctx context.Context, userID, promptID string) (*model.UserResponse, error)
	GetByPromptID(ctx context.Context, promptID string) ([]*model.UserResponse, error)
	DeleteByPromptID(ctx context.Context, promptID string) (int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

// Create inserts a response. The unique (userId, promptId) index is the
// authoritative duplicate guard; a losing concurrent insert surfaces here
// as ErrDuplicateKey.
func (r *responseRepo) Create(ctx context.Context, response *model.UserResponse) error {
	if response.ID == "" {
		response.ID = primitive.NewObjectID().Hex()
	}
	if response.RespondedAt.IsZero() {
		response.RespondedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, response)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *responseRepo) GetByUserAndPrompt(ctx context.Context, userID, promptID string) (*model.UserResponse, error) {
	var response model.UserResponse
	err := r.collection.FindOne(ctx, bson.M{"userId": userID, "promptId": promptID}).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepo) GetByPromptID(ctx context.Context, promptID string) ([]*model.UserResponse, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"promptId": promptID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []*model.UserResponse{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) DeleteByPromptID(ctx context.Context, promptID string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"promptId": promptID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
