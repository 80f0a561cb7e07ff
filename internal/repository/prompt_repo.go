package repository

import (
	"campuspolls/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PromptRepo handles MongoDB operations for prompts
type PromptRepo interface {
	Create(ctx context.Context, prompt *model.Prompt) error
	GetByID(ctx context.Context, id string) (*model.Prompt, error)
	ListFeed(ctx context.Context) ([]*model.Prompt, error)
	ListReported(ctx context.Context) ([]*model.Prompt, error)
	ListArchived(ctx context.Context) ([]*model.Prompt, error)
	SetReported(ctx context.Context, id string, reported bool) error
	SetArchived(ctx context.Context, id string, archived bool) error
	Delete(ctx context.Context, id string) error
}

type promptRepo struct {
	collection *mongo.Collection
}

// NewPromptRepo creates a new prompt repository
func NewPromptRepo(db *mongo.Database) PromptRepo {
	return &promptRepo{
		collection: db.Collection("prompts"),
	}
}

func (r *promptRepo) Create(ctx context.Context, prompt *model.Prompt) error {
	if prompt.ID == "" {
		prompt.ID = primitive.NewObjectID().Hex()
	}
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, prompt)
	return err
}

func (r *promptRepo) GetByID(ctx context.Context, id string) (*model.Prompt, error) {
	var prompt model.Prompt
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&prompt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prompt, nil
}

// ListFeed returns prompts visible in the default feed: not archived and
// not auto-flagged, newest first.
func (r *promptRepo) ListFeed(ctx context.Context) ([]*model.Prompt, error) {
	filter := bson.M{"isArchived": false, "isAutoFlagged": false}
	return r.list(ctx, filter)
}

func (r *promptRepo) ListReported(ctx context.Context) ([]*model.Prompt, error) {
	return r.list(ctx, bson.M{"isReported": true})
}

func (r *promptRepo) ListArchived(ctx context.Context) ([]*model.Prompt, error) {
	return r.list(ctx, bson.M{"isArchived": true})
}

func (r *promptRepo) list(ctx context.Context, filter bson.M) ([]*model.Prompt, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	prompts := []*model.Prompt{}
	if err := cursor.All(ctx, &prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *promptRepo) SetReported(ctx context.Context, id string, reported bool) error {
	return r.setFlag(ctx, id, "isReported", reported)
}

func (r *promptRepo) SetArchived(ctx context.Context, id string, archived bool) error {
	return r.setFlag(ctx, id, "isArchived", archived)
}

func (r *promptRepo) setFlag(ctx context.Context, id, field string, value bool) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *promptRepo) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
