package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fjod/go_catalog/internal/domain"
)

// Every mutation below is a single atomic update whose update document
// expresses the target state, so two concurrent writers on the same
// item never lose each other's changes. Transitions that $push/$pull
// cannot express use aggregation-pipeline updates instead; nothing
// reads a document, mutates it in memory and writes it back whole.
type mongoItemRepository struct {
	collection *mongo.Collection
}

func NewMongoItemRepository(db *mongo.Database) ItemRepository {
	return &mongoItemRepository{
		collection: db.Collection("items"),
	}
}

func (m *mongoItemRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []domain.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}

func (m *mongoItemRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	var item domain.Item
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &item, nil
}

func (m *mongoItemRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	item.CreatedAt = time.Now()
	if item.Ratings == nil {
		item.Ratings = []domain.Rating{}
	}
	if item.Comments == nil {
		item.Comments = []domain.Comment{}
	}

	result, err := m.collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		item.ID = oid
	}

	return nil
}

func (m *mongoItemRepository) DeleteItem(ctx context.Context, itemID string) error {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return ErrItemNotFound
	}

	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrItemNotFound
	}

	return nil
}

// UpsertRating drops any previous rating by this user and puts the new
// one at the front, as one pipeline update. A returning rater replaces
// their old entry and moves to the front; everyone else's entries are
// untouched.
func (m *mongoItemRepository) UpsertRating(ctx context.Context, itemID, userID string, value int) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"ratings": bson.M{"$concatArrays": bson.A{
				bson.A{bson.M{"$literal": domain.Rating{UserID: userID, Value: value}}},
				bson.M{"$filter": bson.M{
					"input": bson.M{"$ifNull": bson.A{"$ratings", bson.A{}}},
					"as":    "r",
					"cond":  bson.M{"$ne": bson.A{"$$r.user_id", userID}},
				}},
			}},
		}}},
	}

	var item domain.Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = m.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to upsert rating: %w", err)
	}

	return &item, nil
}

func (m *mongoItemRepository) AddComment(ctx context.Context, itemID string, comment domain.Comment) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	update := bson.M{
		"$push": bson.M{"comments": bson.M{"$each": bson.A{comment}, "$position": 0}},
	}

	var item domain.Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = m.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return &item, nil
}

// RemoveComment pulls the comment by id. The filter requires the id to
// exist, so an unknown comment is rejected up front instead of quietly
// removing something else.
func (m *mongoItemRepository) RemoveComment(ctx context.Context, itemID, commentID string) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	filter := bson.M{"_id": oid, "comments.id": commentID}
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"id": commentID}},
	}

	var item domain.Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, m.missingCommentErr(ctx, oid)
		}
		return nil, fmt.Errorf("failed to remove comment: %w", err)
	}

	return &item, nil
}

func (m *mongoItemRepository) LikeComment(ctx context.Context, itemID, commentID, userID string) (*domain.Item, error) {
	return m.toggleReaction(ctx, itemID, commentID, userID, "likes", "dislikes")
}

func (m *mongoItemRepository) DislikeComment(ctx context.Context, itemID, commentID, userID string) (*domain.Item, error) {
	return m.toggleReaction(ctx, itemID, commentID, userID, "dislikes", "likes")
}

// toggleReaction applies the three-state like/dislike transition as one
// pipeline update: the user always leaves the opposite set, and either
// leaves the target set (toggle off) or joins it. Both sets holding the
// user at once is therefore impossible after any transition, under any
// interleaving of callers.
func (m *mongoItemRepository) toggleReaction(ctx context.Context, itemID, commentID, userID, target, opposite string) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	targetPath := "$$c." + target
	oppositePath := "$$c." + opposite
	without := func(path string) bson.M {
		return bson.M{"$setDifference": bson.A{
			bson.M{"$ifNull": bson.A{path, bson.A{}}},
			bson.A{userID},
		}}
	}

	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"comments": bson.M{"$map": bson.M{
				"input": "$comments",
				"as":    "c",
				"in": bson.M{"$cond": bson.A{
					bson.M{"$ne": bson.A{"$$c.id", commentID}},
					"$$c",
					bson.M{"$mergeObjects": bson.A{"$$c", bson.M{
						target: bson.M{"$cond": bson.A{
							bson.M{"$in": bson.A{userID, bson.M{"$ifNull": bson.A{targetPath, bson.A{}}}}},
							without(targetPath),
							bson.M{"$concatArrays": bson.A{without(targetPath), bson.A{userID}}},
						}},
						opposite: without(oppositePath),
					}}},
				}},
			}},
		}}},
	}

	// The filter pins the comment id, so a vanished comment surfaces as
	// not-found before anything is written.
	filter := bson.M{"_id": oid, "comments.id": commentID}

	var item domain.Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, m.missingCommentErr(ctx, oid)
		}
		return nil, fmt.Errorf("failed to toggle reaction: %w", err)
	}

	return &item, nil
}

// missingCommentErr tells an absent item apart from an absent comment
// after a comment-scoped update matched nothing.
func (m *mongoItemRepository) missingCommentErr(ctx context.Context, oid primitive.ObjectID) error {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := m.collection.FindOne(ctx, bson.M{"_id": oid}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check item: %w", err)
	}
	return ErrCommentNotFound
}
