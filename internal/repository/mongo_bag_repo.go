package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fjod/go_catalog/internal/domain"
)

type mongoBagRepository struct {
	collection *mongo.Collection
}

func NewMongoBagRepository(db *mongo.Database) BagRepository {
	return &mongoBagRepository{
		collection: db.Collection("bags"),
	}
}

func (m *mongoBagRepository) GetBag(ctx context.Context, userID string) (*domain.Bag, error) {
	var bag domain.Bag

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&bag)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBagNotFound
		}
		return nil, fmt.Errorf("failed to get bag: %w", err)
	}

	return &bag, nil
}

// GetOrCreate upserts keyed by user id. The unique index on user_id
// backs this up: two concurrent calls for the same user converge on a
// single bag document.
func (m *mongoBagRepository) GetOrCreate(ctx context.Context, userID, username string) (*domain.Bag, error) {
	now := time.Now()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set":         bson.M{"username": username, "updated_at": now},
		"$setOnInsert": bson.M{"items": bson.A{}, "created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var bag domain.Bag
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bag)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert bag: %w", err)
	}

	return &bag, nil
}

// AddItem prepends a reference. Duplicates are allowed: one entry per
// add, newest first. A user without a bag gets one created here.
func (m *mongoBagRepository) AddItem(ctx context.Context, userID string, item domain.BagItem) (*domain.Bag, error) {
	now := time.Now()
	item.AddedAt = now

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$push":        bson.M{"items": bson.M{"$each": bson.A{item}, "$position": 0}},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var bag domain.Bag
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bag)
	if err != nil {
		return nil, fmt.Errorf("failed to add item to bag: %w", err)
	}

	return &bag, nil
}

// RemoveItem drops the first matching reference only; duplicates
// further down stay ($pull would take them all). The filter requires a
// match, so an absent reference is not-found, never a removal of some
// other element.
func (m *mongoBagRepository) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Bag, error) {
	now := time.Now()

	filter := bson.M{"user_id": userID, "items.item_id": itemID}
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"items": bson.M{"$let": bson.M{
				"vars": bson.M{"idx": bson.M{"$indexOfArray": bson.A{"$items.item_id", itemID}}},
				"in": bson.M{"$concatArrays": bson.A{
					bson.M{"$cond": bson.A{
						bson.M{"$eq": bson.A{"$$idx", 0}},
						bson.A{},
						bson.M{"$slice": bson.A{"$items", "$$idx"}},
					}},
					bson.M{"$slice": bson.A{"$items", bson.M{"$add": bson.A{"$$idx", 1}}, bson.M{"$size": "$items"}}},
				}},
			}},
			"updated_at": now,
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var bag domain.Bag
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&bag)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, m.missingItemErr(ctx, userID)
		}
		return nil, fmt.Errorf("failed to remove item from bag: %w", err)
	}

	return &bag, nil
}

func (m *mongoBagRepository) DeleteBag(ctx context.Context, userID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete bag: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrBagNotFound
	}

	return nil
}

func (m *mongoBagRepository) missingItemErr(ctx context.Context, userID string) error {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrBagNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check bag: %w", err)
	}
	return ErrItemNotInBag
}

// EnsureIndexes creates the indexes the repositories rely on. Called
// once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	bags := &mongoBagRepository{collection: db.Collection("bags")}
	return bags.CreateIndexes(ctx)
}

func (m *mongoBagRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
