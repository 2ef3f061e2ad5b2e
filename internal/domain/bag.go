package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bag is a user's shopping bag. There is at most one bag per user,
// keyed by user id, holding lightweight item references ordered
// most-recently-added first. Duplicate references are allowed: each
// add produces its own entry.
type Bag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Username  string             `bson:"username" json:"username"`
	Items     []BagItem          `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type BagItem struct {
	ItemID  string    `bson:"item_id" json:"item_id"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}
