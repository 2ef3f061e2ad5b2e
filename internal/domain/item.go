package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Item struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Category  []string           `bson:"category" json:"category"`
	Price     float64            `bson:"price" json:"price"`
	Ratings   []Rating           `bson:"ratings" json:"ratings"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Rating is one user's score for an item. An item holds at most one
// rating per user; the list is ordered most-recently-rated first.
type Rating struct {
	UserID string `bson:"user_id" json:"user_id"`
	Value  int    `bson:"value" json:"value"`
}

type Comment struct {
	ID        string    `bson:"id" json:"id"`
	AuthorID  string    `bson:"author_id" json:"author_id"`
	Author    string    `bson:"author" json:"author"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Likes     []string  `bson:"likes" json:"likes"`
	Dislikes  []string  `bson:"dislikes" json:"dislikes"`
}

// AverageRating derives the mean score. The stored document keeps no
// aggregate, so this is computed on read.
func (i *Item) AverageRating() float64 {
	if len(i.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range i.Ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(i.Ratings))
}

// LikedBy reports whether userID currently likes the comment.
func (c *Comment) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// DislikedBy reports whether userID currently dislikes the comment.
func (c *Comment) DislikedBy(userID string) bool {
	for _, id := range c.Dislikes {
		if id == userID {
			return true
		}
	}
	return false
}
