package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a coached athlete on the roster. Clients are not login users;
// they are records owned by the coach's account.
type Client struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Goals     string             `bson:"goals,omitempty" json:"goals,omitempty"`
	IsDeleted bool               `bson:"isDeleted" json:"isDeleted"` // Soft delete; roster listings exclude deleted clients
	DeletedAt *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
