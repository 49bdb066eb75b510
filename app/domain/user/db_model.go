package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DBModel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Auth0ID   string             `bson:"auth0_id" json:"auth0_id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Picture   string             `bson:"picture" json:"picture"`
	Items     []string           `bson:"items" json:"items"`
	LastLogin time.Time          `bson:"last_login" json:"last_login"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
