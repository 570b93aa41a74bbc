package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is the durable catalog entity. ID and ImageKey are assigned at
// creation and never change; a record is only ever persisted fully
// populated.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" bson:"price"`
	ImageKey    string    `json:"image_key" bson:"image_key"`
	AssetKeys   []string  `json:"asset_keys,omitempty" bson:"asset_keys,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Subscription is an email address recorded from the storefront's
// subscribe form.
type Subscription struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
