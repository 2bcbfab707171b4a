package models

import "time"

// Vegetable is a crop catalog entry. GrowthDurationDays drives harvest due
// date derivation; nil means the catalog does not know the duration and the
// planting caller must supply a due date directly.
type Vegetable struct {
	ID                 string    `bson:"_id" json:"id"`
	Name               string    `bson:"name" json:"name"`
	GrowthDurationDays *int      `bson:"growth_duration_days,omitempty" json:"growth_duration_days,omitempty"`
	Description        string    `bson:"description,omitempty" json:"description,omitempty"`
	ImageRef           string    `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}
